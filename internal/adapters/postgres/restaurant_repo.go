package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/samirrijal/motmap/internal/core/domain"
	"github.com/samirrijal/motmap/internal/core/ports"
)

const restaurantColumns = `id, name, address, category, rating, review, latitude, longitude, created_at, updated_at`

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

var _ ports.RestaurantRepository = (*RestaurantRepo)(nil)

// RestaurantRepo implements ports.RestaurantRepository with pgx.
type RestaurantRepo struct {
	db *DB
}

// NewRestaurantRepo creates a new RestaurantRepo.
func NewRestaurantRepo(db *DB) *RestaurantRepo {
	return &RestaurantRepo{db: db}
}

// Create inserts r and fills in its ID and CreatedAt.
func (r *RestaurantRepo) Create(ctx context.Context, rs *domain.Restaurant) error {
	var createdAt *time.Time
	if !rs.CreatedAt.IsZero() {
		createdAt = &rs.CreatedAt
	}
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO restaurants (name, address, category, rating, review, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8::timestamptz, now()))
		RETURNING id, created_at
	`, rs.Name, rs.Address, string(rs.Category), rs.Rating, rs.Review,
		rs.Location.Lat, rs.Location.Lon, createdAt,
	).Scan(&rs.ID, &rs.CreatedAt)
	return mapError(err)
}

// Update overwrites the writable columns of an existing row.
func (r *RestaurantRepo) Update(ctx context.Context, rs *domain.Restaurant) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE restaurants
		SET name = $2, address = $3, category = $4, rating = $5, review = $6,
		    latitude = $7, longitude = $8, updated_at = COALESCE($9::timestamptz, now())
		WHERE id = $1
	`, rs.ID, rs.Name, rs.Address, string(rs.Category), rs.Rating, rs.Review,
		rs.Location.Lat, rs.Location.Lon, rs.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a row by id.
func (r *RestaurantRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID returns a restaurant by id.
func (r *RestaurantRepo) GetByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id)
	rs, err := scanRestaurant(row)
	if err != nil {
		return nil, mapError(err)
	}
	return rs, nil
}

// List returns restaurants matching f.
func (r *RestaurantRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Restaurant, error) {
	where, args := buildWhere(f)

	q := `SELECT ` + restaurantColumns + ` FROM restaurants` + where + orderBy(f.Sort)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += ` OFFSET $` + strconv.Itoa(len(args))
	}

	return r.query(ctx, q, args...)
}

// Count returns how many rows match f, ignoring paging.
func (r *RestaurantRepo) Count(ctx context.Context, f domain.ListFilter) (int, error) {
	where, args := buildWhere(f)
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM restaurants`+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ExistsByNameAndAddress reports whether the (name, address) pair is taken.
func (r *RestaurantRepo) ExistsByNameAndAddress(ctx context.Context, name, address string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM restaurants WHERE name = $1 AND address = $2)
	`, name, address).Scan(&exists)
	return exists, err
}

// FindInBounds returns the restaurants inside b, ordered by id.
func (r *RestaurantRepo) FindInBounds(ctx context.Context, b domain.Bounds) ([]domain.Restaurant, error) {
	return r.query(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY id
	`, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
}

// InsertBatch inserts many restaurants using pgx.Batch, skipping any whose
// (name, address) already exists. It returns the number of rows inserted.
func (r *RestaurantRepo) InsertBatch(ctx context.Context, rs []domain.Restaurant) (int, error) {
	batch := &pgx.Batch{}
	for _, x := range rs {
		batch.Queue(`
			INSERT INTO restaurants (name, address, category, rating, review, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (name, address) DO NOTHING
		`, x.Name, x.Address, string(x.Category), x.Rating, x.Review, x.Location.Lat, x.Location.Lon)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range rs {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (r *RestaurantRepo) query(ctx context.Context, q string, args ...any) ([]domain.Restaurant, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Restaurant{}
	for rows.Next() {
		rs, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rs)
	}
	return out, rows.Err()
}

func scanRestaurant(row pgx.Row) (*domain.Restaurant, error) {
	var (
		rs       domain.Restaurant
		category string
		rating   int16
	)
	if err := row.Scan(
		&rs.ID, &rs.Name, &rs.Address, &category, &rating, &rs.Review,
		&rs.Location.Lat, &rs.Location.Lon, &rs.CreatedAt, &rs.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rs.Category = domain.Category(category)
	rs.Rating = int(rating)
	return &rs, nil
}

func buildWhere(f domain.ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Category != nil {
		args = append(args, string(*f.Category))
		conds = append(conds, "category = $"+strconv.Itoa(len(args)))
	}
	if f.MinRating > 0 {
		args = append(args, f.MinRating)
		conds = append(conds, "rating >= $"+strconv.Itoa(len(args)))
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		args = append(args, "%"+escapeLike(kw)+"%")
		n := strconv.Itoa(len(args))
		conds = append(conds, "(name ILIKE $"+n+" OR address ILIKE $"+n+" OR review ILIKE $"+n+")")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(s domain.SortOrder) string {
	switch s {
	case domain.SortByRating:
		return " ORDER BY rating DESC, id"
	case domain.SortByRecent:
		return " ORDER BY created_at DESC, id DESC"
	default:
		return " ORDER BY id"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
