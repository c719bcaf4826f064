//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/samirrijal/motmap/internal/adapters/postgres"
	"github.com/samirrijal/motmap/internal/core/domain"
	"github.com/samirrijal/motmap/internal/core/usecases"
)

func setupTestDatabase(t *testing.T) *postgres.DB {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgC.Terminate(ctx)
	})

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"
	db, err := postgres.New(ctx, dsn, 5)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	return db
}

func seedRows() []domain.Restaurant {
	return []domain.Restaurant{
		{Name: "명동교자", Address: "서울 중구 명동10길 29", Category: domain.CategoryKorean, Rating: 4, Review: "칼국수", Location: domain.GeoPoint{Lat: 37.563692, Lon: 126.982814}},
		{Name: "전주중앙회관", Address: "서울 중구 명동8길 19", Category: domain.CategoryKorean, Rating: 5, Review: "비빔밥", Location: domain.GeoPoint{Lat: 37.566570, Lon: 126.977829}},
		{Name: "스타벅스 명동점", Address: "서울 중구 명동길 43", Category: domain.CategoryCafe, Rating: 4, Review: "커피", Location: domain.GeoPoint{Lat: 37.564718, Lon: 126.982573}},
		{Name: "해운대 밀면", Address: "부산 해운대구", Category: domain.CategoryKorean, Rating: 3, Location: domain.GeoPoint{Lat: 35.1631, Lon: 129.1635}},
	}
}

func TestRestaurantRepo_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	db := setupTestDatabase(t)
	repo := postgres.NewRestaurantRepo(db)
	ctx := context.Background()

	r := &domain.Restaurant{Name: "교동짬뽕", Address: "서울 중구 명동", Category: domain.CategoryChinese, Rating: 4, Location: domain.GeoPoint{Lat: 37.564289, Lon: 126.982041}}
	require.NoError(t, repo.Create(ctx, r))
	assert.NotZero(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "교동짬뽕", got.Name)
	assert.Equal(t, domain.CategoryChinese, got.Category)
	assert.Nil(t, got.UpdatedAt)

	exists, err := repo.ExistsByNameAndAddress(ctx, "교동짬뽕", "서울 중구 명동")
	require.NoError(t, err)
	assert.True(t, exists)

	dup := *r
	dup.ID = 0
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrDuplicate)

	got.Rating = 5
	require.NoError(t, repo.Update(ctx, got))
	again, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Rating)
	assert.NotNil(t, again.UpdatedAt)

	require.NoError(t, repo.Delete(ctx, r.ID))
	_, err = repo.GetByID(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, r.ID), domain.ErrNotFound)
}

func TestRestaurantRepo_ListAndBounds(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	db := setupTestDatabase(t)
	repo := postgres.NewRestaurantRepo(db)
	ctx := context.Background()

	n, err := repo.InsertBatch(ctx, seedRows())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = repo.InsertBatch(ctx, seedRows()[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, n, "existing (name, address) must be skipped")

	cafe := domain.CategoryCafe
	rows, err := repo.List(ctx, domain.ListFilter{Category: &cafe})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "스타벅스 명동점", rows[0].Name)

	rows, err = repo.List(ctx, domain.ListFilter{MinRating: 4, Sort: domain.SortByRating})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 5, rows[0].Rating)

	rows, err = repo.List(ctx, domain.ListFilter{Keyword: "명동"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	count, err := repo.Count(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	rows, err = repo.List(ctx, domain.ListFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.FindInBounds(ctx, domain.Bounds{MinLat: 37.5, MinLon: 126.9, MaxLat: 37.6, MaxLon: 127.0})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Less(t, rows[0].ID, rows[1].ID)
}

func TestRestaurantService_NearbyAgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	db := setupTestDatabase(t)
	repo := postgres.NewRestaurantRepo(db)
	ctx := context.Background()

	_, err := repo.InsertBatch(ctx, seedRows())
	require.NoError(t, err)

	svc := usecases.NewRestaurantService(repo, nil, nil)
	got, err := svc.Nearby(ctx, domain.NearbyQuery{Lat: 37.5651, Lon: 126.9895})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, r := range got {
		require.NotNil(t, r.DistanceKm)
		assert.Less(t, *r.DistanceKm, 5.0)
	}
}
