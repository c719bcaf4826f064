package usecases

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/motmap/internal/core/domain"
	"github.com/samirrijal/motmap/internal/core/ports"
	"github.com/samirrijal/motmap/internal/pkg/geospatial"
	"github.com/samirrijal/motmap/internal/pkg/logging"
	"github.com/samirrijal/motmap/internal/pkg/metrics"
)

const (
	cacheKeyGeneration = "restaurants:gen"
	cacheTTLByID       = 600
	cacheTTLList       = 300
)

// RestaurantService handles restaurant business logic.
type RestaurantService struct {
	repo   ports.RestaurantRepository
	cache  ports.CacheService
	events ports.EventPublisher
	tracer trace.Tracer
	now    func() time.Time
}

// NewRestaurantService creates a new RestaurantService. cache and events may be nil.
func NewRestaurantService(repo ports.RestaurantRepository, cache ports.CacheService, events ports.EventPublisher) *RestaurantService {
	return &RestaurantService{
		repo:   repo,
		cache:  cache,
		events: events,
		tracer: otel.Tracer("motmap/usecases"),
		now:    time.Now,
	}
}

// List returns restaurants matching filter.
func (s *RestaurantService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Restaurant, error) {
	ctx, span := s.tracer.Start(ctx, "RestaurantService.List")
	defer span.End()

	log := logging.FromContext(ctx)
	log.Debug("listing restaurants", "category", filter.Category, "min_rating", filter.MinRating, "keyword", filter.Keyword, "sort", filter.Sort)

	key := s.listKey(ctx, "list", filter)
	var out []domain.Restaurant
	if s.getCached(ctx, key, "list", &out) {
		return out, nil
	}

	out, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("list restaurants: %w", err))
	}

	s.setCached(ctx, key, out, cacheTTLList)
	log.Debug("listed restaurants", "count", len(out))
	return out, nil
}

// Count returns the number of restaurants matching filter, ignoring paging.
func (s *RestaurantService) Count(ctx context.Context, filter domain.ListFilter) (int, error) {
	n, err := s.repo.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}
	return n, nil
}

// GetByID returns a single restaurant.
func (s *RestaurantService) GetByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	ctx, span := s.tracer.Start(ctx, "RestaurantService.GetByID", trace.WithAttributes(attribute.Int64("restaurant.id", id)))
	defer span.End()

	key := idKey(id)
	var cached domain.Restaurant
	if s.getCached(ctx, key, "get", &cached) {
		return &cached, nil
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}

	s.setCached(ctx, key, r, cacheTTLByID)
	return r, nil
}

// Create validates and stores a new restaurant.
func (s *RestaurantService) Create(ctx context.Context, in domain.RestaurantInput) (*domain.Restaurant, error) {
	ctx, span := s.tracer.Start(ctx, "RestaurantService.Create")
	defer span.End()

	log := logging.FromContext(ctx)
	if err := prepareInput(&in); err != nil {
		return nil, s.fail(span, err)
	}

	exists, err := s.repo.ExistsByNameAndAddress(ctx, in.Name, in.Address)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("check duplicate: %w", err))
	}
	if exists {
		log.Warn("duplicate restaurant rejected", "name", in.Name, "address", in.Address)
		return nil, domain.Errorf(domain.ErrDuplicate, "%s (%s)", in.Name, in.Address)
	}

	r := &domain.Restaurant{CreatedAt: s.now().UTC()}
	in.Apply(r)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, s.fail(span, fmt.Errorf("create restaurant: %w", err))
	}

	log.Info("restaurant created", "id", r.ID, "name", r.Name)
	s.afterWrite(ctx, domain.EventCreated, r)
	return r, nil
}

// Update replaces the writable fields of an existing restaurant.
func (s *RestaurantService) Update(ctx context.Context, id int64, in domain.RestaurantInput) (*domain.Restaurant, error) {
	ctx, span := s.tracer.Start(ctx, "RestaurantService.Update", trace.WithAttributes(attribute.Int64("restaurant.id", id)))
	defer span.End()

	log := logging.FromContext(ctx)
	if err := prepareInput(&in); err != nil {
		return nil, s.fail(span, err)
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, err)
	}

	if r.Name != in.Name || r.Address != in.Address {
		exists, err := s.repo.ExistsByNameAndAddress(ctx, in.Name, in.Address)
		if err != nil {
			return nil, s.fail(span, fmt.Errorf("check duplicate: %w", err))
		}
		if exists {
			log.Warn("duplicate restaurant rejected", "id", id, "name", in.Name, "address", in.Address)
			return nil, domain.Errorf(domain.ErrDuplicate, "%s (%s)", in.Name, in.Address)
		}
	}

	in.Apply(r)
	now := s.now().UTC()
	r.UpdatedAt = &now
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, s.fail(span, fmt.Errorf("update restaurant %d: %w", id, err))
	}

	log.Info("restaurant updated", "id", r.ID, "name", r.Name)
	s.afterWrite(ctx, domain.EventUpdated, r)
	return r, nil
}

// Delete removes a restaurant.
func (s *RestaurantService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "RestaurantService.Delete", trace.WithAttributes(attribute.Int64("restaurant.id", id)))
	defer span.End()

	log := logging.FromContext(ctx)
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn("restaurant to delete not found", "id", id)
		}
		return s.fail(span, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(span, fmt.Errorf("delete restaurant %d: %w", id, err))
	}

	log.Info("restaurant deleted", "id", id)
	s.afterWrite(ctx, domain.EventDeleted, r)
	return nil
}

// ByCategory returns restaurants of one category.
func (s *RestaurantService) ByCategory(ctx context.Context, c domain.Category) ([]domain.Restaurant, error) {
	return s.List(ctx, domain.ListFilter{Category: &c})
}

// MinRating returns restaurants rated at least n. n is clamped to the rating scale.
func (s *RestaurantService) MinRating(ctx context.Context, n int) ([]domain.Restaurant, error) {
	n = max(domain.MinRating, min(n, domain.MaxRating))
	return s.List(ctx, domain.ListFilter{MinRating: n})
}

// HighRated returns restaurants rated 4 or higher.
func (s *RestaurantService) HighRated(ctx context.Context) ([]domain.Restaurant, error) {
	return s.List(ctx, domain.ListFilter{MinRating: domain.HighRatingFloor})
}

// Search matches keyword against name, address and review, case-insensitively.
func (s *RestaurantService) Search(ctx context.Context, keyword string) ([]domain.Restaurant, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.Errorf(domain.ErrValidation, "search keyword must not be empty")
	}
	return s.List(ctx, domain.ListFilter{Keyword: keyword})
}

// SortedByRating returns all restaurants, highest rated first.
func (s *RestaurantService) SortedByRating(ctx context.Context) ([]domain.Restaurant, error) {
	return s.List(ctx, domain.ListFilter{Sort: domain.SortByRating})
}

// SortedByRecent returns all restaurants, newest first.
func (s *RestaurantService) SortedByRecent(ctx context.Context) ([]domain.Restaurant, error) {
	return s.List(ctx, domain.ListFilter{Sort: domain.SortByRecent})
}

// Nearby returns restaurants strictly closer than the query radius to the
// origin, each annotated with its distance. Storage narrows candidates to a
// bounding box; the exact great-circle test runs here. Without an explicit
// sort the candidate (id) order is kept.
func (s *RestaurantService) Nearby(ctx context.Context, q domain.NearbyQuery) ([]domain.Restaurant, error) {
	ctx, span := s.tracer.Start(ctx, "RestaurantService.Nearby", trace.WithAttributes(
		attribute.Float64("geo.lat", q.Lat),
		attribute.Float64("geo.lon", q.Lon),
	))
	defer span.End()

	if !geospatial.IsValidLocation(q.Lat, q.Lon) {
		return nil, s.fail(span, domain.Errorf(domain.ErrInvalidLocation, "latitude %v, longitude %v", q.Lat, q.Lon))
	}

	radius := geospatial.DefaultRadiusKm
	if q.RadiusKm != nil {
		radius = *q.RadiusKm
	}
	span.SetAttributes(attribute.Float64("geo.radius_km", radius))

	log := logging.FromContext(ctx)
	log.Debug("nearby search", "lat", q.Lat, "lon", q.Lon, "radius_km", radius)

	if !(radius > 0) {
		return []domain.Restaurant{}, nil
	}

	key := s.genKey(ctx, "nearby:"+exactFloat(q.Lat)+":"+exactFloat(q.Lon)+":"+exactFloat(radius)+":"+string(q.Sort))
	var out []domain.Restaurant
	if s.getCached(ctx, key, "nearby", &out) {
		return out, nil
	}

	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(q.Lat, q.Lon, radius)
	candidates, err := s.repo.FindInBounds(ctx, domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon})
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("find candidates: %w", err))
	}

	out = geospatial.Within(q.Lat, q.Lon, radius, candidates, restaurantLocation)
	for i := range out {
		d := geospatial.DistanceKm(q.Lat, q.Lon, out[i].Location.Lat, out[i].Location.Lon)
		out[i].DistanceKm = &d
	}
	sortNearby(out, q.Sort)

	metrics.NearbyCandidates.Observe(float64(len(candidates)))
	metrics.NearbyMatches.Observe(float64(len(out)))
	span.SetAttributes(attribute.Int("geo.candidates", len(candidates)), attribute.Int("geo.matches", len(out)))
	log.Debug("nearby search done", "candidates", len(candidates), "matches", len(out))

	s.setCached(ctx, key, out, cacheTTLList)
	return out, nil
}

// Invalidate drops cached entries for one restaurant and every cached listing.
// It is also called when another replica reports a write.
func (s *RestaurantService) Invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	log := logging.FromContext(ctx)
	if err := s.cache.Delete(ctx, idKey(id)); err != nil {
		log.Warn("cache delete failed", "id", id, "error", err)
	}
	if _, err := s.cache.Incr(ctx, cacheKeyGeneration); err != nil {
		log.Warn("cache generation bump failed", "error", err)
	}
}

func (s *RestaurantService) afterWrite(ctx context.Context, typ domain.EventType, r *domain.Restaurant) {
	metrics.RestaurantWrites.WithLabelValues(string(typ)).Inc()
	s.Invalidate(ctx, r.ID)

	if s.events == nil {
		return
	}
	event := &domain.RestaurantEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		Restaurant: *r,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.PublishRestaurantEvent(ctx, event); err != nil {
		logging.FromContext(ctx).Warn("publish restaurant event failed", "type", typ, "id", r.ID, "error", err)
	}
}

func (s *RestaurantService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *RestaurantService) getCached(ctx context.Context, key, op string, dst any) bool {
	if s.cache == nil || key == "" {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil || json.Unmarshal(data, dst) != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(op).Inc()
	return true
}

func (s *RestaurantService) setCached(ctx context.Context, key string, v any, ttlSeconds int) {
	if s.cache == nil || key == "" {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, key, data, ttlSeconds)
	}
}

// genKey prefixes suffix with the current cache generation. A missing
// generation counts as 0; any other read failure returns "", which disables
// caching for the call.
func (s *RestaurantService) genKey(ctx context.Context, suffix string) string {
	if s.cache == nil {
		return ""
	}
	gen := "0"
	data, err := s.cache.Get(ctx, cacheKeyGeneration)
	switch {
	case errors.Is(err, ports.ErrCacheMiss):
	case err != nil:
		logging.FromContext(ctx).Warn("cache generation read failed", "error", err)
		return ""
	default:
		if _, perr := strconv.ParseInt(string(data), 10, 64); perr != nil {
			return ""
		}
		gen = string(data)
	}
	return "restaurants:g" + gen + ":" + suffix
}

func (s *RestaurantService) listKey(ctx context.Context, prefix string, f domain.ListFilter) string {
	category := ""
	if f.Category != nil {
		category = string(*f.Category)
	}
	raw := fmt.Sprintf("%s|%d|%s|%s|%d|%d", category, f.MinRating, strings.ToLower(f.Keyword), f.Sort, f.Limit, f.Offset)
	sum := sha1.Sum([]byte(raw))
	return s.genKey(ctx, prefix+":"+hex.EncodeToString(sum[:8]))
}

func idKey(id int64) string {
	return "restaurants:id:" + strconv.FormatInt(id, 10)
}

func restaurantLocation(r domain.Restaurant) (float64, float64) {
	return r.Location.Lat, r.Location.Lon
}

func prepareInput(in *domain.RestaurantInput) error {
	in.Normalize()
	if !geospatial.IsValidLocationPtr(in.Latitude, in.Longitude) {
		return domain.Errorf(domain.ErrInvalidLocation, "latitude %s, longitude %s", fmtCoord(in.Latitude), fmtCoord(in.Longitude))
	}
	return in.ValidateFields()
}

// exactFloat formats v with the shortest representation that round-trips,
// so distinct query values never share a cache key.
func exactFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func fmtCoord(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func sortNearby(rs []domain.Restaurant, by domain.NearbySort) {
	switch by {
	case domain.NearbySortDistance:
		sort.SliceStable(rs, func(i, j int) bool { return *rs[i].DistanceKm < *rs[j].DistanceKm })
	case domain.NearbySortRating:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Rating > rs[j].Rating })
	}
}
