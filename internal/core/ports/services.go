package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/motmap/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRestaurantEvent(ctx context.Context, event *domain.RestaurantEvent) error
}

// EventSubscriber delivers restaurant events from other replicas; the API
// uses it to drop per-id cache entries written elsewhere.
type EventSubscriber interface {
	SubscribeRestaurantEvents(ctx context.Context, handler func(ctx context.Context, event *domain.RestaurantEvent) error) error
}

// ErrCacheMiss is returned by CacheService.Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// CacheService provides read-through caching. Get reports a missing key
// with ErrCacheMiss. Incr backs the generation counters that version list
// and nearby keys.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}
