package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/motmap/internal/core/domain"
	"github.com/samirrijal/motmap/internal/pkg/metrics"
	"github.com/samirrijal/motmap/internal/pkg/seed"
)

// ErrTypeInvalidRecord marks records that can never be imported.
const ErrTypeInvalidRecord = "InvalidRecord"

// RestaurantWriter is the part of the restaurant service the import needs.
type RestaurantWriter interface {
	Create(ctx context.Context, in domain.RestaurantInput) (*domain.Restaurant, error)
	Delete(ctx context.Context, id int64) error
}

// CreateOutcome is the result of one CreateRestaurant activity.
type CreateOutcome struct {
	ID      int64
	Skipped bool
}

// ImportActivities holds the activity implementations for the import workflow.
type ImportActivities struct {
	Restaurants RestaurantWriter
}

// CreateRestaurant creates one record. Duplicates are reported as skipped;
// validation failures are non-retryable.
func (a *ImportActivities) CreateRestaurant(ctx context.Context, rec seed.Record) (CreateOutcome, error) {
	r, err := a.Restaurants.Create(ctx, rec.Input())
	switch {
	case err == nil:
		metrics.ImportedRestaurants.WithLabelValues("created").Inc()
		return CreateOutcome{ID: r.ID}, nil

	case errors.Is(err, domain.ErrDuplicate):
		metrics.ImportedRestaurants.WithLabelValues("skipped").Inc()
		slog.Info("import: duplicate skipped", "name", rec.Name, "address", rec.Address)
		return CreateOutcome{Skipped: true}, nil

	case domain.ErrorCode(err) != "":
		metrics.ImportedRestaurants.WithLabelValues("invalid").Inc()
		return CreateOutcome{}, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidRecord, err)

	default:
		return CreateOutcome{}, fmt.Errorf("create %q: %w", rec.Name, err)
	}
}

// DeleteRestaurant removes a restaurant created earlier in the run (saga
// compensation). A restaurant that is already gone counts as deleted.
func (a *ImportActivities) DeleteRestaurant(ctx context.Context, id int64) error {
	err := a.Restaurants.Delete(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete restaurant %d: %w", id, err)
	}
	metrics.ImportedRestaurants.WithLabelValues("rolled_back").Inc()
	slog.Info("import: restaurant rolled back", "id", id)
	return nil
}
