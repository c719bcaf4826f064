package ports

import (
	"context"

	"github.com/samirrijal/motmap/internal/core/domain"
)

// RestaurantRepository persists restaurants.
type RestaurantRepository interface {
	Create(ctx context.Context, r *domain.Restaurant) error
	Update(ctx context.Context, r *domain.Restaurant) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Restaurant, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Restaurant, error)
	Count(ctx context.Context, filter domain.ListFilter) (int, error)
	ExistsByNameAndAddress(ctx context.Context, name, address string) (bool, error)
	// FindInBounds returns restaurants inside the box, ordered by id.
	FindInBounds(ctx context.Context, b domain.Bounds) ([]domain.Restaurant, error)
}
