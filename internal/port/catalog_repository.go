package port

import (
	"context"

	"github.com/foodcircles/storefront/internal/core/domain"
)

type CatalogRepository interface {
	// ListRestaurants returns all restaurants with their items, ordered by name.
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
}
