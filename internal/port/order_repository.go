package port

import (
	"context"

	"github.com/foodcircles/storefront/internal/core/domain"
)

type OrderRepository interface {
	// CreateOrder persists a new order together with its line items.
	CreateOrder(ctx context.Context, order domain.Order) error

	// ListOrdersByUser returns a user's orders, most recent first.
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
