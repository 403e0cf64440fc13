package port

import (
	"context"

	"github.com/foodcircles/storefront/internal/core/domain"
)

type OrderNotifier interface {
	// PublishOrderPlaced sends an order-placed event to the restaurant side.
	PublishOrderPlaced(ctx context.Context, notification domain.OrderNotification) error
}
