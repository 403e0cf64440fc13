package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/foodcircles/storefront/internal/core/cart"
	"github.com/foodcircles/storefront/internal/core/domain"
	"github.com/foodcircles/storefront/internal/port"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidIntent      = errors.New("invalid intent")
	ErrInvalidRequest     = errors.New("invalid request body")
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

// IntentPlaceOrder is the only intent the order workflow accepts.
const IntentPlaceOrder = "place-order"

// amountTolerance absorbs float rounding between the client-computed amount
// and the server-side recomputation.
const amountTolerance = 0.005

type OrderService struct {
	orders        port.OrderRepository
	guard         port.SubmissionGuard
	notifications chan domain.OrderNotification
}

func NewOrderService(orders port.OrderRepository, guard port.SubmissionGuard, queueSize int) *OrderService {
	return &OrderService{
		orders:        orders,
		guard:         guard,
		notifications: make(chan domain.OrderNotification, queueSize),
	}
}

// PlaceOrderRequest carries one form submission. Items is a snapshot taken at
// submission time; the submitting cart may keep mutating afterwards.
type PlaceOrderRequest struct {
	UserID        string
	Intent        string
	Items         []domain.CartItem
	Amount        float64
	OrderType     domain.OrderType
	PaymentMethod domain.PaymentMethod
	Address       string
}

// PlaceOrder validates and persists a single order submission. The address is
// advisory even for delivery orders: requiring it is a UI concern, so an
// empty address never rejects the request here.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	if req.UserID == "" || req.Intent == "" {
		return nil, ErrUnauthorized
	}
	if req.Intent != IntentPlaceOrder {
		return nil, ErrInvalidIntent
	}
	if len(req.Items) == 0 || req.Amount <= 0 || req.OrderType == "" || req.PaymentMethod == "" {
		return nil, ErrInvalidRequest
	}
	if !req.OrderType.Valid() || !req.PaymentMethod.Valid() {
		return nil, ErrInvalidRequest
	}
	for _, item := range req.Items {
		if item.ID == "" || item.Quantity < 1 || item.Price < 0 {
			return nil, ErrInvalidRequest
		}
	}

	// The submitted amount crosses a trust boundary: it must match the
	// recomputation from the submitted items.
	total := cart.Total(req.Items)
	if math.Abs(total-req.Amount) > amountTolerance {
		return nil, ErrInvalidRequest
	}

	ok, err := s.guard.Acquire(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("submission guard: %w", err)
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}
	defer s.guard.Release(ctx, req.UserID)

	now := time.Now()
	order := domain.Order{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		Amount:        total,
		OrderType:     req.OrderType,
		PaymentMethod: req.PaymentMethod,
		Address:       req.Address,
		Status:        domain.OrderStatusPending,
		Items:         snapshotItems(req.Items),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.notifications <- domain.OrderNotification{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Amount:    order.Amount,
		OrderType: order.OrderType,
		Address:   order.Address,
		PlacedAt:  now,
	}

	return &order, nil
}

// ListOrders returns the submitting user's order history, most recent first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Notifications() <-chan domain.OrderNotification {
	return s.notifications
}

func (s *OrderService) Close() {
	close(s.notifications)
}

func snapshotItems(items []domain.CartItem) []domain.OrderItem {
	snapshot := make([]domain.OrderItem, len(items))
	for i, item := range items {
		snapshot[i] = domain.OrderItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}
	return snapshot
}
