package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/foodcircles/storefront/internal/core/domain"
)

// Mock OrderRepository
type mockOrderRepo struct {
	orders    []domain.Order
	createErr error
	mu        sync.Mutex
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, order domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepo) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// Mock SubmissionGuard
type mockGuard struct {
	held map[string]bool
	mu   sync.Mutex
}

func newMockGuard() *mockGuard {
	return &mockGuard{held: make(map[string]bool)}
}

func (m *mockGuard) Acquire(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] {
		return false, nil
	}
	m.held[key] = true
	return true, nil
}

func (m *mockGuard) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, key)
	return nil
}

func validRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		UserID: "user-1",
		Intent: IntentPlaceOrder,
		Items: []domain.CartItem{
			{ID: "item-a", Name: "Pizza", Price: 10, Quantity: 2},
			{ID: "item-b", Name: "Burger", Price: 5, Quantity: 1},
		},
		Amount:        25,
		OrderType:     domain.OrderTypePickup,
		PaymentMethod: domain.PaymentMethodCreditCard,
	}
}

func newService(repo *mockOrderRepo) *OrderService {
	svc := NewOrderService(repo, newMockGuard(), 100)
	// Drain notifications
	go func() {
		for range svc.Notifications() {
		}
	}()
	return svc
}

func TestPlaceOrder_Success(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newService(repo)
	defer svc.Close()

	order, err := svc.PlaceOrder(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if order.Amount != 25 {
		t.Errorf("expected amount 25, got %v", order.Amount)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("expected pending status, got %s", order.Status)
	}
	if order.Address != "" {
		t.Errorf("expected empty address for pickup, got %q", order.Address)
	}
	if len(repo.orders) != 1 {
		t.Fatalf("expected one persisted order, got %d", len(repo.orders))
	}
	if len(repo.orders[0].Items) != 2 {
		t.Errorf("expected 2 order items, got %d", len(repo.orders[0].Items))
	}
}

func TestPlaceOrder_NoUserIsUnauthorized(t *testing.T) {
	svc := newService(&mockOrderRepo{})
	defer svc.Close()

	req := validRequest()
	req.UserID = ""

	_, err := svc.PlaceOrder(context.Background(), req)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got: %v", err)
	}
}

func TestPlaceOrder_MissingIntentIsUnauthorized(t *testing.T) {
	svc := newService(&mockOrderRepo{})
	defer svc.Close()

	req := validRequest()
	req.Intent = ""

	_, err := svc.PlaceOrder(context.Background(), req)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got: %v", err)
	}
}

func TestPlaceOrder_UnknownIntent(t *testing.T) {
	svc := newService(&mockOrderRepo{})
	defer svc.Close()

	req := validRequest()
	req.Intent = "cancel-order"

	_, err := svc.PlaceOrder(context.Background(), req)
	if !errors.Is(err, ErrInvalidIntent) {
		t.Errorf("expected ErrInvalidIntent, got: %v", err)
	}
}

func TestPlaceOrder_MissingFields(t *testing.T) {
	svc := newService(&mockOrderRepo{})
	defer svc.Close()

	cases := map[string]func(*PlaceOrderRequest){
		"no items":          func(r *PlaceOrderRequest) { r.Items = nil },
		"no amount":         func(r *PlaceOrderRequest) { r.Amount = 0 },
		"no order type":     func(r *PlaceOrderRequest) { r.OrderType = "" },
		"no payment method": func(r *PlaceOrderRequest) { r.PaymentMethod = "" },
		"bad order type":    func(r *PlaceOrderRequest) { r.OrderType = "TELEPORT" },
		"bad payment":       func(r *PlaceOrderRequest) { r.PaymentMethod = "IOU" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)

			_, err := svc.PlaceOrder(context.Background(), req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got: %v", err)
			}
		})
	}
}

func TestPlaceOrder_AmountMismatchRejected(t *testing.T) {
	svc := newService(&mockOrderRepo{})
	defer svc.Close()

	req := validRequest()
	req.Amount = 19.99

	_, err := svc.PlaceOrder(context.Background(), req)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for mismatching amount, got: %v", err)
	}
}

// A delivery order with an empty address is accepted: the address requirement
// lives in the UI, not in the server validation path.
func TestPlaceOrder_DeliveryWithEmptyAddressAccepted(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newService(repo)
	defer svc.Close()

	req := validRequest()
	req.OrderType = domain.OrderTypeDelivery
	req.Address = ""

	order, err := svc.PlaceOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if order.Address != "" {
		t.Errorf("expected empty address, got %q", order.Address)
	}
}

func TestPlaceOrder_SnapshotIsImmutable(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newService(repo)
	defer svc.Close()

	req := validRequest()
	_, err := svc.PlaceOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	// Mutating the submitted slice must not reach the persisted order.
	req.Items[0].Quantity = 99

	if got := repo.orders[0].Items[0].Quantity; got != 2 {
		t.Errorf("order snapshot shares memory with the request, quantity %d", got)
	}
}

func TestPlaceOrder_GuardRejectsConcurrentSubmission(t *testing.T) {
	repo := &mockOrderRepo{}
	guard := newMockGuard()
	svc := NewOrderService(repo, guard, 100)
	defer svc.Close()

	go func() {
		for range svc.Notifications() {
		}
	}()

	// Simulate an in-flight submission holding the guard.
	guard.Acquire(context.Background(), "user-1")

	_, err := svc.PlaceOrder(context.Background(), validRequest())
	if !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("expected ErrSubmissionInFlight, got: %v", err)
	}
}

func TestPlaceOrder_GuardReleasedAfterCompletion(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newService(repo)
	defer svc.Close()

	for i := 0; i < 2; i++ {
		if _, err := svc.PlaceOrder(context.Background(), validRequest()); err != nil {
			t.Fatalf("submission %d failed: %v", i+1, err)
		}
	}

	if len(repo.orders) != 2 {
		t.Errorf("expected 2 sequential orders, got %d", len(repo.orders))
	}
}

func TestPlaceOrder_RepositoryFailurePropagates(t *testing.T) {
	repo := &mockOrderRepo{createErr: errors.New("connection refused")}
	svc := newService(repo)
	defer svc.Close()

	_, err := svc.PlaceOrder(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error from failing repository")
	}
	if errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrUnauthorized) {
		t.Errorf("collaborator failure misclassified: %v", err)
	}
}

func TestPlaceOrder_NotificationQueued(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewOrderService(repo, newMockGuard(), 100)

	order, err := svc.PlaceOrder(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	notification := <-svc.Notifications()
	if notification.OrderID != order.ID {
		t.Errorf("expected notification for order %s, got %s", order.ID, notification.OrderID)
	}
	if notification.Amount != 25 {
		t.Errorf("expected amount 25, got %v", notification.Amount)
	}

	svc.Close()
}

func TestListOrders_RequiresUser(t *testing.T) {
	svc := newService(&mockOrderRepo{})
	defer svc.Close()

	_, err := svc.ListOrders(context.Background(), "")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got: %v", err)
	}
}
