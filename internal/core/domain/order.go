package domain

import "time"

type OrderType string

const (
	OrderTypePickup   OrderType = "PICKUP"
	OrderTypeDelivery OrderType = "DELIVERY"
)

func (t OrderType) Valid() bool {
	return t == OrderTypePickup || t == OrderTypeDelivery
}

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodDebitCard
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID            string
	UserID        string
	Amount        float64
	OrderType     OrderType
	PaymentMethod PaymentMethod
	Address       string
	Status        OrderStatus
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem is an immutable snapshot of a cart line taken at submission
// time. The cart may keep mutating after the order is placed.
type OrderItem struct {
	ItemID   string
	Name     string
	Price    float64
	Quantity int
}

// OrderNotification is the order-placed event published to the restaurant
// notification exchange.
type OrderNotification struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	OrderType OrderType `json:"order_type"`
	Address   string    `json:"address,omitempty"`
	PlacedAt  time.Time `json:"placed_at"`
}
