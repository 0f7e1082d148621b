package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Order is an immutable receipt of a placed cart. Lines carry price snapshots
// and ShippingAddress is copied by value at placement; neither tracks later
// catalog or address edits. Orders are never deleted, only transitioned.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	TotalCents      int64           `json:"totalCents"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
	Lines           []OrderLine     `json:"lines"`
}

// ShippingAddress is the frozen copy of the address used at placement.
type ShippingAddress struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark,omitempty"`
}

type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"-"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// CanTransitionTo reports whether the fulfillment status write is allowed.
// Confirm and Cancel go through their own conditional updates; this guard only
// covers the administrative post-confirmation statuses.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	switch next {
	case OrderShipped:
		return o.Status == OrderConfirmed
	case OrderDelivered:
		return o.Status == OrderShipped
	default:
		return false
	}
}
