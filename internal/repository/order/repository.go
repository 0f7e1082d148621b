package order

import (
	"context"
	"time"

	"marketcore/internal/db"
	"marketcore/internal/domain"
)

type CreateOrderInput struct {
	UserID          string
	TotalCents      int64
	ShippingAddress domain.ShippingAddress
	Lines           []CreateOrderLine
}

type CreateOrderLine struct {
	ProductID      string
	ProductName    string
	UnitPriceCents int64
	Quantity       int
}

type Repository interface {
	// Create inserts the order and its lines. It accepts a Querier so
	// placement can run it inside the same transaction as the stock
	// reservations and the cart clear.
	Create(ctx context.Context, q db.Querier, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	// Transition performs the conditional state-machine write: the update
	// applies only while the order still has the expected current status.
	// It reports whether a row was actually updated; false means another
	// writer won the race (or the order is already terminal).
	Transition(ctx context.Context, q db.Querier, orderID string, from, to domain.OrderStatus, paymentStatus *domain.PaymentStatus) (bool, error)
	// ListExpiredPending returns PENDING orders created before the cutoff,
	// lines included, for the expiry sweep.
	ListExpiredPending(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
}
