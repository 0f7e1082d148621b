package payment

import (
	"context"

	"marketcore/internal/db"
	"marketcore/internal/domain"
)

type CreatePaymentInput struct {
	OrderID       string
	AmountCents   int64
	Mode          domain.PaymentMode
	Status        domain.PaymentStatus
	ProviderTxnID string
}

type Repository interface {
	// Create inserts the payment row. It accepts a Querier so reconciliation
	// can pair the insert with the order confirm in one transaction. A
	// duplicate order id or provider transaction id yields
	// domain.ErrAlreadyExists.
	Create(ctx context.Context, q db.Querier, in CreatePaymentInput) (*domain.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
}
