package domain

import "time"

type PaymentMode string

const (
	PaymentModeOnline PaymentMode = "ONLINE"
)

// Payment is the single reconciliation record of an order. ProviderTxnID is
// unique across all payments and is what makes callback replays detectable.
type Payment struct {
	ID            string        `json:"id"`
	OrderID       string        `json:"orderId"`
	AmountCents   int64         `json:"amountCents"`
	Mode          PaymentMode   `json:"mode"`
	Status        PaymentStatus `json:"status"`
	ProviderTxnID string        `json:"providerTransactionId"`
	CreatedAt     time.Time     `json:"createdAt"`
}
