package payment

import "context"

// orderIDNoteKey tags provider orders with the internal order id so the
// asynchronous callback can be mapped back without trusting client input.
const orderIDNoteKey = "internal_order_id"

// ProviderOrder is the provider-side payment intent for one internal order.
type ProviderOrder struct {
	ID          string            `json:"id"`
	AmountCents int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Receipt     string            `json:"receipt"`
	Status      string            `json:"status"`
	Notes       map[string]string `json:"notes"`
}

// InternalOrderID extracts the internal order id note, if present.
func (p *ProviderOrder) InternalOrderID() (string, bool) {
	if p.Notes == nil {
		return "", false
	}
	id, ok := p.Notes[orderIDNoteKey]
	return id, ok && id != ""
}

type CreateOrderParams struct {
	AmountCents     int64
	Currency        string
	Receipt         string
	InternalOrderID string
}

// Provider talks to the external payment provider. Implementations must treat
// network failures as retryable: no internal state may depend on a call having
// happened.
type Provider interface {
	CreateOrder(ctx context.Context, params CreateOrderParams) (*ProviderOrder, error)
	FetchOrder(ctx context.Context, providerOrderID string) (*ProviderOrder, error)
}
