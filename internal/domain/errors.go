package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAccessDenied indicates the entity exists but belongs to another user.
	ErrAccessDenied = errors.New("access denied")
	// ErrEmptyCart indicates an order placement against a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition indicates a state-machine guard rejected the write.
	ErrInvalidTransition = errors.New("invalid order transition")
	// ErrAlreadyPaid indicates a payment intent requested for an order whose
	// payment is already completed.
	ErrAlreadyPaid = errors.New("order is already paid for")
	// ErrVerificationFailed indicates a payment callback signature mismatch.
	ErrVerificationFailed = errors.New("payment verification failed")
	// ErrOrderMappingMissing indicates a provider callback that cannot be
	// mapped back to an internal order.
	ErrOrderMappingMissing = errors.New("order mapping missing from provider record")
	// ErrProviderUnavailable indicates a retryable payment provider failure.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
)

// OutOfStockError reports which product blocked a reservation.
type OutOfStockError struct {
	ProductID   string
	ProductName string
}

func (e *OutOfStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("out of stock: %s", name)
}

// AsOutOfStock unwraps err into an OutOfStockError when possible.
func AsOutOfStock(err error) (*OutOfStockError, bool) {
	var oos *OutOfStockError
	if errors.As(err, &oos) {
		return oos, true
	}
	return nil, false
}
