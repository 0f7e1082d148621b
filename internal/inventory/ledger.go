package inventory

import (
	"context"
	"fmt"

	"marketcore/internal/db"
	"marketcore/internal/domain"
)

// Ledger owns the available_quantity counter on products. Reserve and Release
// are single conditional statements, never read-then-write, so concurrent
// checkouts on the same product serialize on the row and stock can never go
// negative.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Reserve decrements available stock if and only if enough remains. It accepts
// any Querier so callers can run it inside the placement transaction; the
// rollback of that transaction is what undoes earlier reservations when a
// later line fails.
func (l *Ledger) Reserve(ctx context.Context, q db.Querier, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("reserve quantity must be positive, got %d", quantity)
	}
	tag, err := q.Exec(ctx, `
UPDATE products
SET available_quantity = available_quantity - $2
WHERE id = $1 AND available_quantity >= $2
`, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if err := l.ensureExists(ctx, q, productID); err != nil {
			return err
		}
		return &domain.OutOfStockError{ProductID: productID}
	}
	return nil
}

// Release returns previously reserved units unconditionally. Exactly-once
// release is the caller's responsibility; the order cancel guard guarantees it.
func (l *Ledger) Release(ctx context.Context, q db.Querier, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("release quantity must be positive, got %d", quantity)
	}
	tag, err := q.Exec(ctx, `
UPDATE products
SET available_quantity = available_quantity + $2
WHERE id = $1
`, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (l *Ledger) ensureExists(ctx context.Context, q db.Querier, productID string) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}
