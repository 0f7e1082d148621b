package cart

import (
	"context"

	"marketcore/internal/db"
	"marketcore/internal/domain"
)

type Repository interface {
	// GetOrCreateByUser returns the user's cart, creating the row lazily.
	// Lines are joined against the live catalog for current price and name.
	GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// AddLine upserts a line; an existing line for the product accumulates
	// quantity.
	AddLine(ctx context.Context, cartID, productID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, lineID string) error
	// Clear removes every line of the cart.
	Clear(ctx context.Context, cartID string) error
	// ClearLines removes every line through the given Querier so order
	// placement can run it inside the placement transaction.
	ClearLines(ctx context.Context, q db.Querier, cartID string) error
}
