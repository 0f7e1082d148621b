package address

import (
	"context"

	"marketcore/internal/domain"
)

type Repository interface {
	// GetForUser loads an address and enforces ownership: an address that
	// exists but belongs to a different user yields domain.ErrAccessDenied.
	GetForUser(ctx context.Context, addressID, userID string) (*domain.Address, error)
}
