package product

import (
	"context"

	"marketcore/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}
