package user

import (
	"context"

	"marketcore/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
