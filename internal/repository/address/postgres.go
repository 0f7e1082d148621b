package address

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"marketcore/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetForUser(ctx context.Context, addressID, userID string) (*domain.Address, error) {
	const q = `
SELECT id::text, user_id::text, street, city, state, pincode, landmark
FROM addresses
WHERE id = $1
`
	var a domain.Address
	err := r.pool.QueryRow(ctx, q, addressID).Scan(
		&a.ID,
		&a.UserID,
		&a.Street,
		&a.City,
		&a.State,
		&a.Pincode,
		&a.Landmark,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if a.UserID != userID {
		return nil, domain.ErrAccessDenied
	}
	return &a, nil
}
