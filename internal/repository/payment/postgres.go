package payment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"marketcore/internal/db"
	"marketcore/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, q db.Querier, in CreatePaymentInput) (*domain.Payment, error) {
	const query = `
INSERT INTO payments (order_id, amount_cents, mode, status, provider_txn_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, order_id::text, amount_cents, mode, status, provider_txn_id, created_at
`
	var p domain.Payment
	err := q.QueryRow(ctx, query, in.OrderID, in.AmountCents, in.Mode, in.Status, in.ProviderTxnID).Scan(
		&p.ID,
		&p.OrderID,
		&p.AmountCents,
		&p.Mode,
		&p.Status,
		&p.ProviderTxnID,
		&p.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	const query = `
SELECT id::text, order_id::text, amount_cents, mode, status, provider_txn_id, created_at
FROM payments
WHERE order_id = $1
`
	var p domain.Payment
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&p.ID,
		&p.OrderID,
		&p.AmountCents,
		&p.Mode,
		&p.Status,
		&p.ProviderTxnID,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
