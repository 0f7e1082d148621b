package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx. Repository
// methods that must compose into a larger unit of work accept a Querier so the
// same SQL runs standalone or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner makes atomic units of work explicit: everything fn writes through
// the passed Querier commits or rolls back as one.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(q Querier) error) error
}

// PoolRunner runs units of work as pgx transactions.
type PoolRunner struct {
	Pool *pgxpool.Pool
}

func NewPoolRunner(pool *pgxpool.Pool) PoolRunner {
	return PoolRunner{Pool: pool}
}

func (r PoolRunner) WithTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
