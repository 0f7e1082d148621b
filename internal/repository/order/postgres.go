package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
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

func (r *postgresRepo) Create(ctx context.Context, q db.Querier, in CreateOrderInput) (*domain.Order, error) {
	const insertOrder = `
INSERT INTO orders (user_id, status, payment_status, total_cents, ship_street, ship_city, ship_state, ship_pincode, ship_landmark)
VALUES ($1, 'PENDING', 'PENDING', $2, $3, $4, $5, $6, $7)
RETURNING id::text, user_id::text, status, payment_status, total_cents, created_at
`
	var o domain.Order
	if err := q.QueryRow(ctx, insertOrder,
		in.UserID,
		in.TotalCents,
		in.ShippingAddress.Street,
		in.ShippingAddress.City,
		in.ShippingAddress.State,
		in.ShippingAddress.Pincode,
		in.ShippingAddress.Landmark,
	).Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentStatus, &o.TotalCents, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.ShippingAddress = in.ShippingAddress

	const insertLine = `
INSERT INTO order_lines (order_id, product_id, product_name, unit_price_cents, quantity)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`
	for _, line := range in.Lines {
		var lineID string
		if err := q.QueryRow(ctx, insertLine, o.ID, line.ProductID, line.ProductName, line.UnitPriceCents, line.Quantity).Scan(&lineID); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, domain.OrderLine{
			ID:             lineID,
			OrderID:        o.ID,
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}
	return &o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, status, payment_status, total_cents,
       ship_street, ship_city, ship_state, ship_pincode, ship_landmark, created_at
FROM orders
WHERE id = $1
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.PaymentStatus,
		&o.TotalCents,
		&o.ShippingAddress.Street,
		&o.ShippingAddress.City,
		&o.ShippingAddress.State,
		&o.ShippingAddress.Pincode,
		&o.ShippingAddress.Landmark,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	lines, err := r.fetchLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, status, payment_status, total_cents,
       ship_street, ship_city, ship_state, ship_pincode, ship_landmark, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		lines, err := r.fetchLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (r *postgresRepo) Transition(ctx context.Context, q db.Querier, orderID string, from, to domain.OrderStatus, paymentStatus *domain.PaymentStatus) (bool, error) {
	if paymentStatus != nil {
		cmd, execErr := q.Exec(ctx, `
UPDATE orders
SET status = $3, payment_status = $4
WHERE id = $1 AND status = $2
`, orderID, from, to, *paymentStatus)
		if execErr != nil {
			return false, execErr
		}
		return cmd.RowsAffected() == 1, nil
	}
	cmd, err := q.Exec(ctx, `
UPDATE orders
SET status = $3
WHERE id = $1 AND status = $2
`, orderID, from, to)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *postgresRepo) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, status, payment_status, total_cents,
       ship_street, ship_city, ship_state, ship_pincode, ship_landmark, created_at
FROM orders
WHERE status = 'PENDING' AND created_at < $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		lines, err := r.fetchLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (r *postgresRepo) fetchLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const q = `
SELECT id::text, order_id::text, product_id::text, product_name, unit_price_cents, quantity
FROM order_lines
WHERE order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ProductID,
			&line.ProductName,
			&line.UnitPriceCents,
			&line.Quantity,
		); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.Status,
			&o.PaymentStatus,
			&o.TotalCents,
			&o.ShippingAddress.Street,
			&o.ShippingAddress.City,
			&o.ShippingAddress.State,
			&o.ShippingAddress.Pincode,
			&o.ShippingAddress.Landmark,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
