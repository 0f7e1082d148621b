package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Fixed ids keep the seed idempotent across runs.
const (
	aliceID = "0c2f1a3e-1111-4a61-9f0e-000000000001"
	bobID   = "0c2f1a3e-1111-4a61-9f0e-000000000002"
)

type productSeed struct {
	ID         string
	Vendor     string
	Name       string
	Desc       string
	PriceCents int64
	Stock      int
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	users := []struct {
		id, email, name string
	}{
		{aliceID, "alice@example.com", "Alice"},
		{bobID, "bob@example.com", "Bob"},
	}
	for _, u := range users {
		if err := upsertUser(ctx, pool, u.id, u.email, u.name); err != nil {
			return fmt.Errorf("upsert user %s: %w", u.email, err)
		}
	}

	addresses := []struct {
		id, userID, street, city, state, pincode string
	}{
		{"1a7d2b4c-2222-4a61-9f0e-000000000001", aliceID, "12 MG Road", "Bengaluru", "Karnataka", "560001"},
		{"1a7d2b4c-2222-4a61-9f0e-000000000002", bobID, "5 Park Street", "Kolkata", "West Bengal", "700016"},
	}
	for _, a := range addresses {
		if err := upsertAddress(ctx, pool, a.id, a.userID, a.street, a.city, a.state, a.pincode); err != nil {
			return fmt.Errorf("upsert address %s: %w", a.id, err)
		}
	}

	products := []productSeed{
		{
			ID:         "2b8e3c5d-3333-4a61-9f0e-000000000001",
			Vendor:     "Acme Apparel",
			Name:       "Cotton T-Shirt",
			Desc:       "Soft cotton tee",
			PriceCents: 1999,
			Stock:      50,
		},
		{
			ID:         "2b8e3c5d-3333-4a61-9f0e-000000000002",
			Vendor:     "Acme Apparel",
			Name:       "Denim Jacket",
			Desc:       "Classic fit denim jacket",
			PriceCents: 5499,
			Stock:      20,
		},
		{
			ID:         "2b8e3c5d-3333-4a61-9f0e-000000000003",
			Vendor:     "Brew Works",
			Name:       "Ceramic Mug",
			Desc:       "Ceramic mug with logo",
			PriceCents: 1299,
			Stock:      100,
		},
	}
	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	tokens := []struct {
		token, userID string
	}{
		{"dev-token-alice", aliceID},
		{"dev-token-bob", bobID},
	}
	for _, t := range tokens {
		if err := upsertToken(ctx, pool, t.token, t.userID); err != nil {
			return fmt.Errorf("upsert token %s: %w", t.token, err)
		}
	}

	return nil
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, id, email, name string) error {
	const q = `
INSERT INTO users (id, email, name)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name
`
	_, err := pool.Exec(ctx, q, id, email, name)
	return err
}

func upsertAddress(ctx context.Context, pool *pgxpool.Pool, id, userID, street, city, state, pincode string) error {
	const q = `
INSERT INTO addresses (id, user_id, street, city, state, pincode)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET street = EXCLUDED.street,
    city = EXCLUDED.city,
    state = EXCLUDED.state,
    pincode = EXCLUDED.pincode
`
	_, err := pool.Exec(ctx, q, id, userID, street, city, state, pincode)
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (id, vendor_name, name, description, price_cents, available_quantity)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET vendor_name = EXCLUDED.vendor_name,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    available_quantity = EXCLUDED.available_quantity
`
	_, err := pool.Exec(ctx, q, p.ID, p.Vendor, p.Name, p.Desc, p.PriceCents, p.Stock)
	return err
}

func upsertToken(ctx context.Context, pool *pgxpool.Pool, token, userID string) error {
	const q = `
INSERT INTO tokens (token, user_id, kind, expires_at)
VALUES ($1, $2, 'access', $3)
ON CONFLICT (token) DO UPDATE SET expires_at = EXCLUDED.expires_at
`
	_, err := pool.Exec(ctx, q, token, userID, time.Now().Add(30*24*time.Hour))
	return err
}
