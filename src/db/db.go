package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return pool, nil
}

// EnsureSchema creates the tables the server needs if they do not exist yet.
// Category limits live in their own table keyed by budget so the aggregate
// and its allocations can be replaced or deleted in one transaction.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash BYTEA NOT NULL,
			role TEXT NOT NULL DEFAULT 'USER',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS budgets (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			total_income DOUBLE PRECISION NOT NULL,
			total_limit DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS budget_category_limits (
			budget_id BIGINT NOT NULL REFERENCES budgets(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			category_limit DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (budget_id, category)
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			category TEXT NOT NULL DEFAULT 'NA',
			date DATE NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
