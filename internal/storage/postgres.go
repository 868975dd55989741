package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps entries in the kv_entries table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `SELECT value FROM kv_entries WHERE key = $1`
	var value string
	if err := p.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: kv get: %v", ErrUnavailable, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO kv_entries (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	if _, err := p.pool.Exec(ctx, q, key, value); err != nil {
		return fmt.Errorf("%w: kv set: %v", ErrUnavailable, err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("%w: kv delete: %v", ErrUnavailable, err)
	}
	return nil
}
