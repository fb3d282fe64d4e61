package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KeyValueRepository persists small string values in the kv_entries table.
// It satisfies kv.Store.
type KeyValueRepository struct {
	pool *pgxpool.Pool
}

// Get returns the value stored under key; ok is false when there is none.
func (r *KeyValueRepository) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM kv_entries WHERE key = $1`

	var value string
	err := r.pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get kv entry: %w", err)
	}
	return value, true, nil
}

// Set writes value under key, replacing any previous value.
func (r *KeyValueRepository) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO kv_entries (key, value)
        VALUES ($1,$2)
        ON CONFLICT (key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `

	if _, err := r.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert kv entry: %w", err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (r *KeyValueRepository) Remove(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete kv entry: %w", err)
	}
	return nil
}
