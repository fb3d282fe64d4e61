package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/reelscout/internal/store"
)

// Repository aggregates all postgres-backed repositories.
type Repository struct {
	KeyValues *KeyValueRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		KeyValues: &KeyValueRepository{pool: pool},
	}
}
