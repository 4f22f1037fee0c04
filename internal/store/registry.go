package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NameRegistry reads the local mirror of the external name registry,
// maintained out-of-band. IsNameAvailable keeps the registry boundary's
// inverted naming: true means the name is registered.
type NameRegistry struct {
	db *pgxpool.Pool
}

func NewNameRegistry(db *pgxpool.Pool) *NameRegistry {
	return &NameRegistry{db: db}
}

func (r *NameRegistry) IsNameAvailable(ctx context.Context, name string) (bool, error) {
	var registered bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM registry_names WHERE name = $1)`,
		name,
	).Scan(&registered)
	return registered, err
}

// OwnerOf resolves a token id to its owner identity. Returns 0 for an
// unregistered token.
func (r *NameRegistry) OwnerOf(ctx context.Context, numericID uint64) (int64, error) {
	var owner int64
	err := r.db.QueryRow(ctx,
		`SELECT owner_id FROM registry_names WHERE token_id = $1`,
		int64(numericID),
	).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return owner, nil
}
