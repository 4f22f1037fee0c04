// Package store persists the two ledger record maps in Postgres and hosts
// the read-only adapters (predecessor ledger, name-registry mirror) the
// ledgers consume at their interface boundaries.
package store

import (
	"context"

	"raccoon_ledger/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PlayerStore persists player records, one row per identity.
type PlayerStore struct {
	db *pgxpool.Pool
}

func NewPlayerStore(db *pgxpool.Pool) *PlayerStore {
	return &PlayerStore{db: db}
}

// LoadAll reads every persisted player record, keyed by identity.
func (s *PlayerStore) LoadAll(ctx context.Context) (map[int64]domain.PlayerRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT player_id, coins, lives, rank, premium_coins, initialized, last_claim_day
		 FROM players`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[int64]domain.PlayerRecord)
	for rows.Next() {
		var (
			id, coins, lives, rank, premium, lastClaimDay int64
			initialized                                   bool
		)
		if err := rows.Scan(&id, &coins, &lives, &rank, &premium, &initialized, &lastClaimDay); err != nil {
			return nil, err
		}
		records[id] = domain.PlayerRecord{
			Coins:        uint64(coins),
			Lives:        uint64(lives),
			Rank:         uint64(rank),
			PremiumCoins: uint64(premium),
			Initialized:  initialized,
			LastClaimDay: lastClaimDay,
		}
	}
	return records, rows.Err()
}

// SavePlayer upserts a player record.
func (s *PlayerStore) SavePlayer(ctx context.Context, player int64, rec domain.PlayerRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO players (player_id, coins, lives, rank, premium_coins, initialized, last_claim_day)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (player_id) DO UPDATE SET
		   coins = EXCLUDED.coins,
		   lives = EXCLUDED.lives,
		   rank = EXCLUDED.rank,
		   premium_coins = EXCLUDED.premium_coins,
		   initialized = EXCLUDED.initialized,
		   last_claim_day = EXCLUDED.last_claim_day`,
		player, int64(rec.Coins), int64(rec.Lives), int64(rec.Rank),
		int64(rec.PremiumCoins), rec.Initialized, rec.LastClaimDay,
	)
	return err
}
