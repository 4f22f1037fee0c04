package store

import (
	"context"
	"errors"
	"fmt"

	"raccoon_ledger/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LegacyLedger reads the predecessor ledger's snapshot table. It is the
// StatSource fed to the second-phase migration.
type LegacyLedger struct {
	db *pgxpool.Pool
}

func NewLegacyLedger(db *pgxpool.Pool) *LegacyLedger {
	return &LegacyLedger{db: db}
}

// Stats returns the predecessor's stats for one player.
func (l *LegacyLedger) Stats(ctx context.Context, player int64) (domain.PlayerStats, error) {
	var coins, lives, rank, premium int64
	err := l.db.QueryRow(ctx,
		`SELECT coins, lives, rank, premium_coins FROM legacy_players WHERE player_id = $1`,
		player,
	).Scan(&coins, &lives, &rank, &premium)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PlayerStats{}, fmt.Errorf("player %d not found in legacy ledger", player)
		}
		return domain.PlayerStats{}, err
	}
	return domain.PlayerStats{
		Coins:        uint64(coins),
		Lives:        uint64(lives),
		Rank:         uint64(rank),
		PremiumCoins: uint64(premium),
	}, nil
}

// Players lists every identity present in the legacy snapshot, for
// driving a full migration.
func (l *LegacyLedger) Players(ctx context.Context) ([]int64, error) {
	rows, err := l.db.Query(ctx, `SELECT player_id FROM legacy_players ORDER BY player_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		players = append(players, id)
	}
	return players, rows.Err()
}
