package store

import (
	"context"

	"raccoon_ledger/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferralStore persists referral records, one row per identity. The two
// invitee sequences are stored as BIGINT arrays, order preserved.
type ReferralStore struct {
	db *pgxpool.Pool
}

func NewReferralStore(db *pgxpool.Pool) *ReferralStore {
	return &ReferralStore{db: db}
}

// LoadAll reads every persisted referral record, keyed by identity.
func (s *ReferralStore) LoadAll(ctx context.Context) (map[int64]domain.ReferralRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT player_id, ref_coins, coins, referred_by, total_invitees,
		        all_my_invitees, unclaimed_invitees
		 FROM referral_accounts`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[int64]domain.ReferralRecord)
	for rows.Next() {
		var (
			id, refCoins, coins, referredBy, totalInvitees int64
			invitees                                       []int64
			unclaimed                                      []int64
		)
		if err := rows.Scan(&id, &refCoins, &coins, &referredBy, &totalInvitees, &invitees, &unclaimed); err != nil {
			return nil, err
		}
		queue := make([]uint64, len(unclaimed))
		for i, v := range unclaimed {
			queue[i] = uint64(v)
		}
		records[id] = domain.ReferralRecord{
			RefCoins:          uint64(refCoins),
			Coins:             uint64(coins),
			ReferredBy:        referredBy,
			TotalInvitees:     uint64(totalInvitees),
			AllMyInvitees:     invitees,
			UnclaimedInvitees: queue,
		}
	}
	return records, rows.Err()
}

// SaveAccount upserts a referral record.
func (s *ReferralStore) SaveAccount(ctx context.Context, player int64, rec domain.ReferralRecord) error {
	unclaimed := make([]int64, len(rec.UnclaimedInvitees))
	for i, v := range rec.UnclaimedInvitees {
		unclaimed[i] = int64(v)
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO referral_accounts
		   (player_id, ref_coins, coins, referred_by, total_invitees, all_my_invitees, unclaimed_invitees)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (player_id) DO UPDATE SET
		   ref_coins = EXCLUDED.ref_coins,
		   coins = EXCLUDED.coins,
		   referred_by = EXCLUDED.referred_by,
		   total_invitees = EXCLUDED.total_invitees,
		   all_my_invitees = EXCLUDED.all_my_invitees,
		   unclaimed_invitees = EXCLUDED.unclaimed_invitees`,
		player, int64(rec.RefCoins), int64(rec.Coins), rec.ReferredBy,
		int64(rec.TotalInvitees), rec.AllMyInvitees, unclaimed,
	)
	return err
}
