// Package referral owns per-player referral records: who referred whom,
// the accrued reward balances and the queue of unclaimed invitee tokens
// drained by batch-claim.
package referral

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"raccoon_ledger/internal/auth"
	"raccoon_ledger/internal/domain"
	"raccoon_ledger/internal/ledger"
	"raccoon_ledger/internal/logger"
	"raccoon_ledger/internal/refcode"
)

// RewardPerReferral is credited per successful referral, both to the
// accrual counter and per claimed queue entry.
const RewardPerReferral = 3000

var (
	ErrInvalidCode           = errors.New("referral code does not resolve to a registered name")
	ErrSelfReferralForbidden = errors.New("self-referral forbidden")
	ErrAlreadyReferred       = errors.New("player already referred")
	ErrInsufficientBalance   = errors.New("insufficient coin balance for claim")
	ErrIndexOutOfRange       = errors.New("claim index out of range")
)

// NameRegistry is the external name-registry collaborator. IsNameAvailable
// returns true when the name is registered (the boundary's naming is
// inverted; kept as-is). OwnerOf returns 0 for an unregistered token id.
type NameRegistry interface {
	IsNameAvailable(ctx context.Context, name string) (bool, error)
	OwnerOf(ctx context.Context, numericID uint64) (int64, error)
}

// PlayerReader is the read-only view of the player ledger the referral
// ledger consults. Both methods observe a consistent snapshot.
type PlayerReader interface {
	Initialized(player int64) bool
	Coins(player int64) uint64
}

// Store persists referral records, same write-through contract as the
// player ledger's store.
type Store interface {
	SaveAccount(ctx context.Context, player int64, rec domain.ReferralRecord) error
}

// Ledger is the in-memory record store for referral bookkeeping.
type Ledger struct {
	mu        sync.Mutex
	accounts  map[int64]*domain.ReferralRecord
	registry  NameRegistry
	players   PlayerReader
	authority *auth.AuthorityStore
	store     Store
}

func NewLedger(authority *auth.AuthorityStore, players PlayerReader, registry NameRegistry, store Store) *Ledger {
	return &Ledger{
		accounts:  make(map[int64]*domain.ReferralRecord),
		registry:  registry,
		players:   players,
		authority: authority,
		store:     store,
	}
}

// Restore seeds the ledger from persisted records. Called once at boot.
func (l *Ledger) Restore(records map[int64]domain.ReferralRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, rec := range records {
		r := rec.Clone()
		l.accounts[id] = &r
	}
}

// RedeemCode records that newPlayer joined through someone else's referral
// code. Must happen strictly before the player is initialized in the
// player ledger. Credits the referrer's accrual counter and pushes a claim
// token onto their unclaimed queue.
func (l *Ledger) RedeemCode(ctx context.Context, caller int64, code string, newPlayer int64) error {
	if err := l.authority.Require(caller, auth.RoleAdmin, auth.RolePlanner); err != nil {
		return err
	}

	numericID, name, err := refcode.Parse(code)
	if err != nil {
		return err
	}

	registered, err := l.registry.IsNameAvailable(ctx, name)
	if err != nil {
		return fmt.Errorf("name registry lookup: %w", err)
	}
	if !registered {
		return ErrInvalidCode
	}
	referrer, err := l.registry.OwnerOf(ctx, numericID)
	if err != nil {
		return fmt.Errorf("name registry owner lookup: %w", err)
	}
	if referrer == 0 {
		return ErrInvalidCode
	}
	if referrer == newPlayer {
		return ErrSelfReferralForbidden
	}
	if l.players.Initialized(newPlayer) {
		return ledger.ErrAlreadyInitialized
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	invitee := l.account(newPlayer)
	if invitee.ReferredBy != 0 {
		return ErrAlreadyReferred
	}
	invitee.ReferredBy = referrer

	ref := l.account(referrer)
	ref.TotalInvitees++
	ref.AllMyInvitees = append(ref.AllMyInvitees, newPlayer)
	// token value is the running queue count; only ever used positionally
	ref.UnclaimedInvitees = append(ref.UnclaimedInvitees, uint64(len(ref.UnclaimedInvitees)))
	ref.RefCoins += RewardPerReferral

	l.save(ctx, newPlayer)
	l.save(ctx, referrer)
	return nil
}

// ClaimRewardsBatch drains the entries of the referrer's unclaimed queue at
// the given positions, crediting RewardPerReferral per entry to the
// referral coin balance.
//
// indices are positions into the queue as it stood at call time, not stable
// identifiers, and must be supplied strictly ascending and without repeats:
// each one is decremented by the number of removals already performed in
// this call to compensate for the shrinking queue. Unsorted or duplicate
// input removes the wrong entries or fails with ErrIndexOutOfRange.
func (l *Ledger) ClaimRewardsBatch(ctx context.Context, caller, referrer int64, indices []uint64) error {
	if err := l.authority.Require(caller, auth.RoleAdmin, auth.RolePlanner); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.players.Coins(referrer) < RewardPerReferral*uint64(len(indices)) {
		return ErrInsufficientBalance
	}

	rec := l.account(referrer)
	queue := append([]uint64(nil), rec.UnclaimedInvitees...)

	var removed uint64
	for _, idx := range indices {
		pos := idx - removed
		if pos >= uint64(len(queue)) {
			return ErrIndexOutOfRange
		}
		queue = append(queue[:pos], queue[pos+1:]...)
		removed++
	}

	rec.UnclaimedInvitees = queue
	rec.Coins += RewardPerReferral * removed
	l.save(ctx, referrer)
	return nil
}

// UserData is the read-only projection of a player's referral record.
func (l *Ledger) UserData(player int64) domain.ReferralRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.accounts[player]
	if !ok {
		return domain.ReferralRecord{}
	}
	return rec.Clone()
}

// CanClaim reports whether the player's coin balance in the player ledger
// covers a claim of inviteeCount entries.
func (l *Ledger) CanClaim(player int64, inviteeCount uint64) bool {
	return l.players.Coins(player) >= RewardPerReferral*inviteeCount
}

func (l *Ledger) account(player int64) *domain.ReferralRecord {
	rec, ok := l.accounts[player]
	if !ok {
		rec = &domain.ReferralRecord{}
		l.accounts[player] = rec
	}
	return rec
}

func (l *Ledger) save(ctx context.Context, player int64) {
	if l.store == nil {
		return
	}
	if err := l.store.SaveAccount(ctx, player, l.accounts[player].Clone()); err != nil {
		logger.Error("failed to persist referral record", "player", player, "error", err)
	}
}
