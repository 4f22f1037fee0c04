// Package ledger owns per-player progression records: coins, lives, rank
// and premium coins. Every mutating operation is gated by the authority
// store and applies atomically under a single ledger mutex.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"raccoon_ledger/internal/auth"
	"raccoon_ledger/internal/domain"
	"raccoon_ledger/internal/gameday"
	"raccoon_ledger/internal/logger"
)

const (
	// InitLives is granted on initialization.
	InitLives = 10
	// DailyClaimLives is granted by each successful daily claim.
	DailyClaimLives = 5
)

var (
	ErrAlreadyInitialized   = errors.New("player already initialized")
	ErrNotInitialized       = errors.New("player not initialized")
	ErrInsufficientResource = errors.New("insufficient lives")
	ErrInsufficientBalance  = errors.New("insufficient coins")
	ErrPaymentFailed        = errors.New("payment failed")
	ErrAlreadyClaimedToday  = errors.New("daily life already claimed today")
	ErrInvalidAmount        = errors.New("invalid amount")
)

// PaymentProvider is the monetary on-ramp collaborator. State is updated
// only after a successful returned confirmation.
type PaymentProvider interface {
	Purchase(ctx context.Context, amount uint64, paymentValue uint64) (bool, error)
}

// StatSource is a predecessor ledger's read-only stat query, used by the
// second-phase migration feed.
type StatSource interface {
	Stats(ctx context.Context, player int64) (domain.PlayerStats, error)
}

// Store persists player records. Saves happen after the in-memory update;
// a save failure is logged and does not roll the operation back. The
// in-memory state stays authoritative.
type Store interface {
	SavePlayer(ctx context.Context, player int64, rec domain.PlayerRecord) error
}

// PlayerLedger is the in-memory record store for game-progression stats.
type PlayerLedger struct {
	mu        sync.Mutex
	players   map[int64]*domain.PlayerRecord
	authority *auth.AuthorityStore
	payments  PaymentProvider
	store     Store
	onChange  func(domain.StatsChange)
	now       func() time.Time
}

// NewPlayerLedger creates an empty ledger. payments and store may be nil:
// a nil payments provider rejects every purchase, a nil store skips
// persistence.
func NewPlayerLedger(authority *auth.AuthorityStore, payments PaymentProvider, store Store) *PlayerLedger {
	return &PlayerLedger{
		players:   make(map[int64]*domain.PlayerRecord),
		authority: authority,
		payments:  payments,
		store:     store,
		now:       time.Now,
	}
}

// OnStatsChange registers the change-notification sink. Must be called
// before the ledger starts serving.
func (l *PlayerLedger) OnStatsChange(fn func(domain.StatsChange)) {
	l.onChange = fn
}

// Restore seeds the ledger from persisted records. Called once at boot.
func (l *PlayerLedger) Restore(records map[int64]domain.PlayerRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, rec := range records {
		r := rec
		l.players[id] = &r
	}
}

// Initialize creates a fresh record for player: zero coins and rank,
// InitLives lives. Single-shot: a second call fails.
func (l *PlayerLedger) Initialize(ctx context.Context, caller, player int64) error {
	if err := l.authority.Require(caller, auth.RoleAdmin); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.initLocked(player); err != nil {
		return err
	}
	l.save(ctx, player)
	return nil
}

// BatchInitialize applies Initialize per entry, all-or-nothing: one
// already-initialized entry fails the whole batch, naming the offender.
func (l *PlayerLedger) BatchInitialize(ctx context.Context, caller int64, players []int64) error {
	if err := l.authority.Require(caller, auth.RoleAdmin); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[int64]struct{}, len(players))
	for _, p := range players {
		if rec, ok := l.players[p]; ok && rec.Initialized {
			return fmt.Errorf("%w: player %d", ErrAlreadyInitialized, p)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: player %d", ErrAlreadyInitialized, p)
		}
		seen[p] = struct{}{}
	}
	for _, p := range players {
		_ = l.initLocked(p)
		l.save(ctx, p)
	}
	return nil
}

func (l *PlayerLedger) initLocked(player int64) error {
	if rec, ok := l.players[player]; ok && rec.Initialized {
		return ErrAlreadyInitialized
	}
	l.players[player] = &domain.PlayerRecord{
		Lives:        InitLives,
		Initialized:  true,
		LastClaimDay: -1,
	}
	return nil
}

// UpdateStats applies a play session's deltas as one atomic update and
// emits a change notification carrying them.
func (l *PlayerLedger) UpdateStats(ctx context.Context, caller, player int64, coinsEarned, livesLost, rankIncrease, premiumCoinsEarned uint64) error {
	if err := l.authority.Require(caller, auth.RoleAdmin, auth.RolePlanner); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.initialized(player)
	if err != nil {
		return err
	}
	if livesLost > rec.Lives {
		return ErrInsufficientResource
	}

	rec.Coins += coinsEarned
	rec.Lives -= livesLost
	rec.Rank += rankIncrease
	rec.PremiumCoins += premiumCoinsEarned
	l.save(ctx, player)

	if l.onChange != nil {
		l.onChange(domain.StatsChange{
			Player:             player,
			CoinsEarned:        coinsEarned,
			LivesLost:          livesLost,
			RankIncrease:       rankIncrease,
			PremiumCoinsEarned: premiumCoinsEarned,
		})
	}
	return nil
}

// PurchaseLives credits amount lives after the payment collaborator
// confirms paymentValue. No state changes on payment failure.
func (l *PlayerLedger) PurchaseLives(ctx context.Context, caller, player int64, amount, paymentValue uint64) error {
	if err := l.authority.Require(caller, auth.RoleAdmin, auth.RolePlanner); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.initialized(player)
	if err != nil {
		return err
	}

	if l.payments == nil {
		return ErrPaymentFailed
	}
	ok, err := l.payments.Purchase(ctx, amount, paymentValue)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	if !ok {
		return ErrPaymentFailed
	}

	rec.Lives += amount
	l.save(ctx, player)
	return nil
}

// ClaimDailyLife grants DailyClaimLives once per game day per player.
func (l *PlayerLedger) ClaimDailyLife(ctx context.Context, caller, player int64) error {
	if err := l.authority.Require(caller, auth.RoleAdmin, auth.RolePlanner); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.initialized(player)
	if err != nil {
		return err
	}

	day := gameday.Current(l.now())
	if day <= rec.LastClaimDay {
		return ErrAlreadyClaimedToday
	}

	rec.LastClaimDay = day
	rec.Lives += DailyClaimLives
	l.save(ctx, player)
	return nil
}

// DebitCoins removes coins from a player. Restricted to the privileged
// reward-redemption role.
func (l *PlayerLedger) DebitCoins(ctx context.Context, caller, player int64, amount uint64) error {
	if err := l.authority.Require(caller, auth.RoleUpgradeAdmin); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, err := l.initialized(player)
	if err != nil {
		return err
	}
	if amount > rec.Coins {
		return ErrInsufficientBalance
	}

	rec.Coins -= amount
	l.save(ctx, player)
	return nil
}

// MigrateStats overwrites each player's numeric stats with the values read
// from a predecessor ledger, field by field. Every target record must
// already be initialized locally; the batch is all-or-nothing.
func (l *PlayerLedger) MigrateStats(ctx context.Context, caller int64, source StatSource, players []int64) error {
	if err := l.authority.Require(caller, auth.RoleAdmin); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stats := make([]domain.PlayerStats, 0, len(players))
	for _, p := range players {
		if rec, ok := l.players[p]; !ok || !rec.Initialized {
			return fmt.Errorf("%w: player %d", ErrNotInitialized, p)
		}
		st, err := source.Stats(ctx, p)
		if err != nil {
			return fmt.Errorf("read predecessor stats for player %d: %w", p, err)
		}
		stats = append(stats, st)
	}

	for i, p := range players {
		rec := l.players[p]
		rec.Coins = stats[i].Coins
		rec.Lives = stats[i].Lives
		rec.Rank = stats[i].Rank
		rec.PremiumCoins = stats[i].PremiumCoins
		l.save(ctx, p)
	}
	return nil
}

// Stats returns a read-only snapshot of a player's stats.
func (l *PlayerLedger) Stats(player int64) (domain.PlayerStats, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.players[player]
	if !ok || !rec.Initialized {
		return domain.PlayerStats{}, false
	}
	return domain.PlayerStats{
		Coins:        rec.Coins,
		Lives:        rec.Lives,
		Rank:         rec.Rank,
		PremiumCoins: rec.PremiumCoins,
	}, true
}

// Record returns a copy of the full player record.
func (l *PlayerLedger) Record(player int64) (domain.PlayerRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.players[player]
	if !ok {
		return domain.PlayerRecord{}, false
	}
	return *rec, true
}

// Initialized reports whether the player has been initialized. Used by the
// referral ledger to gate redemption.
func (l *PlayerLedger) Initialized(player int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.players[player]
	return ok && rec.Initialized
}

// Coins reports the player's current coin balance (0 if unknown).
func (l *PlayerLedger) Coins(player int64) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.players[player]
	if !ok {
		return 0
	}
	return rec.Coins
}

func (l *PlayerLedger) initialized(player int64) (*domain.PlayerRecord, error) {
	rec, ok := l.players[player]
	if !ok || !rec.Initialized {
		return nil, ErrNotInitialized
	}
	return rec, nil
}

// save persists the record under the held lock. Persistence is
// write-through best-effort; failures are logged.
func (l *PlayerLedger) save(ctx context.Context, player int64) {
	if l.store == nil {
		return
	}
	if err := l.store.SavePlayer(ctx, player, *l.players[player]); err != nil {
		logger.Error("failed to persist player record", "player", player, "error", err)
	}
}
