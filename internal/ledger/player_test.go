package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"raccoon_ledger/internal/auth"
	"raccoon_ledger/internal/domain"
)

const (
	rootID    = int64(1)
	adminID   = int64(10)
	plannerID = int64(11)
	upgradeID = int64(12)
	nobodyID  = int64(99)
)

func newAuthority(t *testing.T) *auth.AuthorityStore {
	t.Helper()
	s := auth.NewAuthorityStore(rootID)
	if err := s.Grant(rootID, adminID, auth.RoleAdmin); err != nil {
		t.Fatalf("grant admin: %v", err)
	}
	if err := s.Grant(rootID, plannerID, auth.RolePlanner); err != nil {
		t.Fatalf("grant planner: %v", err)
	}
	if err := s.Grant(rootID, upgradeID, auth.RoleUpgradeAdmin); err != nil {
		t.Fatalf("grant upgrade admin: %v", err)
	}
	return s
}

type stubPayments struct {
	ok  bool
	err error
}

func (p stubPayments) Purchase(ctx context.Context, amount, paymentValue uint64) (bool, error) {
	return p.ok, p.err
}

func newLedger(t *testing.T) *PlayerLedger {
	t.Helper()
	return NewPlayerLedger(newAuthority(t), stubPayments{ok: true}, nil)
}

func TestInitialize(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	if err := l.Initialize(ctx, adminID, 100); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	rec, ok := l.Record(100)
	if !ok {
		t.Fatalf("record missing after initialize")
	}
	want := domain.PlayerRecord{Lives: InitLives, Initialized: true, LastClaimDay: -1}
	if rec != want {
		t.Fatalf("record = %+v; want %+v", rec, want)
	}

	// second call always fails and leaves the record unchanged
	if err := l.Initialize(ctx, adminID, 100); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second initialize err = %v; want ErrAlreadyInitialized", err)
	}
	if rec, _ := l.Record(100); rec != want {
		t.Fatalf("record changed by rejected initialize: %+v", rec)
	}
}

func TestInitializeUnauthorized(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	for _, caller := range []int64{plannerID, upgradeID, nobodyID} {
		if err := l.Initialize(ctx, caller, 100); !errors.Is(err, auth.ErrUnauthorized) {
			t.Fatalf("caller %d err = %v; want ErrUnauthorized", caller, err)
		}
	}
	if _, ok := l.Record(100); ok {
		t.Fatalf("unauthorized initialize must not create a record")
	}
}

func TestBatchInitializeAllOrNothing(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	if err := l.Initialize(ctx, adminID, 3); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := l.BatchInitialize(ctx, adminID, []int64{2, 3, 4})
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("batch err = %v; want ErrAlreadyInitialized", err)
	}
	// nothing from the failed batch must be visible
	for _, p := range []int64{2, 4} {
		if l.Initialized(p) {
			t.Fatalf("player %d initialized by failed batch", p)
		}
	}

	if err := l.BatchInitialize(ctx, adminID, []int64{2, 4}); err != nil {
		t.Fatalf("clean batch: %v", err)
	}
	for _, p := range []int64{2, 4} {
		if !l.Initialized(p) {
			t.Fatalf("player %d not initialized", p)
		}
	}
}

func TestBatchInitializeRejectsDuplicateEntries(t *testing.T) {
	l := newLedger(t)
	err := l.BatchInitialize(context.Background(), adminID, []int64{5, 5})
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("duplicate batch err = %v; want ErrAlreadyInitialized", err)
	}
	if l.Initialized(5) {
		t.Fatalf("duplicate batch must not apply")
	}
}

func TestUpdateStats(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	var got domain.StatsChange
	var notified int
	l.OnStatsChange(func(c domain.StatsChange) {
		got = c
		notified++
	})

	if err := l.Initialize(ctx, adminID, 100); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := l.UpdateStats(ctx, plannerID, 100, 250, 2, 7, 1); err != nil {
		t.Fatalf("update stats: %v", err)
	}

	st, _ := l.Stats(100)
	want := domain.PlayerStats{Coins: 250, Lives: InitLives - 2, Rank: 7, PremiumCoins: 1}
	if st != want {
		t.Fatalf("stats = %+v; want %+v", st, want)
	}
	if notified != 1 {
		t.Fatalf("notified %d times; want 1", notified)
	}
	wantChange := domain.StatsChange{Player: 100, CoinsEarned: 250, LivesLost: 2, RankIncrease: 7, PremiumCoinsEarned: 1}
	if got != wantChange {
		t.Fatalf("change = %+v; want %+v", got, wantChange)
	}
}

func TestUpdateStatsInsufficientLives(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	if err := l.Initialize(ctx, adminID, 100); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	err := l.UpdateStats(ctx, plannerID, 100, 500, InitLives+1, 1, 0)
	if !errors.Is(err, ErrInsufficientResource) {
		t.Fatalf("err = %v; want ErrInsufficientResource", err)
	}

	// the whole update must have been rejected, coins included
	st, _ := l.Stats(100)
	if st != (domain.PlayerStats{Lives: InitLives}) {
		t.Fatalf("state changed by failed update: %+v", st)
	}
}

func TestUpdateStatsRequiresInitialized(t *testing.T) {
	l := newLedger(t)
	err := l.UpdateStats(context.Background(), plannerID, 100, 1, 0, 0, 0)
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("err = %v; want ErrNotInitialized", err)
	}
}

func TestPurchaseLives(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		l := NewPlayerLedger(newAuthority(t), stubPayments{ok: true}, nil)
		if err := l.Initialize(ctx, adminID, 100); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		if err := l.PurchaseLives(ctx, plannerID, 100, 3, 300); err != nil {
			t.Fatalf("purchase: %v", err)
		}
		if st, _ := l.Stats(100); st.Lives != InitLives+3 {
			t.Fatalf("lives = %d; want %d", st.Lives, InitLives+3)
		}
	})

	t.Run("payment rejected", func(t *testing.T) {
		l := NewPlayerLedger(newAuthority(t), stubPayments{ok: false}, nil)
		if err := l.Initialize(ctx, adminID, 100); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		if err := l.PurchaseLives(ctx, plannerID, 100, 3, 1); !errors.Is(err, ErrPaymentFailed) {
			t.Fatalf("err = %v; want ErrPaymentFailed", err)
		}
		if st, _ := l.Stats(100); st.Lives != InitLives {
			t.Fatalf("lives changed by failed purchase: %d", st.Lives)
		}
	})

	t.Run("provider error", func(t *testing.T) {
		l := NewPlayerLedger(newAuthority(t), stubPayments{err: errors.New("gateway down")}, nil)
		if err := l.Initialize(ctx, adminID, 100); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		if err := l.PurchaseLives(ctx, plannerID, 100, 3, 300); !errors.Is(err, ErrPaymentFailed) {
			t.Fatalf("err = %v; want ErrPaymentFailed", err)
		}
	})

	t.Run("zero amount", func(t *testing.T) {
		l := NewPlayerLedger(newAuthority(t), stubPayments{ok: true}, nil)
		if err := l.Initialize(ctx, adminID, 100); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		if err := l.PurchaseLives(ctx, plannerID, 100, 0, 0); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("err = %v; want ErrInvalidAmount", err)
		}
	})
}

func TestClaimDailyLife(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	if err := l.Initialize(ctx, adminID, 100); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// 14:00 UTC on an arbitrary day
	now := time.Date(2026, 5, 20, 14, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if err := l.ClaimDailyLife(ctx, plannerID, 100); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if st, _ := l.Stats(100); st.Lives != InitLives+DailyClaimLives {
		t.Fatalf("lives = %d; want %d", st.Lives, InitLives+DailyClaimLives)
	}

	// same day, later hour
	now = now.Add(4 * time.Hour)
	if err := l.ClaimDailyLife(ctx, plannerID, 100); !errors.Is(err, ErrAlreadyClaimedToday) {
		t.Fatalf("same-day claim err = %v; want ErrAlreadyClaimedToday", err)
	}

	// 00:30 next calendar day is still the same game day
	now = time.Date(2026, 5, 21, 0, 30, 0, 0, time.UTC)
	if err := l.ClaimDailyLife(ctx, plannerID, 100); !errors.Is(err, ErrAlreadyClaimedToday) {
		t.Fatalf("pre-rollover claim err = %v; want ErrAlreadyClaimedToday", err)
	}

	// 01:00 next day crosses the rollover
	now = time.Date(2026, 5, 21, 1, 0, 0, 0, time.UTC)
	if err := l.ClaimDailyLife(ctx, plannerID, 100); err != nil {
		t.Fatalf("next-day claim: %v", err)
	}
	if st, _ := l.Stats(100); st.Lives != InitLives+2*DailyClaimLives {
		t.Fatalf("lives = %d; want %d", st.Lives, InitLives+2*DailyClaimLives)
	}
}

func TestDebitCoins(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	if err := l.Initialize(ctx, adminID, 100); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := l.UpdateStats(ctx, plannerID, 100, 500, 0, 0, 0); err != nil {
		t.Fatalf("fund: %v", err)
	}

	if err := l.DebitCoins(ctx, plannerID, 100, 100); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("planner debit err = %v; want ErrUnauthorized", err)
	}
	if err := l.DebitCoins(ctx, upgradeID, 100, 200); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if st, _ := l.Stats(100); st.Coins != 300 {
		t.Fatalf("coins = %d; want 300", st.Coins)
	}

	if err := l.DebitCoins(ctx, upgradeID, 100, 301); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("overdraft err = %v; want ErrInsufficientBalance", err)
	}
	if st, _ := l.Stats(100); st.Coins != 300 {
		t.Fatalf("coins changed by failed debit: %d", st.Coins)
	}
}

type stubStatSource struct {
	stats map[int64]domain.PlayerStats
	err   error
}

func (s stubStatSource) Stats(ctx context.Context, player int64) (domain.PlayerStats, error) {
	if s.err != nil {
		return domain.PlayerStats{}, s.err
	}
	return s.stats[player], nil
}

func TestMigrateStats(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	if err := l.BatchInitialize(ctx, adminID, []int64{7, 8}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	source := stubStatSource{stats: map[int64]domain.PlayerStats{
		7: {Coins: 1000, Lives: 4, Rank: 12, PremiumCoins: 2},
		8: {Coins: 50, Lives: 9, Rank: 1, PremiumCoins: 0},
	}}
	if err := l.MigrateStats(ctx, adminID, source, []int64{7, 8}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for p, want := range source.stats {
		if st, _ := l.Stats(p); st != want {
			t.Fatalf("player %d stats = %+v; want %+v", p, st, want)
		}
	}
}

func TestMigrateStatsRequiresLocalRecord(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	if err := l.Initialize(ctx, adminID, 7); err != nil {
		t.Fatalf("seed: %v", err)
	}
	source := stubStatSource{stats: map[int64]domain.PlayerStats{7: {Coins: 1}}}

	err := l.MigrateStats(ctx, adminID, source, []int64{7, 8})
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("err = %v; want ErrNotInitialized", err)
	}
	// all-or-nothing: player 7 untouched
	if st, _ := l.Stats(7); st.Coins != 0 {
		t.Fatalf("failed migration mutated player 7: %+v", st)
	}
}
