package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raccoon_ledger/internal/auth"
	"raccoon_ledger/internal/config"
	"raccoon_ledger/internal/db"
	"raccoon_ledger/internal/domain"
	httpServer "raccoon_ledger/internal/http"
	"raccoon_ledger/internal/http/handlers"
	"raccoon_ledger/internal/http/middleware"
	"raccoon_ledger/internal/ledger"
	"raccoon_ledger/internal/logger"
	"raccoon_ledger/internal/payment"
	"raccoon_ledger/internal/referral"
	"raccoon_ledger/internal/store"
	"raccoon_ledger/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	middleware.InitJWT(cfg.JWTSecret)
	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	ctx := context.Background()
	dbPool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connect failed", "error", err)
	}
	defer dbPool.Close()

	authority := auth.NewAuthorityStore(cfg.RootAdminID)
	bootstrapRoles(authority, cfg)

	playerStore := store.NewPlayerStore(dbPool)
	referralStore := store.NewReferralStore(dbPool)
	registry := store.NewNameRegistry(dbPool)
	legacy := store.NewLegacyLedger(dbPool)

	players := ledger.NewPlayerLedger(authority, payment.FixedRate{PricePerLife: cfg.LifePriceCoins}, playerStore)
	referrals := referral.NewLedger(authority, players, registry, referralStore)

	playerRecords, err := playerStore.LoadAll(ctx)
	if err != nil {
		logger.Fatal("failed to load player records", "error", err)
	}
	players.Restore(playerRecords)

	referralRecords, err := referralStore.LoadAll(ctx)
	if err != nil {
		logger.Fatal("failed to load referral records", "error", err)
	}
	referrals.Restore(referralRecords)
	logger.Info("ledgers restored", "players", len(playerRecords), "referral_accounts", len(referralRecords))

	hub := ws.NewHub()
	players.OnStatsChange(func(change domain.StatsChange) {
		middleware.StatsChanges.Inc()
		logger.Debug("stats change",
			"player", change.Player,
			"coins_earned", change.CoinsEarned,
			"lives_lost", change.LivesLost,
			"rank_increase", change.RankIncrease,
			"premium_coins_earned", change.PremiumCoinsEarned,
		)
		hub.Broadcast("stats_change", change)
	})

	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandler(dbPool, players, referrals, authority, legacy)
	httpServer.RegisterRoutes(r, dbPool, h, hub, httpServer.RouteConfig{
		Version:       version,
		APIRateLimit:  cfg.APIRateLimit,
		APIRateWindow: time.Duration(cfg.APIRateWindow) * time.Second,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// bootstrapRoles grants the configured role memberships on behalf of root.
func bootstrapRoles(authority *auth.AuthorityStore, cfg *config.Config) {
	grant := func(ids []int64, role auth.Role) {
		for _, id := range ids {
			if err := authority.Grant(cfg.RootAdminID, id, role); err != nil {
				logger.Fatal("role bootstrap failed", "identity", id, "role", string(role), "error", err)
			}
		}
	}
	grant(cfg.AdminIDs, auth.RoleAdmin)
	grant(cfg.PlannerIDs, auth.RolePlanner)
	grant(cfg.UpgradeAdminIDs, auth.RoleUpgradeAdmin)
}
