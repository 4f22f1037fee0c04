package http

import (
	"time"

	"raccoon_ledger/internal/http/handlers"
	"raccoon_ledger/internal/http/middleware"
	"raccoon_ledger/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RouteConfig carries what the router needs beyond the handler itself.
type RouteConfig struct {
	Version       string
	APIRateLimit  int
	APIRateWindow time.Duration
}

// RegisterRoutes wires the ledger operations, health checks and the
// notification stream onto the engine.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, h *handlers.Handler, hub *ws.Hub, cfg RouteConfig) {
	healthHandler := handlers.NewHealthHandler(db, cfg.Version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	v1.Use(middleware.JWT())

	// Player ledger
	players := v1.Group("/players")
	{
		players.POST("/batch-init", h.BatchInitPlayers)
		players.POST("/migrate", h.MigratePlayers)
		players.POST("/:id/init", h.InitPlayer)
		players.POST("/:id/stats", h.UpdateStats)
		players.POST("/:id/lives/purchase", h.PurchaseLives)
		players.POST("/:id/lives/daily", h.ClaimDailyLife)
		players.POST("/:id/coins/debit", h.DebitCoins)
		players.GET("/:id", h.GetPlayer)
	}

	// Referral ledger
	referral := v1.Group("/referral")
	{
		referral.POST("/redeem", h.RedeemCode)
		referral.POST("/:id/claim", h.ClaimRewards)
		referral.GET("/:id", h.GetReferralData)
		referral.GET("/:id/can-claim", h.CanClaim)
	}

	// Change-notification stream
	r.GET("/ws", ws.Serve(hub))
}
