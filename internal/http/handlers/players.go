package handlers

import (
	"net/http"
	"strconv"

	"raccoon_ledger/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func playerParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return 0, false
	}
	return id, true
}

// InitPlayer creates a fresh player record.
func (h *Handler) InitPlayer(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller not found"})
		return
	}
	player, ok := playerParam(c)
	if !ok {
		return
	}

	err := h.Players.Initialize(c.Request.Context(), caller, player)
	middleware.RecordOp("initialize", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// BatchInitPlayers seeds a set of player records, all-or-nothing.
func (h *Handler) BatchInitPlayers(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller not found"})
		return
	}

	var req struct {
		Players []int64 `json:"players" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	err := h.Players.BatchInitialize(c.Request.Context(), caller, req.Players)
	middleware.RecordOp("batch_initialize", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(req.Players)})
}

// MigratePlayers copies stats from the predecessor ledger for the given
// identities (second-phase migration).
func (h *Handler) MigratePlayers(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller not found"})
		return
	}
	if h.Legacy == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no legacy ledger configured"})
		return
	}

	var req struct {
		Players []int64 `json:"players" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	err := h.Players.MigrateStats(c.Request.Context(), caller, h.Legacy, req.Players)
	middleware.RecordOp("migrate_stats", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(req.Players)})
}

// UpdateStats applies a play session's deltas.
func (h *Handler) UpdateStats(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller not found"})
		return
	}
	player, ok := playerParam(c)
	if !ok {
		return
	}

	var req struct {
		CoinsEarned        uint64 `json:"coins_earned"`
		LivesLost          uint64 `json:"lives_lost"`
		RankIncrease       uint64 `json:"rank_increase"`
		PremiumCoinsEarned uint64 `json:"premium_coins_earned"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	err := h.Players.UpdateStats(c.Request.Context(), caller, player,
		req.CoinsEarned, req.LivesLost, req.RankIncrease, req.PremiumCoinsEarned)
	middleware.RecordOp("update_stats", err)
	if err != nil {
		fail(c, err)
		return
	}

	stats, _ := h.Players.Stats(player)
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats})
}

// PurchaseLives credits lives after payment confirmation.
func (h *Handler) PurchaseLives(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller not found"})
		return
	}
	player, ok := playerParam(c)
	if !ok {
		return
	}

	var req struct {
		Amount       uint64 `json:"amount"`
		PaymentValue uint64 `json:"payment_value"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	err := h.Players.PurchaseLives(c.Request.Context(), caller, player, req.Amount, req.PaymentValue)
	middleware.RecordOp("purchase_lives", err)
	if err != nil {
		fail(c, err)
		return
	}

	stats, _ := h.Players.Stats(player)
	c.JSON(http.StatusOK, gin.H{"ok": true, "lives": stats.Lives})
}

// ClaimDailyLife grants the daily life once per game day.
func (h *Handler) ClaimDailyLife(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller not found"})
		return
	}
	player, ok := playerParam(c)
	if !ok {
		return
	}

	err := h.Players.ClaimDailyLife(c.Request.Context(), caller, player)
	middleware.RecordOp("claim_daily_life", err)
	if err != nil {
		fail(c, err)
		return
	}

	stats, _ := h.Players.Stats(player)
	c.JSON(http.StatusOK, gin.H{"ok": true, "lives": stats.Lives})
}

// DebitCoins removes coins; reward-redemption role only.
func (h *Handler) DebitCoins(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller not found"})
		return
	}
	player, ok := playerParam(c)
	if !ok {
		return
	}

	var req struct {
		Amount uint64 `json:"amount"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	err := h.Players.DebitCoins(c.Request.Context(), caller, player, req.Amount)
	middleware.RecordOp("debit_coins", err)
	if err != nil {
		fail(c, err)
		return
	}

	stats, _ := h.Players.Stats(player)
	c.JSON(http.StatusOK, gin.H{"ok": true, "coins": stats.Coins})
}

// GetPlayer returns the full player record.
func (h *Handler) GetPlayer(c *gin.Context) {
	player, ok := playerParam(c)
	if !ok {
		return
	}

	rec, found := h.Players.Record(player)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": player, "record": rec})
}
