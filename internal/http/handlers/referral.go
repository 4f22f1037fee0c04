package handlers

import (
	"net/http"
	"strconv"

	"raccoon_ledger/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// RedeemCode records that a new player joined through a referral code.
func (h *Handler) RedeemCode(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller not found"})
		return
	}

	var req struct {
		Code   string `json:"code" binding:"required"`
		Player int64  `json:"player" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	err := h.Referrals.RedeemCode(c.Request.Context(), caller, req.Code, req.Player)
	middleware.RecordOp("redeem_code", err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ClaimRewards drains the given unclaimed-queue positions. Indices must be
// strictly ascending and unique; see the referral ledger's contract.
func (h *Handler) ClaimRewards(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller not found"})
		return
	}
	referrer, ok := playerParam(c)
	if !ok {
		return
	}

	var req struct {
		Indices []uint64 `json:"indices"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	err := h.Referrals.ClaimRewardsBatch(c.Request.Context(), caller, referrer, req.Indices)
	middleware.RecordOp("claim_rewards_batch", err)
	if err != nil {
		fail(c, err)
		return
	}

	rec := h.Referrals.UserData(referrer)
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"coins":     rec.Coins,
		"unclaimed": len(rec.UnclaimedInvitees),
	})
}

// GetReferralData is the read-only projection of a referral record.
func (h *Handler) GetReferralData(c *gin.Context) {
	player, ok := playerParam(c)
	if !ok {
		return
	}

	rec := h.Referrals.UserData(player)
	c.JSON(http.StatusOK, gin.H{
		"ref_coins":          rec.RefCoins,
		"coins":              rec.Coins,
		"total_invitees":     rec.TotalInvitees,
		"referred_by":        rec.ReferredBy,
		"all_my_invitees":    rec.AllMyInvitees,
		"unclaimed_invitees": rec.UnclaimedInvitees,
	})
}

// CanClaim reports whether the player's coin balance covers a claim of
// ?count entries.
func (h *Handler) CanClaim(c *gin.Context) {
	player, ok := playerParam(c)
	if !ok {
		return
	}

	count := uint64(0)
	if v := c.Query("count"); v != "" {
		n, err := parseUint(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid count"})
			return
		}
		count = n
	}

	c.JSON(http.StatusOK, gin.H{"can_claim": h.Referrals.CanClaim(player, count)})
}
