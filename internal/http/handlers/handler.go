package handlers

import (
	"errors"
	"net/http"

	"raccoon_ledger/internal/auth"
	"raccoon_ledger/internal/ledger"
	"raccoon_ledger/internal/refcode"
	"raccoon_ledger/internal/referral"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler bundles the two ledgers and their collaborators for the HTTP
// surface.
type Handler struct {
	DB        *pgxpool.Pool
	Players   *ledger.PlayerLedger
	Referrals *referral.Ledger
	Authority *auth.AuthorityStore
	Legacy    ledger.StatSource
}

func NewHandler(db *pgxpool.Pool, players *ledger.PlayerLedger, referrals *referral.Ledger, authority *auth.AuthorityStore, legacy ledger.StatSource) *Handler {
	return &Handler{
		DB:        db,
		Players:   players,
		Referrals: referrals,
		Authority: authority,
		Legacy:    legacy,
	}
}

// callerID extracts the authenticated caller identity set by the JWT
// middleware.
func callerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("caller_id")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case int64:
		return id, true
	case float64:
		return int64(id), true
	default:
		return 0, false
	}
}

// fail writes the JSON error response for a ledger failure.
func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// statusFor maps the ledgers' failure classes onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrAlreadyInitialized),
		errors.Is(err, ledger.ErrAlreadyClaimedToday),
		errors.Is(err, referral.ErrAlreadyReferred):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientResource),
		errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, referral.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrPaymentFailed):
		return http.StatusPaymentRequired
	case errors.Is(err, refcode.ErrMalformed),
		errors.Is(err, referral.ErrInvalidCode),
		errors.Is(err, referral.ErrSelfReferralForbidden),
		errors.Is(err, referral.ErrIndexOutOfRange),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNotInitialized):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
