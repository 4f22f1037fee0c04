package domain

// ReferralRecord holds one player's referral bookkeeping. The coin balance
// here is independent of the player ledger's coin balance; the two are
// never merged.
type ReferralRecord struct {
	// RefCoins accrue on every successful referral, independent of claim
	// batching.
	RefCoins uint64 `db:"ref_coins" json:"ref_coins"`
	// Coins are rewards converted out of the unclaimed queue by batch-claim.
	Coins uint64 `db:"coins" json:"coins"`
	// ReferredBy is set at most once, when this player redeems someone
	// else's code. 0 means nobody.
	ReferredBy    int64  `db:"referred_by" json:"referred_by"`
	TotalInvitees uint64 `db:"total_invitees" json:"total_invitees"`
	// AllMyInvitees is an append-only audit log, insertion order preserved.
	AllMyInvitees []int64 `db:"all_my_invitees" json:"all_my_invitees"`
	// UnclaimedInvitees queues one claim token per successful referral this
	// player made. Token values are a running count and only ever used
	// positionally.
	UnclaimedInvitees []uint64 `db:"unclaimed_invitees" json:"unclaimed_invitees"`
}

// Clone returns a deep copy safe to hand out to callers.
func (r ReferralRecord) Clone() ReferralRecord {
	out := r
	out.AllMyInvitees = append([]int64(nil), r.AllMyInvitees...)
	out.UnclaimedInvitees = append([]uint64(nil), r.UnclaimedInvitees...)
	return out
}
