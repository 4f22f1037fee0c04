package domain

// PlayerRecord holds one player's progression stats. Records are created
// exactly once and never deleted.
type PlayerRecord struct {
	Coins        uint64 `db:"coins" json:"coins"`
	Lives        uint64 `db:"lives" json:"lives"`
	Rank         uint64 `db:"rank" json:"rank"`
	PremiumCoins uint64 `db:"premium_coins" json:"premium_coins"`
	Initialized  bool   `db:"initialized" json:"initialized"`
	// LastClaimDay is the game-day index of the last daily life claim.
	// -1 means the player has never claimed.
	LastClaimDay int64 `db:"last_claim_day" json:"last_claim_day"`
}

// PlayerStats is the read-only projection of a player's numeric stats,
// also the unit copied by the migration feed.
type PlayerStats struct {
	Coins        uint64 `json:"coins"`
	Lives        uint64 `json:"lives"`
	Rank         uint64 `json:"rank"`
	PremiumCoins uint64 `json:"premium_coins"`
}

// StatsChange carries the deltas of a single stats update. Emitted after
// the update has been applied.
type StatsChange struct {
	Player             int64  `json:"player"`
	CoinsEarned        uint64 `json:"coins_earned"`
	LivesLost          uint64 `json:"lives_lost"`
	RankIncrease       uint64 `json:"rank_increase"`
	PremiumCoinsEarned uint64 `json:"premium_coins_earned"`
}
