// Package gameday computes the game-day index used to gate the daily life
// grant. Days roll over at 01:00 UTC, not at midnight: a claim made at
// 00:30 still counts against the previous day's window.
package gameday

import "time"

const (
	secondsPerDay  = 86400
	rolloverOffset = 3600
)

// FromUnix returns the game-day index for a unix timestamp. Timestamps in
// [D*86400, D*86400+3599] map to day D-1; timestamps at or past the
// one-hour boundary map to day D. The boundary comparison is >=.
func FromUnix(ts int64) int64 {
	if ts%secondsPerDay >= rolloverOffset {
		return ts / secondsPerDay
	}
	return ts/secondsPerDay - 1
}

// Current returns the game-day index for a wall-clock time.
func Current(t time.Time) int64 {
	return FromUnix(t.Unix())
}
