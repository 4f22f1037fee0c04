package gameday

import (
	"testing"
	"time"
)

func TestFromUnixBoundary(t *testing.T) {
	const day = int64(19_000) // an arbitrary day index
	base := day * 86400

	cases := []struct {
		name string
		ts   int64
		want int64
	}{
		{"midnight", base, day - 1},
		{"half past midnight", base + 1800, day - 1},
		{"last second before rollover", base + 3599, day - 1},
		{"rollover instant", base + 3600, day},
		{"one past rollover", base + 3601, day},
		{"noon", base + 43200, day},
		{"last second of day", base + 86399, day},
		{"next midnight", base + 86400, day},
	}

	for _, tc := range cases {
		if got := FromUnix(tc.ts); got != tc.want {
			t.Fatalf("%s: FromUnix(%d) = %d; want %d", tc.name, tc.ts, got, tc.want)
		}
	}
}

func TestCurrentMatchesFromUnix(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 45, 0, 0, time.UTC)
	if got, want := Current(now), FromUnix(now.Unix()); got != want {
		t.Fatalf("Current = %d; want %d", got, want)
	}
	// 00:45 UTC belongs to the previous day's window.
	if Current(now) != now.Unix()/86400-1 {
		t.Fatalf("expected 00:45 UTC to map to the previous day")
	}
}
