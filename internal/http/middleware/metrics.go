package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
	LedgerOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger operations by name and outcome",
		},
		[]string{"op", "outcome"},
	)
	StatsChanges = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_change_notifications_total",
			Help: "Stats-change notifications emitted by the player ledger",
		},
	)
)

func init() {
	prometheus.MustRegister(RLRequests, RLBlocked, LedgerOps, StatsChanges)
}

// RecordOp counts one ledger operation outcome.
func RecordOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	LedgerOps.WithLabelValues(op, outcome).Inc()
}
