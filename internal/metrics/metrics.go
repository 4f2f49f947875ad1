// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "byosnap"

//nolint:gochecknoglobals // collectors are process wide
var (
	// AuthzDecisions counts authorization decisions.
	// Labels:
	//   - route: route name from the route table, or "rpc" for the Check procedure
	//   - outcome: "allowed", "denied"
	//   - branch: matched auth type, "none" when denied
	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authz_decisions_total",
			Help:      "Total number of header authorization decisions",
		},
		[]string{"route", "outcome", "branch"},
	)

	// ProfilesRequestDuration measures calls to the Profiles internal API.
	ProfilesRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "profiles_request_duration_seconds",
			Help:      "Duration of Profiles internal API requests in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation", "outcome"},
	)

	// GameStoreOperations counts game state store operations.
	GameStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_store_operations_total",
			Help:      "Total number of game state store operations",
		},
		[]string{"operation", "outcome"},
	)
)

// Outcome labels.
const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeMiss    = "miss"
)
