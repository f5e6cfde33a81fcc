// Package telemetry exposes Prometheus counters for the switchboard.
// Counting results themselves are emitted as structured log fields; these
// counters only track how often each path runs and how it ends.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus collectors are registered once per process.
var (
	// EventsProcessed counts inbound events by source and outcome.
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "switchboard",
		Name:      "events_processed_total",
		Help:      "Inbound counting events processed, by source and outcome.",
	}, []string{"source", "outcome"})

	// CounterDeltas counts applied counter deltas by direction.
	CounterDeltas = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "switchboard",
		Name:      "counter_deltas_total",
		Help:      "Signed deltas applied to the connected-clients counter, by direction.",
	}, []string{"direction"})

	// SwitchAttempts counts stack switch attempts by outcome.
	SwitchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "switchboard",
		Name:      "switch_attempts_total",
		Help:      "Stack switch attempts, by outcome.",
	}, []string{"outcome"})
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// ObserveDelta records one applied delta under its direction label.
func ObserveDelta(delta int64) {
	direction := "join"
	if delta < 0 {
		direction = "leave"
	}

	CounterDeltas.WithLabelValues(direction).Inc()
}
