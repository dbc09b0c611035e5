// Package metrics holds the engine's Prometheus instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments turn handling. A nil *Metrics is a no-op, so
// callers never have to guard observation sites.
type Metrics struct {
	turns    *prometheus.CounterVec
	duration prometheus.Histogram
	restores prometheus.Counter
}

// New creates and registers the engine metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ussd_turns_total",
				Help: "Turns handled, by result (con, end, error).",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ussd_turn_duration_seconds",
				Help:    "Wall time spent handling a turn.",
				Buckets: prometheus.DefBuckets,
			},
		),
		restores: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ussd_session_restores_total",
				Help: "Sessions rebound to a new conversation id.",
			},
		),
	}
	reg.MustRegister(m.turns, m.duration, m.restores)
	return m
}

// ObserveTurn records one handled turn.
func (m *Metrics) ObserveTurn(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveRestore records a session id-mismatch recovery.
func (m *Metrics) ObserveRestore() {
	if m == nil {
		return
	}
	m.restores.Inc()
}
