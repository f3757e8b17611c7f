package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded on nls_commands_total.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics records command outcomes. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	commands   *prometheus.CounterVec
	operations prometheus.Histogram
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nls_commands_total",
				Help: "Commands processed, by intent and outcome.",
			},
			[]string{"operation", "intent", "outcome"},
		),
		operations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nls_patch_operations",
			Help:    "Number of JSON-Patch operations produced per command.",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nls_command_duration_seconds",
				Help:    "Time spent handling a command.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.commands, m.operations, m.duration)
	}
	return m
}

// Observe records one command handled by operation (preview, apply, batch, run).
func (m *Metrics) Observe(operation, intent string, ops int, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	if intent == "" {
		intent = "none"
	}
	m.commands.WithLabelValues(operation, intent, outcome).Inc()
	if err == nil {
		m.operations.Observe(float64(ops))
	}
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
