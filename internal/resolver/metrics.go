package resolver

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/compsolve/internal/depgraph"
)

// Outcome labels of the resolutions counter.
const (
	OutcomeResolved       = "resolved"
	OutcomeConflict       = "conflict"
	OutcomeUnsatisfied    = "unsatisfied"
	OutcomeCycle          = "cycle"
	OutcomeDowngrade      = "downgrade"
	OutcomeInvalidInstall = "invalid_install"
	OutcomeBudget         = "budget_exceeded"
	OutcomeError          = "error"
)

// Metrics records resolution counts, search sizes and durations.
// A nil *Metrics records nothing.
type Metrics struct {
	resolutions *prometheus.CounterVec
	branches    prometheus.Histogram
	duration    prometheus.Histogram
}

// NewMetrics creates the resolver collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compsolve_resolutions_total",
				Help: "Number of resolutions by outcome.",
			},
			[]string{"outcome"},
		),
		branches: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "compsolve_search_branches",
				Help:    "Search branches tried per resolution.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "compsolve_resolution_duration_seconds",
				Help:    "Time taken to resolve a request.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.resolutions, m.branches, m.duration)
	return m
}

func (m *Metrics) observe(err error, branches int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(outcome(err)).Inc()
	m.branches.Observe(float64(branches))
	m.duration.Observe(elapsed.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeResolved
	case errors.Is(err, depgraph.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, depgraph.ErrUnsatisfied):
		return OutcomeUnsatisfied
	case errors.Is(err, depgraph.ErrCycle):
		return OutcomeCycle
	case errors.Is(err, ErrDowngrade):
		return OutcomeDowngrade
	case errors.Is(err, ErrInvalidInstall):
		return OutcomeInvalidInstall
	case errors.Is(err, ErrBudgetExceeded):
		return OutcomeBudget
	default:
		return OutcomeError
	}
}
