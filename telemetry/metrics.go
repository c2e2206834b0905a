// Package telemetry holds the Prometheus instruments shared by the sweep
// driver and the HTTP server.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics for Root Finding
// =============================================================================

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	// runs counts finished runs.
	// Labels: method, outcome (converged, breakdown, exhausted, canceled, failed)
	runs *prometheus.CounterVec

	// iterations tracks updates per run.
	// Labels: method
	iterations *prometheus.HistogramVec

	// sweepRate is the mean estimated order of the last sweep.
	// Labels: sweep, method
	sweepRate *prometheus.GaugeVec

	// sweepDuration measures whole sweeps.
	// Labels: sweep
	sweepDuration *prometheus.HistogramVec
}

// NewMetrics registers the instruments on reg. Pass prometheus.NewRegistry()
// in tests to keep registrations apart.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rootfind",
			Name:      "runs_total",
			Help:      "Root-finding runs by method and outcome",
		}, []string{"method", "outcome"}),
		iterations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rootfind",
			Name:      "run_iterations",
			Help:      "Updates applied per run",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 1000},
		}, []string{"method"}),
		sweepRate: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rootfind",
			Subsystem: "sweep",
			Name:      "mean_rate",
			Help:      "Mean estimated convergence order of the most recent sweep",
		}, []string{"sweep", "method"}),
		sweepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rootfind",
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Wall time of a full sweep",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"sweep"}),
	}
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(method, outcome string, iterations int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(method, outcome).Inc()
	m.iterations.WithLabelValues(method).Observe(float64(iterations))
}

// ObserveSweepRate publishes a sweep's mean rate for one method.
func (m *Metrics) ObserveSweepRate(sweep, method string, rate float64) {
	if m == nil {
		return
	}
	m.sweepRate.WithLabelValues(sweep, method).Set(rate)
}

// ObserveSweepDuration records how long a sweep took.
func (m *Metrics) ObserveSweepDuration(sweep string, d time.Duration) {
	if m == nil {
		return
	}
	m.sweepDuration.WithLabelValues(sweep).Observe(d.Seconds())
}
