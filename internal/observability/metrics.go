package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the ingestion
// pipeline and the read API.
type Metrics struct {
	Cycles        *prometheus.CounterVec   // labels: location, outcome={ok,empty}
	Failures      *prometheus.CounterVec   // labels: kind={transport_error,provider_error,duplicate_location,storage_error}
	RowsWritten   *prometheus.CounterVec   // labels: table={current,hourly,daily}
	CycleDuration *prometheus.HistogramVec // labels: location
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_backend",
			Name:      "fetch_cycles_total",
			Help:      "Completed fetch cycles by location and outcome.",
		}, []string{"location", "outcome"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_backend",
			Name:      "fetch_failures_total",
			Help:      "Failed fetch cycles by failure kind.",
		}, []string{"kind"}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_backend",
			Name:      "rows_written_total",
			Help:      "Rows persisted per weather table.",
		}, []string{"table"}),
		CycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_backend",
			Name:      "fetch_cycle_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-store cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"location"}),
	}

	prometheus.MustRegister(
		m.Cycles,
		m.Failures,
		m.RowsWritten,
		m.CycleDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Cycles:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_backend", Name: "fetch_cycles_total"}, []string{"location", "outcome"}),
		Failures:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_backend", Name: "fetch_failures_total"}, []string{"kind"}),
		RowsWritten:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_backend", Name: "rows_written_total"}, []string{"table"}),
		CycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "weather_backend", Name: "fetch_cycle_duration_seconds"}, []string{"location"}),
	}
}

// ObserveCycle records one completed cycle and its duration.
func (m *Metrics) ObserveCycle(location, outcome string, d time.Duration) {
	m.Cycles.WithLabelValues(location, outcome).Inc()
	m.CycleDuration.WithLabelValues(location).Observe(d.Seconds())
}

// CountFailure records one failed cycle by kind.
func (m *Metrics) CountFailure(kind string) {
	m.Failures.WithLabelValues(kind).Inc()
}

// AddRows records n rows written to the named table.
func (m *Metrics) AddRows(table string, n int) {
	m.RowsWritten.WithLabelValues(table).Add(float64(n))
}
