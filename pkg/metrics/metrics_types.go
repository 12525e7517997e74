package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Solve Metrics
	SolvesTotal     *prometheus.CounterVec
	SolveIterations prometheus.Histogram
	SolveDuration   prometheus.Histogram
	SolveGraphNodes prometheus.Histogram

	// Sweep Metrics
	SweepsTotal   *prometheus.CounterVec
	SweepSamples  prometheus.Histogram
	SweepDuration prometheus.Histogram

	// Diagnosis Metrics
	DiagnosesTotal    *prometheus.CounterVec
	DiagnosisResidual prometheus.Histogram
	LibrarySignatures prometheus.Gauge

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initSolveMetrics()
	r.initSweepMetrics()
	r.initDiagnosisMetrics()
	r.initHTTPMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
