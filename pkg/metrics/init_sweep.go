package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSweepMetrics() {
	r.SweepsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sigraph_sweeps_total",
			Help: "Total number of parameter sweeps",
		},
		[]string{"status"}, // success, error
	)

	r.SweepSamples = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sigraph_sweep_samples",
			Help:    "Samples per sweep",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 500},
		},
	)

	r.SweepDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sigraph_sweep_duration_seconds",
			Help:    "Sweep duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)
}
