package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSolveMetrics() {
	r.SolvesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sigraph_solves_total",
			Help: "Total number of graph solves",
		},
		[]string{"status"}, // success, validation_error, convergence_error, compute_error
	)

	r.SolveIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sigraph_solve_iterations",
			Help:    "Outer iterations per solve",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	r.SolveDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sigraph_solve_duration_seconds",
			Help:    "Solve duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.SolveGraphNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sigraph_solve_graph_nodes",
			Help:    "Number of nodes in solved graphs",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)
}
