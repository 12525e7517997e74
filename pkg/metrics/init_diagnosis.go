package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDiagnosisMetrics() {
	r.DiagnosesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sigraph_diagnoses_total",
			Help: "Total number of fault diagnoses",
		},
		[]string{"metric", "fault"}, // metric: euclidean, cosine, dot_product; fault: yes, no
	)

	r.DiagnosisResidual = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sigraph_diagnosis_residual_score",
			Help:    "Largest absolute residual component per diagnosis",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 50.0},
		},
	)

	r.LibrarySignatures = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sigraph_library_signatures",
			Help: "Number of signatures currently stored in the library",
		},
	)
}
