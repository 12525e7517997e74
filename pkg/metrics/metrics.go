// Package metrics exposes Prometheus instrumentation for solves, sweeps,
// diagnoses and the HTTP surface.
package metrics

import (
	"runtime"
	"time"
)

// RecordSolve records one solve attempt with its outcome
func (r *Registry) RecordSolve(status string, iterations, nodes int, duration time.Duration) {
	r.SolvesTotal.WithLabelValues(status).Inc()
	if status == "success" {
		r.SolveIterations.Observe(float64(iterations))
		r.SolveGraphNodes.Observe(float64(nodes))
	}
	r.SolveDuration.Observe(duration.Seconds())
}

// RecordSweep records one parameter sweep
func (r *Registry) RecordSweep(status string, samples int, duration time.Duration) {
	r.SweepsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		r.SweepSamples.Observe(float64(samples))
	}
	r.SweepDuration.Observe(duration.Seconds())
}

// RecordDiagnosis records one fault diagnosis
func (r *Registry) RecordDiagnosis(metric string, probableFault bool, residualScore float64) {
	fault := "no"
	if probableFault {
		fault = "yes"
	}
	r.DiagnosesTotal.WithLabelValues(metric, fault).Inc()
	r.DiagnosisResidual.Observe(residualScore)
}

// SetLibrarySize updates the signature library size gauge
func (r *Registry) SetLibrarySize(n int) {
	r.LibrarySignatures.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// UpdateSystemMetrics refreshes the runtime gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
}
