package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.SolvesTotal == nil {
		t.Error("SolvesTotal not initialized")
	}
	if r.SweepsTotal == nil {
		t.Error("SweepsTotal not initialized")
	}
	if r.DiagnosesTotal == nil {
		t.Error("DiagnosesTotal not initialized")
	}
	if r.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	// Should return the same instance
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordSolve(t *testing.T) {
	r := NewRegistry()

	r.RecordSolve("success", 7, 3, 10*time.Millisecond)
	r.RecordSolve("success", 1, 2, 5*time.Millisecond)
	r.RecordSolve("convergence_error", 100, 3, 80*time.Millisecond)

	counter, err := r.SolvesTotal.GetMetricWithLabelValues("success")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Success counter = %v, want 2", metric.Counter.GetValue())
	}

	counter, err = r.SolvesTotal.GetMetricWithLabelValues("convergence_error")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Convergence error counter = %v, want 1", metric.Counter.GetValue())
	}
}

func TestRecordDiagnosis(t *testing.T) {
	r := NewRegistry()

	r.RecordDiagnosis("euclidean", true, 7.5)
	r.RecordDiagnosis("euclidean", false, 0.1)
	r.RecordDiagnosis("cosine", false, 0.0)

	counter, err := r.DiagnosesTotal.GetMetricWithLabelValues("euclidean", "yes")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("Fault counter = %v, want 1", metric.Counter.GetValue())
	}
}

func TestSetLibrarySize(t *testing.T) {
	r := NewRegistry()
	r.SetLibrarySize(12)

	var metric dto.Metric
	if err := r.LibrarySignatures.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 12 {
		t.Errorf("Library gauge = %v, want 12", metric.Gauge.GetValue())
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordHTTPRequest("POST", "/api/v1/solve", "200", 100*time.Millisecond)
	r.RecordHTTPRequest("POST", "/api/v1/solve", "200", 50*time.Millisecond)
	r.RecordHTTPRequest("POST", "/api/v1/solve", "422", 10*time.Millisecond)

	counter, err := r.HTTPRequestsTotal.GetMetricWithLabelValues("POST", "/api/v1/solve", "200")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Counter value = %v, want 2", metric.Counter.GetValue())
	}
}

func TestUpdateSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics(time.Now().Add(-2 * time.Second))

	var metric dto.Metric
	if err := r.UptimeSeconds.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() < 1 {
		t.Errorf("Uptime = %v, want at least 1s", metric.Gauge.GetValue())
	}
}
