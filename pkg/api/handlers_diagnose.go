package api

import (
	"net/http"
	"time"

	"github.com/voltaic-labs/sigraph/pkg/logging"
	"github.com/voltaic-labs/sigraph/pkg/validation"
	"github.com/voltaic-labs/sigraph/pkg/vector"
)

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req DiagnoseRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	metricName := req.Metric
	if metricName == "" {
		metricName = s.cfg.Match.Metric
	}
	metric, err := vector.ParseMetric(metricName)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	threshold := req.Threshold
	if threshold <= 0 {
		threshold = s.cfg.Match.Threshold
	}

	start := time.Now()
	report, err := s.matcher.Match(req.Live, s.library, metric, threshold)
	if err != nil {
		s.respondEngineError(w, "diagnose", err)
		return
	}
	s.metrics.RecordDiagnosis(string(metric), report.ProbableFault, report.ResidualScore)

	if s.publisher != nil && report.ProbableFault {
		if err := s.publisher.Publish(report); err != nil {
			// Diagnosis already succeeded; a bus hiccup must not fail the request.
			s.logger.Warn("publish fault report", logging.Error(err))
		}
	}

	s.respondJSON(w, http.StatusOK, DiagnoseResponse{
		Report: report,
		Time:   time.Since(start).String(),
	})
}
