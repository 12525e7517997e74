package api

import (
	"net/http"
	"time"

	"github.com/voltaic-labs/sigraph/pkg/signature"
	"github.com/voltaic-labs/sigraph/pkg/validation"
)

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SweepRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateSampleCount(req.Samples); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	m := s.buildModel(w, req.Graph)
	if m == nil {
		return
	}
	initial, ok := s.parseInitial(w, req.Initial)
	if !ok {
		return
	}

	start := time.Now()
	sig, err := s.runner.Sweep(r.Context(), m, signature.SweepSpec{
		Node:      req.Node,
		Port:      req.Port,
		ParamNode: req.ParamNode,
		Param:     req.Param,
		Min:       req.Min,
		Max:       req.Max,
		Samples:   req.Samples,
	}, initial, req.Label)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.RecordSweep("error", req.Samples, elapsed)
		s.respondEngineError(w, "sweep", err)
		return
	}

	id := s.library.Add(sig)
	stored, err := s.library.Get(id)
	if err != nil {
		s.respondEngineError(w, "sweep", err)
		return
	}

	s.metrics.RecordSweep("success", req.Samples, elapsed)
	s.metrics.SetLibrarySize(s.library.Len())

	s.respondJSON(w, http.StatusCreated, SweepResponse{
		Signature: stored,
		Time:      elapsed.String(),
	})
}
