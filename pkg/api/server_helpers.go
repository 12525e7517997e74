package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/voltaic-labs/sigraph/pkg/fault"
	"github.com/voltaic-labs/sigraph/pkg/graph"
	"github.com/voltaic-labs/sigraph/pkg/logging"
	"github.com/voltaic-labs/sigraph/pkg/signature"
	"github.com/voltaic-labs/sigraph/pkg/solver"
	"github.com/voltaic-labs/sigraph/pkg/state"
	"github.com/voltaic-labs/sigraph/pkg/validation"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	s.respondJSON(w, status, response)
}

// respondEngineError maps engine errors to HTTP statuses: structurally
// invalid graphs and failed solves are the client's problem (422), anything
// unrecognized is ours (500, details logged but not exposed).
func (s *Server) respondEngineError(w http.ResponseWriter, operation string, err error) {
	var (
		validationErr  *graph.ValidationError
		computeErr     *graph.ComputeError
		convergenceErr *solver.ConvergenceError
		sampleErr      *signature.SampleError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &computeErr),
		errors.As(err, &convergenceErr),
		errors.As(err, &sampleErr),
		errors.Is(err, signature.ErrNoSamples),
		errors.Is(err, signature.ErrInvalidRange),
		errors.Is(err, signature.ErrMissingOutput),
		errors.Is(err, fault.ErrEmptyLibrary),
		errors.Is(err, fault.ErrNoComparable):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error(operation+" failed", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("%s failed", operation))
	}
}

// decodeJSON decodes the request body, rejecting unknown fields so typos in
// payloads fail loudly instead of silently falling back to defaults.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// buildModel validates a graph request and builds the executable model.
// On failure it writes the error response and returns nil.
func (s *Server) buildModel(w http.ResponseWriter, req GraphRequest) *graph.Model {
	if err := validation.ValidateGraphSize(len(req.Nodes), len(req.Edges)); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return nil
	}
	for _, node := range req.Nodes {
		if err := validation.ValidateNodeID(node.ID); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return nil
		}
		if err := validation.ValidateExpression(node.Expression); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return nil
		}
	}

	m, err := graph.Build(req.Nodes, req.Edges)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return nil
	}
	return m
}

// parseInitial converts "node.port" keyed values into a State. On failure
// it writes the error response and returns nil; an empty map yields nil
// with ok true.
func (s *Server) parseInitial(w http.ResponseWriter, initial map[string]float64) (*state.State, bool) {
	if len(initial) == 0 {
		return nil, true
	}

	keyed := make(map[state.Key]float64, len(initial))
	for raw, value := range initial {
		key, err := state.ParseKey(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest,
				fmt.Sprintf("invalid initial condition key %q: %v", raw, err))
			return nil, false
		}
		keyed[key] = value
	}
	return state.FromInitial(keyed), true
}

func (s *Server) solverOptions(epsilon float64, maxIterations int) solver.Options {
	opts := solver.Options{
		Epsilon:       s.cfg.Solver.Epsilon,
		MaxIterations: s.cfg.Solver.MaxIterations,
	}
	if epsilon > 0 {
		opts.Epsilon = epsilon
	}
	if maxIterations > 0 {
		opts.MaxIterations = maxIterations
	}
	return opts
}
