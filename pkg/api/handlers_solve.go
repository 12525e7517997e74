package api

import (
	"net/http"
	"time"

	"github.com/voltaic-labs/sigraph/pkg/graph"
	"github.com/voltaic-labs/sigraph/pkg/solver"
)

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SolveRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	m := s.buildModel(w, req.Graph)
	if m == nil {
		s.metrics.RecordSolve("validation_error", 0, 0, 0)
		return
	}
	initial, ok := s.parseInitial(w, req.Initial)
	if !ok {
		return
	}

	start := time.Now()
	final, iterations, err := s.solver.Solve(m, initial, s.solverOptions(req.Epsilon, req.MaxIterations))
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.RecordSolve(solveStatus(err), iterations, m.NodeCount(), elapsed)
		s.respondEngineError(w, "solve", err)
		return
	}
	s.metrics.RecordSolve("success", iterations, m.NodeCount(), elapsed)

	s.respondJSON(w, http.StatusOK, SolveResponse{
		Values:     final.Values(),
		Iterations: iterations,
		Time:       elapsed.String(),
	})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req OrderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	start := time.Now()
	m := s.buildModel(w, req.Graph)
	if m == nil {
		return
	}

	s.respondJSON(w, http.StatusOK, OrderResponse{
		Order:    m.TopologicalOrder(),
		Feedback: m.FeedbackEdges(),
		Time:     time.Since(start).String(),
	})
}

func solveStatus(err error) string {
	switch err.(type) {
	case *solver.ConvergenceError:
		return "convergence_error"
	case *graph.ComputeError:
		return "compute_error"
	default:
		return "error"
	}
}
