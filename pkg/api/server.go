// Package api exposes the compute engine over HTTP: solve a graph, run
// parameter sweeps into the signature library, and diagnose live current
// vectors against it.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voltaic-labs/sigraph/pkg/bus"
	"github.com/voltaic-labs/sigraph/pkg/config"
	"github.com/voltaic-labs/sigraph/pkg/fault"
	"github.com/voltaic-labs/sigraph/pkg/logging"
	"github.com/voltaic-labs/sigraph/pkg/metrics"
	"github.com/voltaic-labs/sigraph/pkg/parallel"
	"github.com/voltaic-labs/sigraph/pkg/signature"
	"github.com/voltaic-labs/sigraph/pkg/solver"
)

// Server represents the HTTP API server
type Server struct {
	cfg     config.Config
	logger  logging.Logger
	metrics *metrics.Registry

	solver    solver.Solver
	pool      *parallel.WorkerPool
	runner    *signature.Runner
	library   *signature.Library
	matcher   *fault.Matcher
	publisher *bus.Publisher

	startTime time.Time
	version   string
}

// NewServer creates a new API server from a validated configuration.
func NewServer(cfg config.Config, logger logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	pool, err := parallel.NewWorkerPool(cfg.Sweep.Workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	dagSolver := solver.NewDAGSolverWithLogger(logger.With(logging.Component("solver")))
	opts := solver.Options{
		Epsilon:       cfg.Solver.Epsilon,
		MaxIterations: cfg.Solver.MaxIterations,
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics.NewRegistry(),
		solver:    dagSolver,
		pool:      pool,
		runner:    signature.NewRunner(dagSolver, pool, opts, logger.With(logging.Component("sweep"))),
		library:   signature.NewLibrary(),
		matcher:   fault.NewMatcher(logger.With(logging.Component("fault"))),
		startTime: time.Now(),
		version:   "1.0.0",
	}

	if cfg.Bus.Enabled {
		publisher, err := bus.NewPublisher(cfg.Bus.ListenAddr, cfg.Bus.Topic,
			logger.With(logging.Component("bus")))
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("start fault bus: %w", err)
		}
		s.publisher = publisher
	}

	return s, nil
}

// Handler builds the routing table with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(
		s.metrics.GetPrometheusRegistry(),
		promhttp.HandlerOpts{},
	))

	// Engine endpoints
	mux.HandleFunc("/api/v1/solve", s.handleSolve)
	mux.HandleFunc("/api/v1/order", s.handleOrder)
	mux.HandleFunc("/api/v1/sweep", s.handleSweep)
	mux.HandleFunc("/api/v1/signatures", s.handleSignatures)
	mux.HandleFunc("/api/v1/signatures/", s.handleSignature) // /api/v1/signatures/{id}
	mux.HandleFunc("/api/v1/diagnose", s.handleDiagnose)

	var handler http.Handler = mux
	handler = s.metricsMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.requestIDMiddleware(handler)
	handler = s.panicRecoveryMiddleware(handler)
	return handler
}

// Close releases the server's resources.
func (s *Server) Close() error {
	s.pool.Close()
	if s.publisher != nil {
		return s.publisher.Close()
	}
	return nil
}

// Library exposes the signature store, mainly for preloading at startup.
func (s *Server) Library() *signature.Library {
	return s.library
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.metrics.UpdateSystemMetrics(s.startTime)

	response := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now(),
		Version:    s.version,
		Uptime:     time.Since(s.startTime).String(),
		Signatures: s.library.Len(),
	}
	s.respondJSON(w, http.StatusOK, response)
}
