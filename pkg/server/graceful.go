// Package server wraps an HTTP server with signal-driven graceful shutdown.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/voltaic-labs/sigraph/pkg/logging"
)

// GracefulServer wraps an HTTP server with graceful shutdown capabilities
type GracefulServer struct {
	server          *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
	shutdownCh      chan struct{}
	shutdownOnce    sync.Once
}

// Options configure the wrapped http.Server.
type Options struct {
	Addr            string
	Handler         http.Handler
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Logger          logging.Logger
}

// NewGracefulServer creates a new graceful HTTP server
func NewGracefulServer(opts Options) *GracefulServer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:           opts.Addr,
			Handler:        opts.Handler,
			ReadTimeout:    opts.ReadTimeout,
			WriteTimeout:   opts.WriteTimeout,
			IdleTimeout:    120 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		logger:          logger,
		shutdownTimeout: opts.ShutdownTimeout,
		shutdownCh:      make(chan struct{}),
	}
}

// Start starts the server and handles graceful shutdown signals
func (gs *GracefulServer) Start() error {
	go gs.handleSignals()

	gs.logger.Info("HTTP server listening", logging.String("addr", gs.server.Addr))
	if err := gs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown initiates a graceful shutdown
func (gs *GracefulServer) Shutdown() error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), gs.shutdownTimeout)
		defer cancel()

		gs.logger.Info("initiating graceful shutdown",
			logging.Duration("timeout", gs.shutdownTimeout))

		if shutdownErr := gs.server.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
			gs.logger.Error("shutdown error", logging.Error(shutdownErr))
		} else {
			gs.logger.Info("server shutdown complete")
		}
	})
	return err
}

// handleSignals listens for OS signals and triggers graceful shutdown
func (gs *GracefulServer) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGINT,  // Ctrl+C
		syscall.SIGTERM, // Termination signal (systemd, docker, k8s)
	)

	sig := <-sigCh
	gs.logger.Info("received signal, shutting down", logging.String("signal", sig.String()))
	if err := gs.Shutdown(); err != nil {
		os.Exit(1)
	}
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}
