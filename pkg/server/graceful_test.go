package server

import (
	"net/http"
	"testing"
	"time"
)

func TestGracefulServerShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	gs := NewGracefulServer(Options{
		Addr:            "127.0.0.1:0", // random port
		Handler:         handler,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: time.Second,
	})

	done := make(chan error, 1)
	go func() {
		done <- gs.Start()
	}()

	// Give the listener time to come up.
	time.Sleep(100 * time.Millisecond)

	if gs.IsShuttingDown() {
		t.Error("server reports shutting down before Shutdown was called")
	}

	if err := gs.Shutdown(); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}
	if !gs.IsShuttingDown() {
		t.Error("IsShuttingDown() = false after Shutdown")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}

func TestGracefulServerShutdownIdempotent(t *testing.T) {
	gs := NewGracefulServer(Options{
		Addr:            "127.0.0.1:0",
		Handler:         http.NewServeMux(),
		ShutdownTimeout: time.Second,
	})

	if err := gs.Shutdown(); err != nil {
		t.Errorf("first Shutdown error: %v", err)
	}
	if err := gs.Shutdown(); err != nil {
		t.Errorf("second Shutdown error: %v", err)
	}

	select {
	case <-gs.ShutdownChannel():
	default:
		t.Error("ShutdownChannel not closed after Shutdown")
	}
}
