package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/voltaic-labs/sigraph/pkg/logging"
)

// Context key for the request id
type contextKey string

const requestIDContextKey contextKey = "request_id"

// RequestIDFromContext returns the request id assigned by the middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// requestIDMiddleware assigns each request a unique id, honoring one
// supplied by the caller in X-Request-ID
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// panicRecoveryMiddleware recovers from panics in HTTP handlers
// This prevents server crashes and returns a proper error response
func (s *Server) panicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic in HTTP handler",
					logging.String("method", r.Method),
					logging.String("path", r.URL.Path),
					logging.Any("panic", err),
					logging.String("stack", string(debug.Stack())),
				)
				s.respondError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		s.logger.Info("http request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", wrapper.statusCode),
			logging.RequestID(RequestIDFromContext(r.Context())),
			logging.Latency(time.Since(start)),
		)
	})
}

// metricsMiddleware tracks HTTP request metrics
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		s.metrics.HTTPRequestsInFlight.Inc()
		defer s.metrics.HTTPRequestsInFlight.Dec()

		wrapper := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		s.metrics.RecordHTTPRequest(r.Method, r.URL.Path,
			strconv.Itoa(wrapper.statusCode), time.Since(start))
	})
}

// statusResponseWriter wraps http.ResponseWriter to capture status code
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
