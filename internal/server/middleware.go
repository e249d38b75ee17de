package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/devlog-feedback/internal/logger"
)

// traceHeader carries a per-call id used only for log correlation
const traceHeader = "X-Trace-ID"

// statusRecorder captures the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withTraceID assigns a trace id, echoes it in the response and attaches a tagged logger to the context
func (s *Server) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		w.Header().Set(traceHeader, traceID)

		ctx := logger.WithContext(r.Context(), s.logger.With("trace_id", traceID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.FromContext(r.Context())
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(rec, r)
		log.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
