package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/crumb/pkg/idx"
)

// RequestIDHeader carries the request ID in and out of the service.
const RequestIDHeader = "X-Request-ID"

// HTTPMiddleware puts a request scoped logger into the request context and
// writes one access log line per request. Server errors log at error level.
// The line carries the user when a handler further down called WithUser.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" || len(reqID) > 128 {
				reqID = idx.New().String()
			}
			w.Header().Set(RequestIDHeader, reqID)

			logger := base.With(
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			ctx, state := withState(WithContext(r.Context(), logger))
			next.ServeHTTP(rw, r.WithContext(ctx))

			attrs := []any{
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			}
			if u := state.username(); u != "" {
				attrs = append(attrs, "user", u)
			}

			level := slog.LevelInfo
			if rw.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "http_request", attrs...)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
