package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder remembers the first status code and counts body bytes.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.wroteHeader {
		return
	}
	sr.status = code
	sr.wroteHeader = true
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.wroteHeader {
		sr.WriteHeader(http.StatusOK)
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// levelFor maps a response status to a log level.
func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// LoggingMiddleware writes one "request completed" record per request:
//
//	{"level":"INFO","msg":"request completed","method":"POST","path":"/generate",
//	 "status":200,"bytes":112,"latency_ms":850,"request_id":"5f0c8a8e-...",
//	 "remote_addr":"10.0.0.12:54321"}
//
// 5xx responses log at error level and 4xx at warn. The request ID is read
// back from the response header, so this middleware may sit outside
// RequestIDMiddleware.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := withStartTime(r.Context(), start)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(ctx))

		slog.Log(ctx, levelFor(rec.status), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", rec.Header().Get(RequestIDHeader),
			"remote_addr", r.RemoteAddr,
		)
	})
}
