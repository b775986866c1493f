package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"genai-hq/inference/pkg/proxy/types"
)

// RecoveryMiddleware turns a handler panic into a 500 {"detail": ...}
// response. The panic and stack are logged; clients only see a generic
// message. http.ErrAbortHandler is re-panicked so net/http can abort the
// connection.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}

			slog.ErrorContext(r.Context(), "panic in handler",
				"error", err,
				"request_id", w.Header().Get(RequestIDHeader),
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(types.NewErrorResponse(
				"An internal error occurred. Please try again later.",
			))
		}()

		next.ServeHTTP(w, r)
	})
}
