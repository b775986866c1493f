package middleware

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware bounds each request with context.WithTimeout. The
// handler runs on the calling goroutine and is expected to honor its
// context; the orchestrator does, so an expired request ends as a normal
// error response instead of a second concurrent write. A non-positive
// timeout disables the bound.
//
// Example usage:
//
//	handler = TimeoutMiddleware(60 * time.Second)(handler)
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
