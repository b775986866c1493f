package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"genai-hq/inference/pkg/config"
)

// CORSConfig contains configuration for CORS middleware.
type CORSConfig struct {
	// Enabled controls whether CORS headers are added.
	Enabled bool

	// AllowedOrigins lists allowed origins. ["*"] allows any origin.
	AllowedOrigins []string

	// AllowedMethods lists methods returned on preflight.
	AllowedMethods []string

	// AllowedHeaders lists request headers returned on preflight.
	AllowedHeaders []string

	// ExposedHeaders lists response headers visible to browser scripts.
	ExposedHeaders []string

	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int

	// AllowCredentials controls Access-Control-Allow-Credentials.
	AllowCredentials bool
}

// DefaultCORSConfig allows every origin, matching the service's historical
// allow-all policy.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", "traceparent"},
		ExposedHeaders: []string{RequestIDHeader, "X-Trace-ID"},
		MaxAge:         3600,
	}
}

// CORSConfigFrom converts the server configuration. Empty lists fall back to
// DefaultCORSConfig.
func CORSConfigFrom(cfg config.CORSConfig) *CORSConfig {
	c := DefaultCORSConfig()
	c.Enabled = cfg.Enabled
	c.AllowCredentials = cfg.AllowCredentials
	if len(cfg.AllowedOrigins) > 0 {
		c.AllowedOrigins = cfg.AllowedOrigins
	}
	if len(cfg.AllowedMethods) > 0 {
		c.AllowedMethods = cfg.AllowedMethods
	}
	if len(cfg.AllowedHeaders) > 0 {
		c.AllowedHeaders = cfg.AllowedHeaders
	}
	if cfg.MaxAge > 0 {
		c.MaxAge = cfg.MaxAge
	}
	return c
}

// CORSMiddleware adds Cross-Origin Resource Sharing headers and answers
// preflight OPTIONS requests with 204.
//
// Example usage:
//
//	handler = CORSMiddleware(DefaultCORSConfig())(handler)
func CORSMiddleware(cfg *CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			wildcard := slices.Contains(cfg.AllowedOrigins, "*")

			switch {
			case origin != "" && (wildcard && cfg.AllowCredentials || slices.Contains(cfg.AllowedOrigins, origin)):
				// Credentials require the concrete origin rather than "*".
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}

			if len(cfg.ExposedHeaders) > 0 {
				w.Header().Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposedHeaders, ", "))
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if len(cfg.AllowedMethods) > 0 {
					w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
				}
				if len(cfg.AllowedHeaders) > 0 {
					w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
				}
				if cfg.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
