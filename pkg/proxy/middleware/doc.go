// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The server applies, outermost first:
//
//	handler = Chain(mux,
//	    RecoveryMiddleware,
//	    LoggingMiddleware,
//	    RequestIDMiddleware,
//	    tracing.HTTPMiddleware,
//	    CORSMiddleware(cors),
//	    TimeoutMiddleware(cfg.Server.RequestTimeout),
//	)
//
// # Request ID
//
// RequestIDMiddleware assigns a UUID v4 per request unless the client sent
// one:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// The ID is stored with logging.WithRequestID, so every slog *Context call
// made while serving the request carries request_id. It is echoed in the
// response header, which is where LoggingMiddleware and RecoveryMiddleware
// read it from.
//
// # Timeouts
//
// TimeoutMiddleware only sets a context deadline. Handlers honor it; for
// /generate an expired deadline ends the current backend attempt and stops
// fallback, which surfaces as a normal 500 response.
//
// # CORS
//
// The default configuration allows every origin. Preflight requests (OPTIONS
// with Access-Control-Request-Method) are answered with 204.
package middleware
