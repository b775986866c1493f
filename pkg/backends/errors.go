package backends

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrClientClosed is returned by Client methods after Close has been called.
var ErrClientClosed = errors.New("backend client is closed")

// BackendError reports that a single backend call failed. The cause may be a
// transport error, a non-success status (*StatusError), a malformed response
// (*ParseError), a timeout or a recovered panic.
type BackendError struct {
	// Backend is the name of the backend that failed.
	Backend string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Backend, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *BackendError) Unwrap() error {
	return e.Cause
}

// NewBackendError wraps cause for the named backend. A cause that is already
// a *BackendError for the same backend is returned unchanged.
func NewBackendError(backend string, cause error) *BackendError {
	var be *BackendError
	if errors.As(cause, &be) && be.Backend == backend {
		return be
	}
	return &BackendError{Backend: backend, Cause: cause}
}

// StatusError is a non-2xx HTTP response. Body holds the raw response body.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// ParseError is a response body that could not be decoded.
type ParseError struct {
	// RawResponse is the body that failed to parse.
	RawResponse string

	// Cause is the decoder error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Cause)
}

// Unwrap returns the decoder error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// PanicError is a panic recovered from inside an adapter.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ValidationError is an invalid request field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Error kinds reported by Classify.
const (
	KindTimeout  = "timeout"
	KindCanceled = "canceled"
	KindStatus   = "status"
	KindParse    = "parse"
	KindNetwork  = "network"
	KindPanic    = "panic"
	KindOther    = "other"
)

// Classify maps an error to a short, low-cardinality kind suitable for
// metric labels.
func Classify(err error) string {
	var (
		statusErr *StatusError
		parseErr  *ParseError
		panicErr  *PanicError
		netErr    net.Error
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &panicErr):
		return KindPanic
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	default:
		return KindOther
	}
}
