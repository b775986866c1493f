package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAllBackendsFailed matches every *AllBackendsFailedError via errors.Is.
var ErrAllBackendsFailed = errors.New("all inference backends failed")

// Attempt records one failed backend call.
type Attempt struct {
	// Backend is the name of the backend that was tried.
	Backend string

	// Cause is why the call failed.
	Cause error
}

// AllBackendsFailedError is returned by Generate when no attempted backend
// produced a result. Attempts are in the order they were made.
type AllBackendsFailedError struct {
	Attempts []Attempt

	// FallbackEnabled records whether backends after the primary were
	// allowed to run.
	FallbackEnabled bool
}

// Error implements the error interface.
func (e *AllBackendsFailedError) Error() string {
	var sb strings.Builder
	sb.WriteString("all inference backends failed: ")
	for i, a := range e.Attempts {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s: %v", a.Backend, a.Cause)
	}
	return sb.String()
}

// Unwrap exposes every cause, so errors.Is(err, context.Canceled) reports
// whether any attempt was cancelled.
func (e *AllBackendsFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Cause != nil {
			errs = append(errs, a.Cause)
		}
	}
	return errs
}

// Is reports whether target is ErrAllBackendsFailed.
func (e *AllBackendsFailedError) Is(target error) bool {
	return target == ErrAllBackendsFailed
}

// Detail is the operator-facing summary returned to HTTP callers. It tells
// "primary down with fallback off" apart from "everything down".
func (e *AllBackendsFailedError) Detail() string {
	if !e.FallbackEnabled && len(e.Attempts) == 1 {
		a := e.Attempts[0]
		return fmt.Sprintf("%s failed and fallback disabled: %v", a.Backend, a.Cause)
	}

	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Backend, a.Cause))
	}
	return "All inference backends failed. " + strings.Join(parts, ", ")
}
