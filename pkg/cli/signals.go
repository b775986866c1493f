package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context that is cancelled on SIGINT or
// SIGTERM. Call stop to release the signal registration; a second signal
// after cancellation is then handled by the default action (exit).
func SetupSignalHandler() (ctx context.Context, stop context.CancelFunc) {
	return WithSignals(context.Background())
}

// WithSignals derives a context from parent that is cancelled on SIGINT or
// SIGTERM.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
