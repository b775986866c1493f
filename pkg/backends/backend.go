package backends

import "context"

// Backend is the contract every inference adapter implements.
//
// Generate must honor ctx cancellation: once ctx is done the outbound call is
// aborted and Generate returns promptly. Every failure is returned as a
// *BackendError naming this backend.
type Backend interface {
	// Name returns the configured backend name. It is also the Source tag of
	// every Result this backend produces.
	Name() string

	// Generate runs one generation call.
	Generate(ctx context.Context, req Request) (*Result, error)
}

// Prober is implemented by backends that expose a liveness probe.
type Prober interface {
	// Probe returns nil when the backend is reachable and answering.
	Probe(ctx context.Context) error
}
