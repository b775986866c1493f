// Package orchestrator routes a generation request across backends in
// priority order.
//
// The primary backend is always tried first. When it fails and fallback is
// enabled, each later enabled backend is tried in turn until one succeeds.
// Attempts are strictly sequential: a fallback call starts only after the
// previous attempt has returned.
//
// When nothing succeeds, Generate returns an *AllBackendsFailedError whose
// Attempts list every (backend, cause) pair in the order tried:
//
//	res, err := orch.Generate(ctx, req)
//	var allFailed *orchestrator.AllBackendsFailedError
//	if errors.As(err, &allFailed) {
//	    log.Println(allFailed.Detail())
//	}
//
// An Observer sees every attempt outcome; the metrics collector uses it to
// count attempts per backend.
package orchestrator
