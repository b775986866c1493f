// Package health reports backend liveness for GET /health.
//
// Every backend implementing backends.Prober gets a check. Check runs them
// all concurrently, each under its own timeout (5s by default), and maps the
// outcome to a status string:
//
//	healthy
//	unhealthy: status 503: model runner starting
//	unhealthy: health check timeout
//
// Report wraps the map for the HTTP handler. The top-level status is always
// "healthy"; backend state lives in services:
//
//	{
//	    "status": "healthy",
//	    "timestamp": 1760700000.123,
//	    "services": {"ollama": "healthy"}
//	}
//
// # Usage
//
//	agg := health.NewFromBackends(orch.Backends(), cfg.Health.ProbeTimeout,
//	    health.WithRecorder(collector))
//	report := agg.Report(ctx)
package health
