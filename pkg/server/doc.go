// Package server runs the HTTP surface of the inference router.
//
// It ties the handlers to their routes, wraps them in the middleware chain
// and manages the listener lifecycle.
//
// # Routes
//
//	POST /generate   handlers.GenerateHandler
//	GET  /health     handlers.HealthHandler
//	GET  /           handlers.RootHandler
//	GET  /metrics    metrics.Collector.Handler (when metrics are enabled)
//
// # Basic Usage
//
//	srv := server.NewServer(cfg, orch, aggregator,
//	    server.WithMetrics(collector),
//	    server.WithLedger(recorder),
//	    server.WithVersion(version),
//	)
//
//	ctx, stop := cli.SetupSignalHandler()
//	defer stop()
//
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled or Stop is called, then shuts down
// gracefully within server.shutdown_timeout. In-flight requests finish;
// new connections are refused.
package server
