// Package handlers provides the HTTP endpoint handlers of the inference
// router.
//
//   - POST /generate: GenerateHandler
//   - GET /health: HealthHandler
//   - GET /: RootHandler
//
// /metrics is served by metrics.Collector.Handler.
//
// # Request Flow
//
// GenerateHandler:
//
//  1. Parse and validate the body, applying generation defaults (400 on error)
//  2. Call the Generator (the orchestrator), which tries backends in order
//  3. Record request metrics and a ledger entry
//  4. Write {text, model, tokens_used, latency_ms, source} or an error
//
// # Error Format
//
// Every error body has a single detail field:
//
//	{"detail": "All inference backends failed. ollama: ..., bedrock: ..."}
//
// Status codes come from proxy.HandleError. Wrong methods get 405 with an
// Allow header.
package handlers
