// Inference is a text-generation router. It forwards generation requests to
// a primary backend (Ollama) and falls back to a secondary backend when the
// primary fails, returning the same response shape whichever backend served
// the request.
//
// Usage:
//
//	# Start the HTTP server with defaults and environment overrides
//	inference serve
//
//	# Start with a configuration file
//	inference serve --config /etc/inference/config.yaml
//
//	# Generate once from the command line
//	inference generate --prompt "Why is the sky blue?"
//
//	# Probe the backends
//	inference health
//
//	# Inspect or prune the generation ledger
//	inference ledger list --limit 20
//	inference ledger prune --days 30
package main

func main() {
	Execute()
}
