// Package backends defines the uniform contract shared by every inference
// backend adapter.
//
// # Overview
//
// A backend is an external text-generation provider such as a self-hosted
// Ollama runner or a managed cloud model API. Each adapter translates a
// normalized [Request] into a provider-specific call and the provider's reply
// back into a normalized [Result].
//
// Adapters never retry. A failed call is reported as a [*BackendError] and
// the decision to try another backend belongs to the orchestrator.
//
// # Shared Client
//
// All HTTP-based adapters share one [Client], which owns the outbound
// connection pool. The client is created once at process start and closed
// once at shutdown:
//
//	client := backends.NewClient(backends.ClientConfig{MaxIdleConns: 100})
//	defer client.Close()
//
//	primary := ollama.New(client, ollama.Config{BaseURL: "http://localhost:11434"})
//
// # Liveness
//
// Adapters that can cheaply verify reachability also implement [Prober].
// Health aggregation only probes backends that implement it.
//
// # Token Counting
//
// When a backend does not report a token count, [CountTokens] approximates it
// by splitting the generated text on whitespace.
package backends
