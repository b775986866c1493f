// Package proxy holds the request parsing and response writing shared by
// the HTTP handlers.
//
// # Request Parsing
//
// ParseGenerateRequest reads a bounded body, decodes it and fills omitted
// fields from the generation defaults:
//
//	{"prompt": "hello"}
//	→ backends.Request{Prompt: "hello", Model: "llama3", MaxTokens: 100, Temperature: 0.7}
//
// Malformed JSON, a missing or blank prompt, or a non-positive max_tokens
// yields a *RequestError.
//
// # Error Mapping
//
// HandleError turns errors into status codes and {"detail": "..."} bodies:
//
//	*RequestError                        400
//	*orchestrator.AllBackendsFailedError 500  "All inference backends failed. ollama: ..., bedrock: ..."
//	context.DeadlineExceeded             504
//	other                                500
//
// Subpackages: handlers (endpoints), middleware (cross-cutting concerns) and
// types (wire bodies).
package proxy
