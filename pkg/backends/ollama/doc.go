// Package ollama implements the primary backend adapter for a local Ollama
// server.
//
// Generation uses the non-streaming endpoint:
//
//	POST {base}/api/generate
//	{"model": "llama3", "prompt": "...", "stream": false,
//	 "options": {"num_predict": 100, "temperature": 0.7}}
//
// The "response" field becomes Result.Text. TokensUsed is "eval_count" when
// the server reports it, otherwise a whitespace word count of the text.
//
// Liveness is probed with GET {base}/api/tags. Only a 200 counts as healthy.
package ollama
