// Package config provides configuration management for the inference router.
//
// Configuration is read once at startup and is immutable afterwards. It can
// come from a YAML file, from the environment, or both:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("")            // defaults + env
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml") // file + env
//
// # Environment Variable Overrides
//
// The container-facing variables are:
//
//   - OLLAMA_URL overrides the base URL of the first ollama backend
//   - BEDROCK_FALLBACK ("true" or anything else) sets generation.fallback_enabled
//   - DEFAULT_MODEL overrides generation.default_model
//
// All other settings follow INFERENCE_SECTION_FIELD, for example
// INFERENCE_SERVER_LISTEN_ADDRESS or INFERENCE_TELEMETRY_LOGGING_LEVEL.
// Environment variables always take precedence over the file.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Backends
//
// Backends are listed in priority order. Without a backends section the
// router uses an ollama primary and a bedrock fallback:
//
//	backends:
//	  - name: ollama
//	    type: ollama
//	    base_url: "http://ollama-runner:11434"
//	    timeout: "30s"
//	  - name: bedrock
//	    type: bedrock
//	    simulated_latency: "100ms"
//
//	generation:
//	  default_model: "llama3"
//	  fallback_enabled: true
//
// Validation errors include field paths:
//
//	configuration validation failed with 2 errors:
//	  - backends[1].type: unknown backend type "vertex" (must be "ollama" or "bedrock")
//	  - telemetry.logging.format: invalid log format "xml" (must be json or text)
package config
