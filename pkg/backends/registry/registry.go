// Package registry builds backend adapters from configuration.
package registry

import (
	"fmt"
	"log/slog"

	"genai-hq/inference/pkg/backends"
	"genai-hq/inference/pkg/backends/bedrock"
	"genai-hq/inference/pkg/backends/ollama"
	"genai-hq/inference/pkg/config"
)

// ConfigError reports a backend that could not be constructed.
type ConfigError struct {
	Backend string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("backend %q: invalid %s: %s", e.Backend, e.Field, e.Message)
}

// Entry pairs an adapter with its configuration.
type Entry struct {
	Backend backends.Backend
	Config  config.BackendConfig
}

// Build constructs one adapter per configured backend, preserving order.
// Network adapters share client.
func Build(client *backends.Client, cfgs []config.BackendConfig) ([]Entry, error) {
	entries := make([]Entry, 0, len(cfgs))

	for _, cfg := range cfgs {
		backend, err := build(client, cfg)
		if err != nil {
			return nil, err
		}

		slog.Info("backend configured",
			"backend", cfg.Name,
			"type", cfg.Type,
			"enabled", cfg.Enabled(),
			"timeout", cfg.Timeout,
		)
		entries = append(entries, Entry{Backend: backend, Config: cfg})
	}

	return entries, nil
}

func build(client *backends.Client, cfg config.BackendConfig) (backends.Backend, error) {
	switch cfg.Type {
	case config.BackendTypeOllama:
		c, err := ollama.New(client, ollama.Config{
			Name:    cfg.Name,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, &ConfigError{Backend: cfg.Name, Field: "base_url", Message: err.Error()}
		}
		return c, nil

	case config.BackendTypeBedrock:
		return bedrock.New(bedrock.Config{
			Name:    cfg.Name,
			Model:   cfg.Model,
			Latency: cfg.SimulatedLatency,
		}), nil

	default:
		return nil, &ConfigError{
			Backend: cfg.Name,
			Field:   "type",
			Message: fmt.Sprintf("unsupported backend type %q", cfg.Type),
		}
	}
}
