package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration. All field errors are collected
// and returned together as a ValidationError.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateBackends(cfg.Backends)...)
	errs = append(errs, validateGeneration(&cfg.Generation)...)

	if cfg.Health.ProbeTimeout < 0 {
		errs = append(errs, FieldError{Field: "health.probe_timeout", Message: "probe timeout must not be negative"})
	}

	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateLedger(&cfg.Ledger)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: "listen address is required"})
	}

	durations := []struct {
		field string
		value int64
	}{
		{"server.read_timeout", int64(cfg.ReadTimeout)},
		{"server.write_timeout", int64(cfg.WriteTimeout)},
		{"server.idle_timeout", int64(cfg.IdleTimeout)},
		{"server.shutdown_timeout", int64(cfg.ShutdownTimeout)},
		{"server.request_timeout", int64(cfg.RequestTimeout)},
	}
	for _, d := range durations {
		if d.value < 0 {
			errs = append(errs, FieldError{Field: d.field, Message: "timeout must not be negative"})
		}
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_header_bytes", Message: "max header bytes must be non-negative"})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_body_bytes", Message: "max body bytes must be non-negative"})
	}

	return errs
}

func validateBackends(backends []BackendConfig) []FieldError {
	var errs []FieldError

	if len(backends) == 0 {
		return []FieldError{{Field: "backends", Message: "at least one backend is required"}}
	}

	seen := make(map[string]bool, len(backends))
	for i, b := range backends {
		prefix := fmt.Sprintf("backends[%d]", i)

		if b.Name == "" {
			errs = append(errs, FieldError{Field: prefix + ".name", Message: "name is required"})
		} else if seen[b.Name] {
			errs = append(errs, FieldError{Field: prefix + ".name", Message: fmt.Sprintf("duplicate backend name %q", b.Name)})
		}
		seen[b.Name] = true

		switch b.Type {
		case BackendTypeOllama:
			if err := validateURL(b.BaseURL); err != "" {
				errs = append(errs, FieldError{Field: prefix + ".base_url", Message: err})
			}
		case BackendTypeBedrock:
			if b.SimulatedLatency < 0 {
				errs = append(errs, FieldError{Field: prefix + ".simulated_latency", Message: "latency must not be negative"})
			}
		case "":
			errs = append(errs, FieldError{Field: prefix + ".type", Message: "type is required"})
		default:
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Message: fmt.Sprintf("unknown backend type %q (must be %q or %q)", b.Type, BackendTypeOllama, BackendTypeBedrock),
			})
		}

		if b.Timeout < 0 {
			errs = append(errs, FieldError{Field: prefix + ".timeout", Message: "timeout must not be negative"})
		}
	}

	if backends[0].Disabled {
		errs = append(errs, FieldError{Field: "backends[0].disabled", Message: "the primary backend cannot be disabled"})
	}

	return errs
}

func validateURL(raw string) string {
	if raw == "" {
		return "base URL is required"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "URL scheme must be http or https"
	}
	if u.Host == "" {
		return "URL must include a host"
	}
	return ""
}

func validateGeneration(cfg *GenerationConfig) []FieldError {
	var errs []FieldError

	if cfg.DefaultModel == "" {
		errs = append(errs, FieldError{Field: "generation.default_model", Message: "default model is required"})
	}
	if cfg.DefaultMaxTokens <= 0 {
		errs = append(errs, FieldError{Field: "generation.default_max_tokens", Message: "default max tokens must be positive"})
	}
	if cfg.DefaultTemperature < 0 {
		errs = append(errs, FieldError{Field: "generation.default_temperature", Message: "default temperature must not be negative"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "metrics path must start with /"})
	}

	if cfg.Tracing.Enabled {
		switch cfg.Tracing.Sampler {
		case "always", "never", "ratio":
		default:
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("invalid sampler %q (must be always, never, or ratio)", cfg.Tracing.Sampler),
			})
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{Field: "telemetry.tracing.sample_ratio", Message: "sample ratio must be between 0.0 and 1.0"})
		}
		switch cfg.Tracing.Exporter {
		case "otlp":
			if cfg.Tracing.Endpoint == "" {
				errs = append(errs, FieldError{Field: "telemetry.tracing.endpoint", Message: "endpoint is required for otlp exporter"})
			}
		case "none":
		default:
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.exporter",
				Message: fmt.Sprintf("invalid exporter %q (must be otlp or none)", cfg.Tracing.Exporter),
			})
		}
	}

	return errs
}

func validateLedger(cfg *LedgerConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}

	var errs []FieldError

	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{Field: "ledger.sqlite.path", Message: "path is required for sqlite backend"})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "ledger.backend",
			Message: fmt.Sprintf("invalid backend %q (must be memory or sqlite)", cfg.Backend),
		})
	}

	if cfg.BufferSize < 0 {
		errs = append(errs, FieldError{Field: "ledger.buffer_size", Message: "buffer size must not be negative"})
	}

	if cfg.Retention.Enabled {
		if cfg.Retention.Days <= 0 {
			errs = append(errs, FieldError{Field: "ledger.retention.days", Message: "retention days must be positive"})
		}
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "ledger.retention.schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}
