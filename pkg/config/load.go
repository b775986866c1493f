package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// Values missing from the file keep their defaults. The result is validated
// but not modified by environment variables; use LoadConfigWithEnvOverrides
// for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML on top of the defaults and applies defaults to any
// fields the document left empty. It does not validate.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	// Backends from the document replace the default pair entirely.
	cfg.Backends = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies environment
// variable overrides. An empty path skips the file and starts from the
// defaults, which is how the service runs inside a container.
//
// The loading sequence is:
// 1. Load YAML from file (or defaults)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	applyEnvOverrides(cfg, os.Getenv)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. OLLAMA_URL, BEDROCK_FALLBACK and DEFAULT_MODEL are the
// variables the service has always honoured; everything else uses the
// INFERENCE_SECTION_FIELD convention.
func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	if val := getenv("OLLAMA_URL"); val != "" {
		for i := range cfg.Backends {
			if cfg.Backends[i].Type == BackendTypeOllama {
				cfg.Backends[i].BaseURL = val
				break
			}
		}
	}
	if val := getenv("BEDROCK_FALLBACK"); val != "" {
		// Only a literal "true" (any case) keeps fallback on.
		cfg.Generation.FallbackEnabled = strings.EqualFold(strings.TrimSpace(val), "true")
	}
	if val := getenv("DEFAULT_MODEL"); val != "" {
		cfg.Generation.DefaultModel = val
	}

	// Server overrides
	if val := getenv("INFERENCE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	setDuration(getenv("INFERENCE_SERVER_REQUEST_TIMEOUT"), &cfg.Server.RequestTimeout)
	setDuration(getenv("INFERENCE_SERVER_SHUTDOWN_TIMEOUT"), &cfg.Server.ShutdownTimeout)
	setBool(getenv("INFERENCE_SERVER_CORS_ENABLED"), &cfg.Server.CORS.Enabled)

	// Generation overrides
	setInt(getenv("INFERENCE_GENERATION_DEFAULT_MAX_TOKENS"), &cfg.Generation.DefaultMaxTokens)
	setDuration(getenv("INFERENCE_HEALTH_PROBE_TIMEOUT"), &cfg.Health.ProbeTimeout)

	// Telemetry overrides
	if val := getenv("INFERENCE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := getenv("INFERENCE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	setBool(getenv("INFERENCE_TELEMETRY_LOGGING_REDACT_PII"), &cfg.Telemetry.Logging.RedactPII)
	setBool(getenv("INFERENCE_TELEMETRY_METRICS_ENABLED"), &cfg.Telemetry.Metrics.Enabled)
	setBool(getenv("INFERENCE_TELEMETRY_TRACING_ENABLED"), &cfg.Telemetry.Tracing.Enabled)
	if val := getenv("INFERENCE_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := getenv("INFERENCE_TELEMETRY_TRACING_EXPORTER"); val != "" {
		cfg.Telemetry.Tracing.Exporter = val
	}

	// Ledger overrides
	setBool(getenv("INFERENCE_LEDGER_ENABLED"), &cfg.Ledger.Enabled)
	if val := getenv("INFERENCE_LEDGER_BACKEND"); val != "" {
		cfg.Ledger.Backend = val
	}
	if val := getenv("INFERENCE_LEDGER_SQLITE_PATH"); val != "" {
		cfg.Ledger.SQLite.Path = val
	}
	setBool(getenv("INFERENCE_LEDGER_RETENTION_ENABLED"), &cfg.Ledger.Retention.Enabled)
	setInt(getenv("INFERENCE_LEDGER_RETENTION_DAYS"), &cfg.Ledger.Retention.Days)
	if val := getenv("INFERENCE_LEDGER_RETENTION_SCHEDULE"); val != "" {
		cfg.Ledger.Retention.Schedule = val
	}
}

func setDuration(val string, dst *time.Duration) {
	if val == "" {
		return
	}
	if d, err := time.ParseDuration(val); err == nil {
		*dst = d
	}
}

func setBool(val string, dst *bool) {
	if val == "" {
		return
	}
	if b, err := strconv.ParseBool(val); err == nil {
		*dst = b
	}
}

func setInt(val string, dst *int) {
	if val == "" {
		return
	}
	if i, err := strconv.Atoi(val); err == nil {
		*dst = i
	}
}
