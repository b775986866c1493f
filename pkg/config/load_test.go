package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:9000"
  request_timeout: "45s"

backends:
  - name: local
    type: ollama
    base_url: "http://localhost:11434"
    timeout: "10s"
  - name: cloud
    type: bedrock
    simulated_latency: "20ms"

generation:
  default_model: "mistral"
  fallback_enabled: false

telemetry:
  logging:
    level: "debug"
    format: "text"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:9000" {
		t.Errorf("expected listen address 127.0.0.1:9000, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.RequestTimeout != 45*time.Second {
		t.Errorf("expected request timeout 45s, got %v", cfg.Server.RequestTimeout)
	}
	if len(cfg.Backends) != 2 {
		t.Fatalf("expected 2 backends, got %d", len(cfg.Backends))
	}
	if cfg.Backends[0].Name != "local" || cfg.Backends[0].Timeout != 10*time.Second {
		t.Errorf("unexpected primary backend %+v", cfg.Backends[0])
	}
	if cfg.Backends[1].Model != DefaultBedrockModel {
		t.Errorf("expected bedrock model default, got %q", cfg.Backends[1].Model)
	}
	if cfg.Backends[1].SimulatedLatency != 20*time.Millisecond {
		t.Errorf("expected simulated latency 20ms, got %v", cfg.Backends[1].SimulatedLatency)
	}
	if cfg.Generation.DefaultModel != "mistral" {
		t.Errorf("expected default model mistral, got %q", cfg.Generation.DefaultModel)
	}
	if cfg.Generation.FallbackEnabled {
		t.Error("expected fallback to be disabled by the file")
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("unexpected logging config %+v", cfg.Telemetry.Logging)
	}

	// Untouched sections keep their defaults.
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics to stay enabled")
	}
	if cfg.Health.ProbeTimeout != DefaultProbeTimeout {
		t.Errorf("expected probe timeout default, got %v", cfg.Health.ProbeTimeout)
	}
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(cfg.Backends) != 2 {
		t.Fatalf("expected default backends, got %d", len(cfg.Backends))
	}
	if cfg.Backends[0].Type != BackendTypeOllama || cfg.Backends[0].BaseURL != DefaultOllamaURL {
		t.Errorf("unexpected primary %+v", cfg.Backends[0])
	}
	if cfg.Backends[1].Type != BackendTypeBedrock {
		t.Errorf("unexpected fallback %+v", cfg.Backends[1])
	}
	if !cfg.Generation.FallbackEnabled {
		t.Error("expected fallback enabled by default")
	}
}

func TestParse_DefaultTemperature(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want float64
	}{
		{"omitted", "generation:\n  default_model: mistral\n", DefaultTemperature},
		{"explicit zero", "generation:\n  default_temperature: 0\n", 0},
		{"explicit value", "generation:\n  default_temperature: 0.2\n", 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := cfg.Generation.DefaultTemperature; got != tt.want {
				t.Errorf("DefaultTemperature = %v, want %v", got, tt.want)
			}
			if err := Validate(cfg); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "server: [unclosed"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
backends:
  - name: x
    type: vertex
telemetry:
  logging:
    format: xml
`))

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("expected 2 aggregated errors, got %d: %v", len(verr.Errors), verr.Errors)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"OLLAMA_URL":                        "http://gpu-box:11434",
		"BEDROCK_FALLBACK":                  "False",
		"DEFAULT_MODEL":                     "phi3",
		"INFERENCE_SERVER_LISTEN_ADDRESS":   ":9090",
		"INFERENCE_SERVER_REQUEST_TIMEOUT":  "5s",
		"INFERENCE_TELEMETRY_LOGGING_LEVEL": "warn",
		"INFERENCE_LEDGER_ENABLED":          "true",
		"INFERENCE_LEDGER_BACKEND":          "memory",
		"INFERENCE_LEDGER_RETENTION_DAYS":   "7",
		"INFERENCE_HEALTH_PROBE_TIMEOUT":    "not-a-duration",
	}

	cfg := Default()
	applyEnvOverrides(cfg, func(key string) string { return env[key] })

	if cfg.Backends[0].BaseURL != "http://gpu-box:11434" {
		t.Errorf("OLLAMA_URL not applied: %q", cfg.Backends[0].BaseURL)
	}
	if cfg.Generation.FallbackEnabled {
		t.Error("BEDROCK_FALLBACK=False should disable fallback")
	}
	if cfg.Generation.DefaultModel != "phi3" {
		t.Errorf("DEFAULT_MODEL not applied: %q", cfg.Generation.DefaultModel)
	}
	if cfg.Server.ListenAddress != ":9090" {
		t.Errorf("listen address not applied: %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("request timeout not applied: %v", cfg.Server.RequestTimeout)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("log level not applied: %q", cfg.Telemetry.Logging.Level)
	}
	if !cfg.Ledger.Enabled || cfg.Ledger.Backend != "memory" || cfg.Ledger.Retention.Days != 7 {
		t.Errorf("ledger overrides not applied: %+v", cfg.Ledger)
	}
	if cfg.Health.ProbeTimeout != DefaultProbeTimeout {
		t.Errorf("unparsable duration should be ignored, got %v", cfg.Health.ProbeTimeout)
	}
}

func TestApplyEnvOverrides_BedrockFallback(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"false", false},
		{"0", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := Default()
			applyEnvOverrides(cfg, func(key string) string {
				if key == "BEDROCK_FALLBACK" {
					return tt.value
				}
				return ""
			})
			if cfg.Generation.FallbackEnabled != tt.want {
				t.Errorf("BEDROCK_FALLBACK=%q: got %v, want %v", tt.value, cfg.Generation.FallbackEnabled, tt.want)
			}
		})
	}
}

func TestLoadConfigWithEnvOverrides_NoFile(t *testing.T) {
	t.Setenv("OLLAMA_URL", "http://127.0.0.1:11434")
	t.Setenv("DEFAULT_MODEL", "gemma")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backends[0].BaseURL != "http://127.0.0.1:11434" {
		t.Errorf("expected env URL, got %q", cfg.Backends[0].BaseURL)
	}
	if cfg.Generation.DefaultModel != "gemma" {
		t.Errorf("expected env model, got %q", cfg.Generation.DefaultModel)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	t.Setenv("OLLAMA_URL", "ftp://nowhere")

	_, err := LoadConfigWithEnvOverrides("")
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Errors[0].Field != "backends[0].base_url" {
		t.Errorf("unexpected field %q", verr.Errors[0].Field)
	}
}
