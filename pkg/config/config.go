package config

import "time"

// Config is the root configuration of the inference router.
// It is built once at startup and never mutated afterwards.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server"`

	// Backends lists the inference backends in priority order. The first
	// entry is the primary; later entries are fallbacks.
	Backends []BackendConfig `yaml:"backends"`

	// Generation configures request defaults and fallback behaviour.
	Generation GenerationConfig `yaml:"generation"`

	// HTTPClient configures the shared outbound connection pool.
	HTTPClient HTTPClientConfig `yaml:"http_client"`

	// Health configures backend liveness probing.
	Health HealthConfig `yaml:"health"`

	// Telemetry configures logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Ledger configures the generation ledger.
	Ledger LedgerConfig `yaml:"ledger"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address the server binds to (e.g., "0.0.0.0:8000").
	ListenAddress string `yaml:"listen_address"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds the handling of a single request, including
	// every backend attempt.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of a /generate request body.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS configures cross-origin resource sharing.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig configures cross-origin resource sharing.
type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// Backend types understood by the registry.
const (
	BackendTypeOllama  = "ollama"
	BackendTypeBedrock = "bedrock"
)

// BackendConfig configures one inference backend.
type BackendConfig struct {
	// Name identifies the backend in results, logs and metrics.
	Name string `yaml:"name"`

	// Type selects the adapter: "ollama" or "bedrock".
	Type string `yaml:"type"`

	// BaseURL is the server root for network backends.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single generation call to this backend.
	Timeout time.Duration `yaml:"timeout"`

	// Disabled excludes a fallback backend from generation. The primary
	// backend is always attempted.
	Disabled bool `yaml:"disabled"`

	// Model overrides the reported model for backends that choose their own
	// (bedrock).
	Model string `yaml:"model"`

	// SimulatedLatency is the wait of the placeholder bedrock backend.
	SimulatedLatency time.Duration `yaml:"simulated_latency"`
}

// Enabled reports whether the backend takes part in generation.
func (b BackendConfig) Enabled() bool {
	return !b.Disabled
}

// GenerationConfig configures request defaults and fallback behaviour.
type GenerationConfig struct {
	// DefaultModel is used when a request does not name a model.
	DefaultModel string `yaml:"default_model"`

	// FallbackEnabled allows backends after the primary to be attempted.
	FallbackEnabled bool `yaml:"fallback_enabled"`

	// DefaultMaxTokens is used when a request omits max_tokens.
	DefaultMaxTokens int `yaml:"default_max_tokens"`

	// DefaultTemperature is used when a request omits temperature.
	DefaultTemperature float64 `yaml:"default_temperature"`
}

// HTTPClientConfig configures the shared outbound connection pool.
type HTTPClientConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// HealthConfig configures backend liveness probing.
type HealthConfig struct {
	// ProbeTimeout bounds each backend probe.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`

	// AddSource includes file and line in log records.
	AddSource bool `yaml:"add_source"`

	// RedactPII masks API keys, emails, bearer tokens and passwords in
	// string log fields.
	RedactPII bool `yaml:"redact_pii"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`

	// DurationBuckets are the histogram buckets, in seconds, for request and
	// attempt latency. Empty means the built-in buckets.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	// Enabled controls whether spans are recorded.
	Enabled bool `yaml:"enabled"`

	// Sampler is "always", "never" or "ratio".
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces sampled by the "ratio" sampler.
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter is "otlp" (gRPC) or "none". With "none" spans are recorded
	// in-process but never exported.
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP collector address (e.g., "localhost:4317").
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export call.
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `yaml:"service_name"`
}

// LedgerConfig configures the generation ledger.
type LedgerConfig struct {
	// Enabled turns on recording of generation outcomes.
	Enabled bool `yaml:"enabled"`

	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// BufferSize is the capacity of the asynchronous record queue.
	BufferSize int `yaml:"buffer_size"`

	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig configures the SQLite ledger store.
type SQLiteConfig struct {
	Path         string        `yaml:"path"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	WALMode      bool          `yaml:"wal_mode"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig configures ledger pruning.
type RetentionConfig struct {
	// Enabled turns on scheduled pruning.
	Enabled bool `yaml:"enabled"`

	// Days is how long records are kept.
	Days int `yaml:"days"`

	// Schedule is a cron expression (e.g., "0 3 * * *").
	Schedule string `yaml:"schedule"`
}
