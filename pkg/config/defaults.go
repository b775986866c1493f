package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "0.0.0.0:8000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 90 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 60 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = 1048576 // 1MB
	DefaultCORSMaxAge      = 3600

	// Backend defaults
	DefaultOllamaName       = "ollama"
	DefaultOllamaURL        = "http://ollama-runner:11434"
	DefaultOllamaTimeout    = 30 * time.Second
	DefaultBedrockName      = "bedrock"
	DefaultBedrockModel     = "bedrock-claude"
	DefaultBedrockTimeout   = 30 * time.Second
	DefaultBedrockLatency   = 100 * time.Millisecond
	DefaultBackendTimeout   = 30 * time.Second
	DefaultFallbackEnabled  = true
	DefaultModel            = "llama3"
	DefaultMaxTokens        = 100
	DefaultTemperature      = 0.7
	DefaultMaxIdleConns     = 100
	DefaultMaxIdleConnsHost = 10
	DefaultIdleConnTimeout  = 90 * time.Second
	DefaultProbeTimeout     = 5 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "inference"
	DefaultTracingService   = "genai-inference"
	DefaultTracingSampler   = "always"
	DefaultTracingRatio     = 1.0
	DefaultTracingExporter  = "otlp"
	DefaultTracingEndpoint  = "localhost:4317"
	DefaultTracingTimeout   = 10 * time.Second

	// Ledger defaults
	DefaultLedgerBackend        = "sqlite"
	DefaultLedgerBufferSize     = 1000
	DefaultLedgerSQLitePath     = "data/ledger.db"
	DefaultLedgerMaxOpenConns   = 10
	DefaultLedgerMaxIdleConns   = 5
	DefaultLedgerWALMode        = true
	DefaultLedgerBusyTimeout    = 5 * time.Second
	DefaultLedgerRetentionDays  = 30
	DefaultLedgerRetentionCron  = "0 3 * * *"
	DefaultLedgerRetentionState = false
)

// Default returns a configuration with every default applied, including the
// primary ollama backend and the bedrock fallback. Boolean settings whose
// default is true are only set here, so a YAML file decoded on top of the
// returned value can still turn them off.
func Default() *Config {
	cfg := &Config{
		Generation: GenerationConfig{
			FallbackEnabled: DefaultFallbackEnabled,
		},
		Server: ServerConfig{
			CORS: CORSConfig{Enabled: true},
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{Insecure: true},
		},
		Ledger: LedgerConfig{
			SQLite: SQLiteConfig{WALMode: DefaultLedgerWALMode},
			Retention: RetentionConfig{
				Enabled: DefaultLedgerRetentionState,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// DefaultBackends returns the primary ollama backend followed by the bedrock
// fallback.
func DefaultBackends() []BackendConfig {
	return []BackendConfig{
		{
			Name:    DefaultOllamaName,
			Type:    BackendTypeOllama,
			BaseURL: DefaultOllamaURL,
			Timeout: DefaultOllamaTimeout,
		},
		{
			Name:             DefaultBedrockName,
			Type:             BackendTypeBedrock,
			Model:            DefaultBedrockModel,
			Timeout:          DefaultBedrockTimeout,
			SimulatedLatency: DefaultBedrockLatency,
		},
	}
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyBackendDefaults(cfg)

	// Generation defaults
	if cfg.Generation.DefaultModel == "" {
		cfg.Generation.DefaultModel = DefaultModel
	}
	if cfg.Generation.DefaultMaxTokens == 0 {
		cfg.Generation.DefaultMaxTokens = DefaultMaxTokens
	}
	// DefaultTemperature is not filled here: zero is a valid temperature.
	// Default() supplies 0.7 before a document is decoded.

	// HTTP client defaults
	if cfg.HTTPClient.MaxIdleConns == 0 {
		cfg.HTTPClient.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.HTTPClient.MaxIdleConnsPerHost == 0 {
		cfg.HTTPClient.MaxIdleConnsPerHost = DefaultMaxIdleConnsHost
	}
	if cfg.HTTPClient.IdleConnTimeout == 0 {
		cfg.HTTPClient.IdleConnTimeout = DefaultIdleConnTimeout
	}

	if cfg.Health.ProbeTimeout == 0 {
		cfg.Health.ProbeTimeout = DefaultProbeTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	applyTracingDefaults(&cfg.Telemetry.Tracing)

	applyLedgerDefaults(&cfg.Ledger)
}

func applyServerDefaults(s *ServerConfig) {
	if s.ListenAddress == "" {
		s.ListenAddress = DefaultListenAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = DefaultRequestTimeout
	}
	if s.MaxHeaderBytes == 0 {
		s.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}

	cors := &s.CORS
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"*"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}
}

// applyBackendDefaults installs the default backends when none are
// configured and fills per-backend zero values.
func applyBackendDefaults(cfg *Config) {
	if len(cfg.Backends) == 0 {
		cfg.Backends = DefaultBackends()
		return
	}

	for i := range cfg.Backends {
		b := &cfg.Backends[i]
		if b.Name == "" {
			b.Name = b.Type
		}
		if b.Timeout == 0 {
			b.Timeout = DefaultBackendTimeout
		}
		switch b.Type {
		case BackendTypeOllama:
			if b.BaseURL == "" {
				b.BaseURL = DefaultOllamaURL
			}
		case BackendTypeBedrock:
			if b.Model == "" {
				b.Model = DefaultBedrockModel
			}
			if b.SimulatedLatency == 0 {
				b.SimulatedLatency = DefaultBedrockLatency
			}
		}
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.ServiceName == "" {
		t.ServiceName = DefaultTracingService
	}
	if t.Sampler == "" {
		t.Sampler = DefaultTracingSampler
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = DefaultTracingRatio
	}
	if t.Exporter == "" {
		t.Exporter = DefaultTracingExporter
	}
	if t.Endpoint == "" {
		t.Endpoint = DefaultTracingEndpoint
	}
	if t.Timeout == 0 {
		t.Timeout = DefaultTracingTimeout
	}
}

func applyLedgerDefaults(l *LedgerConfig) {
	if l.Backend == "" {
		l.Backend = DefaultLedgerBackend
	}
	if l.BufferSize == 0 {
		l.BufferSize = DefaultLedgerBufferSize
	}
	if l.SQLite.Path == "" {
		l.SQLite.Path = DefaultLedgerSQLitePath
	}
	if l.SQLite.MaxOpenConns == 0 {
		l.SQLite.MaxOpenConns = DefaultLedgerMaxOpenConns
	}
	if l.SQLite.MaxIdleConns == 0 {
		l.SQLite.MaxIdleConns = DefaultLedgerMaxIdleConns
	}
	if l.SQLite.BusyTimeout == 0 {
		l.SQLite.BusyTimeout = DefaultLedgerBusyTimeout
	}
	if l.Retention.Days == 0 {
		l.Retention.Days = DefaultLedgerRetentionDays
	}
	if l.Retention.Schedule == "" {
		l.Retention.Schedule = DefaultLedgerRetentionCron
	}
}
