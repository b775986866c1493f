// Package server runs the HTTP surface of the inference router.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"genai-hq/inference/pkg/config"
	"genai-hq/inference/pkg/proxy/handlers"
	"genai-hq/inference/pkg/proxy/middleware"
	"genai-hq/inference/pkg/telemetry/metrics"
	"genai-hq/inference/pkg/telemetry/tracing"
)

// Server is the HTTP server for generation traffic.
type Server struct {
	config    *config.Config
	generator handlers.Generator
	health    handlers.HealthReporter
	metrics   *metrics.Collector
	ledger    handlers.LedgerRecorder
	version   string

	httpServer   *http.Server
	listener     net.Listener
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request metrics in c and serves them at
// telemetry.metrics.path.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// WithLedger records every generation in l.
func WithLedger(l handlers.LedgerRecorder) Option {
	return func(s *Server) {
		s.ledger = l
	}
}

// WithVersion sets the version reported by GET /.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a server. cfg must already be validated.
func NewServer(cfg *config.Config, gen handlers.Generator, reporter handlers.HealthReporter, opts ...Option) *Server {
	s := &Server{
		config:       cfg,
		generator:    gen,
		health:       reporter,
		version:      "dev",
		shutdownChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens on server.listen_address and blocks until ctx is cancelled,
// Stop is called or the listener fails. It then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	srvCfg := s.config.Server
	ln, err := net.Listen("tcp", srvCfg.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", srvCfg.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    srvCfg.ReadTimeout,
		WriteTimeout:   srvCfg.WriteTimeout,
		IdleTimeout:    srvCfg.IdleTimeout,
		MaxHeaderBytes: srvCfg.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting inference server", "address", ln.Addr().String())

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Stop asks a running Start to shut down.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown gracefully stops the server, waiting up to
// server.shutdown_timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		timeout := s.config.Server.ShutdownTimeout
		slog.Info("initiating graceful shutdown", "timeout", timeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("inference server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(s.routes(),
		middleware.RecoveryMiddleware,
		middleware.LoggingMiddleware,
		middleware.RequestIDMiddleware,
		tracing.HTTPMiddleware,
		middleware.CORSMiddleware(middleware.CORSConfigFrom(s.config.Server.CORS)),
		middleware.TimeoutMiddleware(s.config.Server.RequestTimeout),
	)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	genOpts := []handlers.GenerateOption{
		handlers.WithMaxBodyBytes(s.config.Server.MaxBodyBytes),
	}
	if s.metrics != nil {
		genOpts = append(genOpts, handlers.WithRequestRecorder(s.metrics))
	}
	if s.ledger != nil {
		genOpts = append(genOpts, handlers.WithLedger(s.ledger))
	}

	var metricsPath string
	if s.metrics != nil && s.config.Telemetry.Metrics.Enabled {
		metricsPath = s.config.Telemetry.Metrics.Path
		mux.Handle(metricsPath, s.metrics.Handler())
	}

	mux.Handle("/generate", handlers.NewGenerateHandler(s.generator, s.config.Generation, genOpts...))
	mux.Handle("/health", handlers.NewHealthHandler(s.health))
	mux.Handle("/", handlers.NewRootHandler(s.version, metricsPath))

	return mux
}
