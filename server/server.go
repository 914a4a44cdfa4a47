// Package server exposes the diagnostic pipeline over HTTP: image upload,
// diagnosis results, labels, metrics, and health, with optional basic-auth
// protection on the API surface.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// LogSkipPaths are paths excluded from request logging.
	LogSkipPaths []string
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    2 * time.Minute,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		LogSkipPaths:    []string{"/health"},
	}
}

// Server wires the diagnosis API, auth middleware, and request logging
// into one http.Server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	config     ServerConfig
	logger     *zap.Logger
	api        *API
	auth       *BasicAuth
}

// NewServer creates a configured Server. auth may be nil for an open
// server.
func NewServer(config ServerConfig, api *API, auth *BasicAuth, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: config,
		logger: logger,
		api:    api,
		auth:   auth,
	}
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      RequestLogger(logger, config.LogSkipPaths)(s.mux),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	logger.Info("http server created",
		zap.String("addr", addr),
		zap.Bool("auth_enabled", auth.Enabled()))
	return s
}

// setupRoutes registers all endpoints. The health check is never behind
// auth so orchestration probes keep working.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.api.HandleHealth)

	s.mux.Handle("/api/diagnose", s.protect(http.HandlerFunc(s.api.HandleDiagnose)))
	s.mux.Handle("/api/labels", s.protect(http.HandlerFunc(s.api.HandleLabels)))
	s.mux.Handle("/api/metrics", s.protect(http.HandlerFunc(s.api.HandleMetrics)))
	s.mux.Handle("/api/history", s.protect(http.HandlerFunc(s.api.HandleHistory)))
}

func (s *Server) protect(next http.Handler) http.Handler {
	if s.auth == nil {
		return next
	}
	return s.auth.Middleware(next)
}

// Handler returns the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start begins serving. It blocks until Shutdown is called or the
// listener fails.
func (s *Server) Start() error {
	s.logger.Info("http server starting", zap.String("addr", s.httpServer.Addr))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests
// within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown error: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
