// Package httpapi exposes the fitting and contrast calls of §6 as a small JSON-over-HTTP service,
// adapted from the teacher's internal/api/server.go listener/graceful-shutdown shape but without
// its gRPC transport (see DESIGN.md for why gRPC code generation was not reproduced by hand).
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kestrelstack/survfit-engine/internal/config"
	"github.com/kestrelstack/survfit-engine/internal/history"
	"github.com/kestrelstack/survfit-engine/internal/telemetry"
)

// Server wraps the HTTP listener implementation and lifecycle helpers.
type Server struct {
	cfg        config.ServerConfig
	logger     *slog.Logger
	history    history.Store
	latency    *telemetry.LatencyTracker
	httpServer *http.Server
	listener   net.Listener
}

// NewServer constructs an HTTP server bound to the configured address. historyStore may be nil,
// in which case warm-start recording is a no-op.
func NewServer(cfg config.ServerConfig, logger *slog.Logger, historyStore history.Store) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if historyStore == nil {
		historyStore = history.NoopStore{}
	}

	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Address, err)
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		history:  historyStore,
		latency:  telemetry.NewLatencyTracker(512),
		listener: lis,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/fit", s.handleFit)
	mux.HandleFunc("/v1/contrast", s.handleContrast)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s, nil
}

// Start serves incoming HTTP requests until Shutdown is invoked.
func (s *Server) Start() error {
	if s.httpServer == nil || s.listener == nil {
		return fmt.Errorf("server not initialised")
	}
	return s.httpServer.Serve(s.listener)
}

// Shutdown attempts a graceful shutdown, respecting ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) {
	if s.httpServer == nil {
		return
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("http server shutdown", slog.Any("error", err))
	}
}

// Address exposes the bound listener address (useful for tests).
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// GracefulTimeout returns the configured graceful timeout duration.
func (s *Server) GracefulTimeout() time.Duration {
	return s.cfg.GracefulTimeout
}
