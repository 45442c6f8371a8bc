// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     server
// Description: HTTP and websocket surface for remote displays
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
	dclog "github.com/msto63/deepclock/foundation/core/log"
	"github.com/msto63/deepclock/internal/clock"
	"github.com/msto63/deepclock/pkg/core/config"
	"github.com/msto63/deepclock/pkg/core/health"
	"github.com/msto63/deepclock/pkg/core/logging"
	"github.com/msto63/deepclock/pkg/core/version"
)

// IntervalSource resolves the interval to serve and names its origin
type IntervalSource interface {
	Resolve(ctx context.Context) (clock.Interval, string, error)
}

// Server is the deepclock HTTP server
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	clock      *clock.Clock
	intervals  *cachedSource
	health     *health.Registry
	logger     *logging.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host            string
	Port            int
	PushInterval    time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            8088,
		PushInterval:    time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// ConfigFrom converts the [server] configuration section
func ConfigFrom(cfg config.ServerConfig) Config {
	return Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		PushInterval:    cfg.PushInterval.Duration,
		ReadTimeout:     cfg.ReadTimeout.Duration,
		WriteTimeout:    cfg.WriteTimeout.Duration,
		ShutdownTimeout: cfg.ShutdownTimeout.Duration,
		AllowedOrigins:  cfg.AllowedOrigins,
	}
}

// New creates a server. pingers are registered as health checks under
// their map key.
func New(cfg Config, c *clock.Clock, intervals IntervalSource, pingers map[string]health.Pinger, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.New("server")
	}
	defaults := DefaultConfig()
	if cfg.PushInterval <= 0 {
		cfg.PushInterval = defaults.PushInterval
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}

	s := &Server{
		mux:       http.NewServeMux(),
		clock:     c,
		intervals: newCachedSource(intervals, min(cfg.PushInterval, time.Second)),
		health:    health.NewRegistry("deepclock", version.Server),
		logger:    logger,
		config:    cfg,
	}

	s.health.Register(health.AlwaysHealthy("http"))
	for name, p := range pingers {
		s.health.Register(health.PingCheck(name, p, 2*time.Second))
	}

	api := &apiHandler{server: s}
	ws := newWebSocketHandler(s)

	s.mux.HandleFunc("GET /api/snapshot", api.snapshot)
	s.mux.HandleFunc("GET /api/interval", api.interval)
	s.mux.HandleFunc("GET /api/version", api.version)
	s.mux.Handle("GET /ws", ws)
	s.mux.Handle("GET /healthz", health.Handler(s.health, 5*time.Second))

	s.httpServer = &http.Server{
		Addr:         s.Address(),
		Handler:      loggingMiddleware(logger, s.mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Handler returns the root handler including request logging
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer, which
// the websocket upgrade needs for hijacking.
func (w *responseWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Hijack implements http.Hijacker for websocket upgrades
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Address())
	if err != nil {
		return dcerr.Wrap(err, "listen on "+s.Address()).
			WithCode(dcerr.CodeConnectionFailed).
			WithOperation("server.Run")
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	// Request contexts end with ctx so websocket streams stop on shutdown.
	s.httpServer.BaseContext = func(net.Listener) context.Context { return ctx }

	s.logger.Info("Starting deepclock server",
		"address", ln.Addr().String(),
		"push_interval", s.config.PushInterval,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping deepclock server")

	hits, misses, hitRate := s.intervals.cache.Stats()
	s.logger.Debug("Interval cache at shutdown",
		"hits", hits,
		"misses", misses,
		"hit_rate", hitRate,
		"entries", s.intervals.cache.Size(),
	)
	if s.logger.IsLevelEnabled(dclog.LevelDebug) {
		s.logger.Debug("Health at shutdown", "report", s.health.Check(ctx).String())
	}

	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address
func (s *Server) Address() string {
	return net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
}
