// Package server exposes the estimator over HTTP.
//
// Routes live under /api/v1 (stage listing, prediction, total, reset), with
// /health and an optional Prometheus /metrics endpoint alongside.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rshade/smartcarbon/internal/engine"
	"github.com/rshade/smartcarbon/internal/logging"
	"github.com/rshade/smartcarbon/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Host            string
	Port            int
	EnableMetrics   bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:            "127.0.0.1",
		Port:            8080,
		EnableMetrics:   true,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// Persister saves the store after it changes.
type Persister func(ctx context.Context, s *store.Store) error

// Server serves the estimator API.
type Server struct {
	config    *Config
	estimator *engine.Estimator
	store     *store.Store
	persist   Persister

	metrics    *Metrics
	gatherer   prometheus.Gatherer
	baseLogger zerolog.Logger
	started    time.Time

	server *http.Server
}

// New creates a server that registers metrics globally.
func New(ctx context.Context, config *Config, est *engine.Estimator, st *store.Store) (*Server, error) {
	return NewWithRegistry(ctx, config, est, st, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewWithRegistry creates a server with its own metrics registry.
func NewWithRegistry(
	ctx context.Context,
	config *Config,
	est *engine.Estimator,
	st *store.Store,
	registerer prometheus.Registerer,
	gatherer prometheus.Gatherer,
) (*Server, error) {
	if est == nil || st == nil {
		return nil, errors.New("server requires an estimator and a store")
	}
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		config:     config,
		estimator:  est,
		store:      st,
		metrics:    NewMetricsWithRegistry(registerer),
		gatherer:   gatherer,
		baseLogger: logging.ComponentLogger(logging.FromContext(ctx), "server"),
		started:    time.Now(),
	}
	s.metrics.Observe(st.Snapshot())
	return s, nil
}

// SetPersister installs a hook run after every prediction or reset.
func (s *Server) SetPersister(p Persister) {
	s.persist = p
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.loggingMiddleware)

	api.HandleFunc("/stages", s.listStages).Methods(http.MethodGet)
	api.HandleFunc("/stages", s.resetStages).Methods(http.MethodDelete)
	api.HandleFunc("/stages/{stage}", s.getStage).Methods(http.MethodGet)
	api.HandleFunc("/stages/{stage}/catalog", s.getCatalog).Methods(http.MethodGet)
	api.HandleFunc("/stages/{stage}/predict", s.predict).Methods(http.MethodPost)
	api.HandleFunc("/total", s.total).Methods(http.MethodGet)

	if s.config.EnableMetrics && s.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	router.HandleFunc("/health", s.healthCheck).Methods(http.MethodGet)
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	s.baseLogger.Info().
		Str("addr", s.server.Addr).
		Bool("metrics", s.config.EnableMetrics).
		Msg("starting smartcarbon server")

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.baseLogger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
