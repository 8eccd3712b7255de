// Package server implements HTTP server for health checks and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// HealthChecker interface for checking component health.
type HealthChecker interface {
	Liveness() bool
	Readiness(ctx context.Context) bool
	IsHealthy() bool
	GetStatus() map[string]string
}

// Config contains listener settings. A zero port disables that server.
type Config struct {
	HealthPort    int
	LivenessPath  string
	ReadinessPath string
	MetricsPort   int
	MetricsPath   string
}

func (c Config) withDefaults() Config {
	if c.LivenessPath == "" {
		c.LivenessPath = "/health/live"
	}
	if c.ReadinessPath == "" {
		c.ReadinessPath = "/health/ready"
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
	return c
}

// Server represents the HTTP server for health and metrics.
type Server struct {
	healthServer  *http.Server
	metricsServer *http.Server
	logger        *slog.Logger
}

// NewServer creates a new HTTP server.
func NewServer(
	config Config,
	healthChecker HealthChecker,
	registry *prometheus.Registry,
	logger *slog.Logger,
) *Server {
	config = config.withDefaults()
	s := &Server{logger: logger}

	if config.HealthPort > 0 {
		healthMux := http.NewServeMux()
		healthMux.HandleFunc(config.LivenessPath, LivenessHandler(healthChecker, logger))
		healthMux.HandleFunc(config.ReadinessPath, ReadinessHandler(healthChecker, logger))

		s.healthServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", config.HealthPort),
			Handler:      healthMux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
	}

	if config.MetricsPort > 0 && registry != nil {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(config.MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

		s.metricsServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", config.MetricsPort),
			Handler:      metricsMux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
	}

	return s
}

func (s *Server) servers() []*http.Server {
	var servers []*http.Server
	if s.healthServer != nil {
		servers = append(servers, s.healthServer)
	}
	if s.metricsServer != nil {
		servers = append(servers, s.metricsServer)
	}
	return servers
}

// Start starts the configured HTTP servers in the background.
func (s *Server) Start() error {
	for _, srv := range s.servers() {
		go func() {
			s.logger.Info("starting HTTP server", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("HTTP server failed", "addr", srv.Addr, "error", err)
			}
		}()
	}
	return nil
}

// Run serves until ctx is done, then shuts down within gracePeriod.
// A listener failure is returned immediately.
func (s *Server) Run(ctx context.Context, gracePeriod time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range s.servers() {
		g.Go(func() error {
			s.logger.Info("starting HTTP server", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracePeriod)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown gracefully shuts down both servers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP servers")

	servers := s.servers()
	errChan := make(chan error, len(servers))

	for _, srv := range servers {
		go func() {
			errChan <- srv.Shutdown(ctx)
		}()
	}

	var lastErr error
	for range servers {
		if err := <-errChan; err != nil {
			s.logger.Error("error shutting down server", "error", err)
			lastErr = err
		}
	}

	return lastErr
}
