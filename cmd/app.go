package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jittakal/logarchive/internal/config"
	"github.com/jittakal/logarchive/internal/config/dto"
	"github.com/jittakal/logarchive/internal/kafka"
	"github.com/jittakal/logarchive/internal/observability"
	"github.com/jittakal/logarchive/internal/policy"
	"github.com/jittakal/logarchive/internal/storage"
	"github.com/jittakal/logarchive/internal/template"
	"github.com/jittakal/logarchive/pkg/archive"
)

// app holds the components shared by every command.
type app struct {
	cfg      *dto.ApplicationConfig
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	sink     archive.Sink
	policy   *policy.Policy

	cleanupFuncs []func() error
}

// newApp loads configuration and builds the archive policy with its
// observers.
func newApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.NewLoader().Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := observability.NewLogger(config.LoggingConfig(cfg))
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  metrics,
		sink:     observability.NewLogSink(logger),
	}

	observers, err := a.observers(ctx)
	if err != nil {
		a.cleanup()
		return nil, err
	}

	p, err := policy.New(config.PolicyConfig(cfg),
		policy.WithSink(a.sink),
		policy.WithLogger(logger),
		policy.WithMetrics(metrics),
		policy.WithObservers(observers...),
	)
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("failed to create archive policy: %w", err)
	}
	a.policy = p

	logger.Info("archive policy ready",
		"compression_level", p.Config().CompressionLevel,
		"target_directory", p.Config().TargetDirectory,
		"retained_file_count_limit", p.Config().RetainedFileCountLimit,
		"observers", len(observers),
	)

	return a, nil
}

// observers builds the optional mirror and notifier.
func (a *app) observers(ctx context.Context) ([]archive.Observer, error) {
	var observers []archive.Observer

	mirrorConfig := config.MirrorConfig(a.cfg)
	if mirrorConfig.Enabled() {
		expander := template.NewExpander(nil,
			template.WithSink(a.sink),
			template.WithMetrics(a.metrics),
		)
		router := storage.NewKeyRouter(mirrorConfig.Protocol(), mirrorConfig.Bucket(), mirrorConfig.Prefix, expander)

		mirror, err := storage.NewMirrorFromConfig(ctx, mirrorConfig, router, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s mirror: %w", mirrorConfig.Backend, err)
		}
		a.addCleanup("mirror", mirror.Close)
		observers = append(observers, mirror)
	}

	notifierConfig := config.NotifierConfig(a.cfg)
	if notifierConfig.Enabled {
		notifier, err := kafka.NewNotifier(notifierConfig, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive notifier: %w", err)
		}
		a.addCleanup("notifier", notifier.Close)
		observers = append(observers, notifier)
	}

	return observers, nil
}

func (a *app) addCleanup(name string, fn func() error) {
	a.cleanupFuncs = append(a.cleanupFuncs, fn)
	a.logger.Debug("registered cleanup", "component", name)
}

// cleanup runs cleanup functions in reverse registration order.
func (a *app) cleanup() {
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		if err := a.cleanupFuncs[i](); err != nil {
			a.logger.Error("cleanup failed", "error", err)
		}
	}
	a.cleanupFuncs = nil
}
