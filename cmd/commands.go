package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/jittakal/logarchive/internal/config"
	"github.com/jittakal/logarchive/internal/errors"
	"github.com/jittakal/logarchive/internal/server"
	"github.com/jittakal/logarchive/internal/sweeper"
)

// runRetire archives each file and deletes it once archived.
func runRetire(ctx context.Context, cfgPath string, args []string, stderr io.Writer) error {
	flags := flag.NewFlagSet("retire", flag.ContinueOnError)
	flags.SetOutput(stderr)
	keep := flags.Bool("keep", false, "keep the original files after archiving")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("retire: no files given")
	}

	a, err := newApp(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.cleanup()

	var errs []error
	for _, path := range flags.Args() {
		result, err := a.policy.Archive(ctx, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if !*keep {
			if err := os.Remove(path); err != nil {
				errs = append(errs, fmt.Errorf("failed to delete original: %w", err))
				continue
			}
		}

		fmt.Println(result.ArchivePath)
	}

	return errors.Join(errs...)
}

// runSweep runs one sweep of the configured directory.
func runSweep(ctx context.Context, cfgPath string) error {
	a, err := newApp(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.cleanup()

	s, err := sweeper.New(config.SweeperConfig(a.cfg), a.policy, a.logger, a.metrics)
	if err != nil {
		return err
	}

	report, err := s.Sweep(ctx)
	if err != nil {
		return err
	}
	for _, path := range report.Retired {
		fmt.Println(path)
	}
	return report.Err()
}

// runDaemon sweeps on a schedule and on rotation until ctx is cancelled.
func runDaemon(ctx context.Context, cfgPath string) error {
	a, err := newApp(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.cleanup()

	cfg := a.cfg
	s, err := sweeper.New(config.SweeperConfig(cfg), a.policy, a.logger, a.metrics)
	if err != nil {
		return err
	}

	checker := server.NewSweepChecker(s)
	httpConfig := server.Config{
		LivenessPath:  cfg.Observability.Health.LivenessPath,
		ReadinessPath: cfg.Observability.Health.ReadinessPath,
		MetricsPath:   cfg.Observability.Metrics.Path,
	}
	if cfg.Observability.Health.Enabled {
		httpConfig.HealthPort = cfg.Observability.Health.Port
	}
	if cfg.Observability.Metrics.Enabled {
		httpConfig.MetricsPort = cfg.Observability.Metrics.Port
	}
	httpServer := server.NewServer(httpConfig, checker, a.registry, a.logger)

	a.logger.Info("starting logarchive",
		"version", cfg.Application.Version,
		"environment", cfg.Application.Environment,
		"directory", cfg.Sweep.Directory,
		"schedule", cfg.Sweep.Schedule,
		"watch", cfg.Sweep.Watch,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Run(gctx, cfg.Shutdown.GracePeriod())
	})

	scheduler := sweeper.NewScheduler(s, cfg.Sweep.Schedule, a.logger)
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	if cfg.Sweep.Watch {
		watcherConfig := config.WatcherConfig(cfg)
		watcherConfig.Match = s.Matches
		watcher, err := sweeper.NewWatcher(watcherConfig, a.logger)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return watcher.Watch(gctx, func() error {
				_, err := s.Sweep(gctx)
				if errors.Is(err, errors.ErrSweeperBusy) {
					return nil
				}
				return err
			})
		})
	}

	// Catch up on files rotated while the daemon was down.
	g.Go(func() error {
		if _, err := s.Sweep(gctx); err != nil && !errors.Is(err, errors.ErrSweeperBusy) {
			a.logger.Warn("initial sweep failed", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("initiating graceful shutdown")
		checker.MarkStopping()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	a.logger.Info("logarchive stopped")
	return nil
}
