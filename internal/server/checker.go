package server

import (
	"context"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jittakal/logarchive/internal/sweeper"
)

// Ensure implementation satisfies interface at compile time.
var _ HealthChecker = (*SweepChecker)(nil)

// SweepSource exposes the sweeper state the checker reports.
type SweepSource interface {
	Config() sweeper.Config
	Stats() sweeper.Stats
}

// SweepChecker reports daemon health from sweeper statistics.
//
// The daemon is ready while the live log directory is reachable. It is
// healthy while the most recent sweep ended without failures.
type SweepChecker struct {
	source   SweepSource
	stopping atomic.Bool
	now      func() time.Time
}

// NewSweepChecker creates a checker for source.
func NewSweepChecker(source SweepSource) *SweepChecker {
	return &SweepChecker{source: source, now: time.Now}
}

// MarkStopping makes readiness fail during shutdown.
func (c *SweepChecker) MarkStopping() {
	c.stopping.Store(true)
}

// Liveness reports whether the process is alive.
func (c *SweepChecker) Liveness() bool {
	return true
}

// Readiness reports whether sweeps can run.
func (c *SweepChecker) Readiness(ctx context.Context) bool {
	if c.stopping.Load() || ctx.Err() != nil {
		return false
	}
	return c.directoryError() == nil
}

// IsHealthy reports whether the last sweep succeeded.
func (c *SweepChecker) IsHealthy() bool {
	return c.source.Stats().LastRunError == nil
}

// GetStatus returns per-check details.
func (c *SweepChecker) GetStatus() map[string]string {
	stats := c.source.Stats()
	status := map[string]string{
		"sweep_directory": "ok",
		"total_runs":      strconv.FormatInt(stats.TotalRuns, 10),
		"total_retired":   strconv.FormatInt(stats.TotalRetired, 10),
		"total_failed":    strconv.FormatInt(stats.TotalFailed, 10),
		"last_sweep":      "never",
	}

	if err := c.directoryError(); err != nil {
		status["sweep_directory"] = err.Error()
	}
	if !stats.LastRunTime.IsZero() {
		status["last_sweep"] = stats.LastRunTime.UTC().Format(time.RFC3339)
		status["last_sweep_age"] = c.now().Sub(stats.LastRunTime).Truncate(time.Second).String()
	}
	if stats.LastRunError != nil {
		status["last_error"] = stats.LastRunError.Error()
	}

	return status
}

func (c *SweepChecker) directoryError() error {
	dir := c.source.Config().Directory
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "stat", Path: dir, Err: os.ErrInvalid}
	}
	return nil
}
