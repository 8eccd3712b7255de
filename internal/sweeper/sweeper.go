package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jittakal/logarchive/internal/errors"
	"github.com/jittakal/logarchive/internal/policy"
	"github.com/jittakal/logarchive/pkg/archive"
)

// DefaultPattern matches the files a sweep considers when none is configured.
const DefaultPattern = "*.log"

// MetricsCollector defines metrics operations for sweeps.
type MetricsCollector interface {
	IncSweeps(status string)
	ObserveSweepDuration(duration float64)
	IncFilesRetired(status string)
}

// Config contains sweeper configuration.
type Config struct {
	// Directory holds the live log files.
	Directory string

	// Pattern is a filepath.Match glob selecting log files in Directory.
	Pattern string

	// RetainedLiveFiles is how many of the newest matching files are left
	// alone. The file currently being written is always among them.
	RetainedLiveFiles int

	// DeleteAfterArchive removes each original once it has been archived.
	DeleteAfterArchive bool
}

// Validate checks the sweeper configuration.
func (c Config) Validate() error {
	if c.Directory == "" {
		return &errors.ConfigError{Field: "sweep.directory", Reason: "directory is required"}
	}
	if _, err := filepath.Match(c.pattern(), ""); err != nil {
		return &errors.ConfigError{Field: "sweep.pattern", Reason: err.Error(), Err: err}
	}
	if c.RetainedLiveFiles < 1 {
		return &errors.ConfigError{
			Field:  "sweep.retained_live_files",
			Reason: fmt.Sprintf("must be at least 1, got %d", c.RetainedLiveFiles),
		}
	}
	return nil
}

func (c Config) pattern() string {
	if c.Pattern == "" {
		return DefaultPattern
	}
	return c.Pattern
}

// Report describes one sweep.
type Report struct {
	Directory string
	Matched   int
	Retired   []string
	Deleted   []string
	Errors    []error
}

// Err joins every per-file error, or returns nil.
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("sweep of %s: %d file(s) failed: %w", r.Directory, len(r.Errors), errors.Join(r.Errors...))
}

// Stats contains sweeper statistics.
type Stats struct {
	TotalRuns    int64
	TotalRetired int64
	TotalFailed  int64
	LastRunTime  time.Time
	LastRunError error
}

// archiveRecognizer is implemented by retirers whose archives may land in
// the swept directory.
type archiveRecognizer interface {
	IsArchive(name string) bool
}

// Sweeper retires finalized log files in a directory. It plays the part of
// the rotation mechanism: it decides which files are no longer live, hands
// each one to a Retirer and deletes the original once it is archived.
type Sweeper struct {
	config  Config
	retirer   archive.Retirer
	isArchive func(name string) bool
	logger    *slog.Logger
	metrics MetricsCollector

	mu sync.Mutex

	totalRuns    atomic.Int64
	totalRetired atomic.Int64
	totalFailed  atomic.Int64
	lastRunTime  atomic.Pointer[time.Time]
	lastRunError atomic.Pointer[error]
}

// New creates a sweeper.
func New(config Config, retirer archive.Retirer, logger *slog.Logger, metrics MetricsCollector) (*Sweeper, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if retirer == nil {
		return nil, fmt.Errorf("retirer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	config.Pattern = config.pattern()

	s := &Sweeper{
		config:    config,
		retirer:   retirer,
		isArchive: func(string) bool { return false },
		logger:    logger.With("component", "sweeper"),
		metrics:   metrics,
	}
	if r, ok := retirer.(archiveRecognizer); ok {
		s.isArchive = r.IsArchive
	}
	return s, nil
}

// Sweep retires every matching file except the newest RetainedLiveFiles.
// Files are retired oldest first. A file whose archive fails is kept and
// picked up again by the next sweep. Per-file failures are collected in the
// report; the returned error is set only when the directory cannot be listed,
// the context is cancelled, or another sweep is running.
func (s *Sweeper) Sweep(ctx context.Context) (*Report, error) {
	if !s.mu.TryLock() {
		return nil, errors.ErrSweeperBusy
	}
	defer s.mu.Unlock()

	start := time.Now()
	report, err := s.sweep(ctx)
	duration := time.Since(start)

	s.totalRuns.Add(1)
	now := time.Now()
	s.lastRunTime.Store(&now)

	runErr := err
	if runErr == nil && report != nil {
		runErr = report.Err()
	}
	if runErr != nil {
		s.lastRunError.Store(&runErr)
	} else {
		s.lastRunError.Store(nil)
	}

	if s.metrics != nil {
		status := "success"
		if runErr != nil {
			status = "error"
		}
		s.metrics.IncSweeps(status)
		s.metrics.ObserveSweepDuration(duration.Seconds())
	}

	if err != nil {
		s.logger.Error("sweep failed", "directory", s.config.Directory, "error", err)
		return report, err
	}

	if len(report.Retired) > 0 || len(report.Errors) > 0 {
		s.logger.Info("sweep completed",
			"directory", s.config.Directory,
			"matched", report.Matched,
			"retired", len(report.Retired),
			"deleted", len(report.Deleted),
			"failed", len(report.Errors),
			"duration_ms", duration.Milliseconds(),
		)
	} else {
		s.logger.Debug("sweep completed, nothing to retire",
			"directory", s.config.Directory,
			"matched", report.Matched,
		)
	}

	return report, nil
}

func (s *Sweeper) sweep(ctx context.Context) (*Report, error) {
	report := &Report{Directory: s.config.Directory}

	names, err := s.liveFiles()
	if err != nil {
		return report, fmt.Errorf("failed to list %s: %w", s.config.Directory, err)
	}
	report.Matched = len(names)

	if len(names) <= s.config.RetainedLiveFiles {
		return report, nil
	}

	policy.SortNewestFirst(names)
	finalized := names[s.config.RetainedLiveFiles:]
	slices.Reverse(finalized)

	for _, name := range finalized {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		path := filepath.Join(s.config.Directory, name)
		if err := s.retirer.OnRetire(ctx, path); err != nil {
			s.totalFailed.Add(1)
			report.Errors = append(report.Errors, fmt.Errorf("retire %s: %w", path, err))
			s.logger.Warn("failed to retire file, keeping original",
				"path", path,
				"retryable", errors.IsRetryable(err),
				"error", err,
			)
			if s.metrics != nil {
				s.metrics.IncFilesRetired("error")
			}
			continue
		}

		s.totalRetired.Add(1)
		report.Retired = append(report.Retired, path)
		if s.metrics != nil {
			s.metrics.IncFilesRetired("success")
		}

		if !s.config.DeleteAfterArchive {
			continue
		}
		if err := os.Remove(path); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("delete %s: %w", path, err))
			s.logger.Warn("failed to delete retired file", "path", path, "error", err)
			continue
		}
		report.Deleted = append(report.Deleted, path)
	}

	return report, nil
}

// liveFiles lists regular files in the directory matching the pattern.
func (s *Sweeper) liveFiles() ([]string, error) {
	entries, err := os.ReadDir(s.config.Directory)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if s.Matches(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Matches reports whether a file name is one the sweeper considers: it
// matches the pattern and is not an archive of the retirer.
func (s *Sweeper) Matches(name string) bool {
	base := filepath.Base(name)
	if s.isArchive(base) {
		return false
	}
	ok, _ := filepath.Match(s.config.Pattern, base)
	return ok
}

// Config returns the sweeper configuration.
func (s *Sweeper) Config() Config {
	return s.config
}

// Stats returns sweeper statistics.
func (s *Sweeper) Stats() Stats {
	stats := Stats{
		TotalRuns:    s.totalRuns.Load(),
		TotalRetired: s.totalRetired.Load(),
		TotalFailed:  s.totalFailed.Load(),
	}

	if t := s.lastRunTime.Load(); t != nil {
		stats.LastRunTime = *t
	}
	if e := s.lastRunError.Load(); e != nil {
		stats.LastRunError = *e
	}

	return stats
}
