package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is the quiet period before a watch-triggered sweep.
const DefaultDebounceInterval = 500 * time.Millisecond

// WatcherConfig contains configuration for the directory watcher.
type WatcherConfig struct {
	// Directory is the live log directory to watch (not recursive).
	Directory string

	// Pattern selects file names whose creation means a rotation happened.
	Pattern string

	// Match overrides Pattern when set. Pass Sweeper.Matches so archives
	// written into the directory do not trigger sweeps.
	Match func(name string) bool

	// DebounceInterval is the time to wait after the last event before
	// triggering.
	DebounceInterval time.Duration
}

// Watcher triggers a callback when a rotation creates a new log file.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   WatcherConfig
	debounce *Debouncer

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a directory watcher.
func NewWatcher(config WatcherConfig, logger *slog.Logger) (*Watcher, error) {
	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = DefaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  watcher,
		logger:   logger.With("component", "sweep.watcher"),
		config:   config,
		debounce: NewDebouncer(config.DebounceInterval),
	}, nil
}

// Watch blocks until ctx is cancelled, calling onRotate (debounced) whenever
// a file matching the pattern is created or renamed into the directory.
// The underlying watcher is closed when Watch returns.
func (w *Watcher) Watch(ctx context.Context, onRotate func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		w.watcher.Close()

		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	if err := w.watcher.Add(w.config.Directory); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.config.Directory, err)
	}

	w.logger.Info("directory watcher started",
		"directory", w.config.Directory,
		"pattern", w.config.Pattern,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("directory watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("rotation detected",
				"path", event.Name,
				"op", event.Op.String(),
			)

			w.debounce.Trigger(func() {
				if err := onRotate(); err != nil {
					w.logger.Error("watch-triggered sweep failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("directory watcher error", "error", err)
		}
	}
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.config.Match != nil {
		return w.config.Match(event.Name)
	}
	ok, _ := filepath.Match(w.config.Pattern, filepath.Base(event.Name))
	return ok
}

// Debouncer collects rapid events and runs the latest callback only after a
// quiet period.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopped  bool
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules callback, replacing any pending one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		stopped := d.stopped
		d.mu.Unlock()

		if cb != nil && !stopped {
			cb()
		}
	})
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
