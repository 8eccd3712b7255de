package policy

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jittakal/logarchive/internal/errors"
	"github.com/jittakal/logarchive/internal/template"
	"github.com/jittakal/logarchive/pkg/archive"
)

// Ensure implementation satisfies interface at compile time.
var _ archive.Retirer = (*Policy)(nil)

// MetricsCollector defines metrics operations for archiving.
type MetricsCollector interface {
	IncFilesArchived(compression string, status string)
	ObserveArchiveBytes(kind string, bytes float64)
	ObserveArchiveDuration(compression string, duration float64)
	IncFilesPruned(status string)
	IncObserverNotifications(observer string, status string)
}

// Result describes one archived file.
type Result struct {
	SourcePath   string
	ArchivePath  string
	Directory    string
	Compression  archive.CompressionLevel
	BytesRead    int64
	BytesWritten int64
	Duration     time.Duration

	// Prune is nil when retention is disabled.
	Prune *PruneReport
}

// ArchivePruned reports whether retention deleted the new archive itself,
// which happens when its name sorts older than the retained archives.
func (r *Result) ArchivePruned() bool {
	return r.Prune != nil && slices.Contains(r.Prune.Deleted, r.ArchivePath)
}

// Event converts the result into an observer event.
func (r *Result) Event(at time.Time) archive.Event {
	evt := archive.Event{
		SourcePath:   r.SourcePath,
		ArchivePath:  r.ArchivePath,
		Directory:    r.Directory,
		Compression:  r.Compression,
		BytesRead:    r.BytesRead,
		BytesWritten: r.BytesWritten,
		ArchivedAt:   at,
	}
	if r.Prune != nil && len(r.Prune.Deleted) > 0 {
		evt.Pruned = append([]string(nil), r.Prune.Deleted...)
	}
	return evt
}

// Policy archives retired log files and enforces archive retention.
// A Policy holds only immutable state. Callers must not archive into the
// same destination folder concurrently.
type Policy struct {
	config    Config
	templated bool
	registry  *template.Registry
	expander  *template.Expander
	sink      archive.Sink
	logger    *slog.Logger
	metrics   MetricsCollector
	observers []archive.Observer
	now       func() time.Time
	remove    func(name string) error
}

// Option configures a Policy.
type Option func(*Policy)

// WithSink sets the diagnostic sink.
func WithSink(sink archive.Sink) Option {
	return func(p *Policy) {
		p.sink = sink
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Policy) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector. If it also implements
// template.MetricsCollector, unsupported tokens are counted too.
func WithMetrics(metrics MetricsCollector) Option {
	return func(p *Policy) {
		p.metrics = metrics
	}
}

// WithObservers appends post-archive observers.
func WithObservers(observers ...archive.Observer) Option {
	return func(p *Policy) {
		for _, o := range observers {
			if o != nil {
				p.observers = append(p.observers, o)
			}
		}
	}
}

// WithRegistry sets the token registry used for TargetDirectory.
func WithRegistry(registry *template.Registry) Option {
	return func(p *Policy) {
		p.registry = registry
	}
}

// WithClock sets the time source used for token expansion and events.
func WithClock(now func() time.Time) Option {
	return func(p *Policy) {
		p.now = now
	}
}

// New validates config and creates a Policy.
func New(config Config, opts ...Option) (*Policy, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.CompressionLevel, _ = archive.ParseCompressionLevel(string(config.CompressionLevel))

	p := &Policy{
		config:    config,
		templated: template.IsTemplated(config.TargetDirectory),
		sink:      discardSink{},
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
		remove:    os.Remove,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sink == nil {
		p.sink = discardSink{}
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}

	expanderOpts := []template.Option{
		template.WithSink(p.sink),
		template.WithClock(p.now),
	}
	if tm, ok := p.metrics.(template.MetricsCollector); ok {
		expanderOpts = append(expanderOpts, template.WithMetrics(tm))
	}
	p.expander = template.NewExpander(p.registry, expanderOpts...)

	return p, nil
}

// Config returns the policy configuration.
func (p *Policy) Config() Config {
	return p.config
}

// OnRetire archives the file at path. It implements archive.Retirer.
func (p *Policy) OnRetire(ctx context.Context, path string) error {
	_, err := p.Archive(ctx, path)
	return err
}

// Archive copies or compresses the file at path into the destination folder,
// prunes excess archives and notifies observers.
//
// Transfer failures are written to the sink and returned as
// *errors.TransferError. Pruning and observer failures are never returned.
func (p *Policy) Archive(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	level := p.config.CompressionLevel.String()

	result, err := p.archive(ctx, path)
	if err != nil {
		p.sink.Printf("Error while archiving file %s: %v", path, err)
		p.logger.Error("failed to archive file",
			"path", path,
			"error", err,
		)
		if p.metrics != nil {
			p.metrics.IncFilesArchived(level, "error")
		}
		return nil, err
	}

	result.Duration = time.Since(start)

	p.logger.Info("archived file",
		"path", path,
		"archive", result.ArchivePath,
		"compression", level,
		"bytes_read", result.BytesRead,
		"bytes_written", result.BytesWritten,
		"duration_ms", result.Duration.Milliseconds(),
	)

	if p.metrics != nil {
		p.metrics.IncFilesArchived(level, "success")
		p.metrics.ObserveArchiveBytes("read", float64(result.BytesRead))
		p.metrics.ObserveArchiveBytes("written", float64(result.BytesWritten))
		p.metrics.ObserveArchiveDuration(level, result.Duration.Seconds())
	}

	p.notify(ctx, result)

	return result, nil
}

func (p *Policy) archive(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errors.TransferError{Operation: "start", Path: path, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &errors.TransferError{Operation: "stat", Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &errors.TransferError{Operation: "stat", Path: path, Err: errors.ErrNotRegularFile}
	}

	dir := p.Destination(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &errors.TransferError{Operation: "mkdir", Path: dir, Err: err}
	}

	target := filepath.Join(dir, p.config.ArchiveName(filepath.Base(path)))
	if existing, err := os.Stat(target); err == nil && os.SameFile(info, existing) {
		return nil, &errors.TransferError{Operation: "copy", Path: path, Err: errors.ErrSameFile}
	}

	read, written, err := transfer(path, target, info, p.config.CompressionLevel)
	if err != nil {
		return nil, err
	}

	result := &Result{
		SourcePath:   path,
		ArchivePath:  target,
		Directory:    dir,
		Compression:  p.config.CompressionLevel,
		BytesRead:    read,
		BytesWritten: written,
	}

	if p.config.RetainedFileCountLimit > 0 && !p.templated {
		result.Prune = p.Prune(dir)
	}

	return result, nil
}

// IsArchive reports whether name is a compressed archive this policy could
// have produced. Without compression archives keep their source names and
// nothing is recognized.
func (p *Policy) IsArchive(name string) bool {
	return p.config.CompressionLevel.Enabled() &&
		strings.HasSuffix(strings.ToLower(name), ArchiveSuffix)
}

// Destination resolves the archive folder for a source file.
func (p *Policy) Destination(path string) string {
	if p.config.TargetDirectory == "" {
		return filepath.Dir(path)
	}
	return p.expander.Expand(p.config.TargetDirectory)
}

func (p *Policy) notify(ctx context.Context, result *Result) {
	if len(p.observers) == 0 {
		return
	}
	if result.ArchivePruned() {
		p.logger.Warn("archive pruned by retention, skipping observers",
			"archive", result.ArchivePath,
			"retained", result.Prune.Retained,
		)
		return
	}

	evt := result.Event(p.now())
	for _, o := range p.observers {
		if err := o.ArchiveCompleted(ctx, evt); err != nil {
			obsErr := &errors.ObserverError{Observer: o.Name(), Path: result.ArchivePath, Err: err}
			p.sink.Printf("Error while notifying %s of archive %s: %v", o.Name(), result.ArchivePath, err)
			p.logger.Warn("archive observer failed",
				"observer", o.Name(),
				"archive", result.ArchivePath,
				"error", obsErr,
			)
			if p.metrics != nil {
				p.metrics.IncObserverNotifications(o.Name(), "error")
			}
			continue
		}
		if p.metrics != nil {
			p.metrics.IncObserverNotifications(o.Name(), "success")
		}
	}
}

type discardSink struct{}

func (discardSink) Printf(string, ...any) {}
