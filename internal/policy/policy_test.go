package policy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/jittakal/logarchive/internal/errors"
	"github.com/jittakal/logarchive/pkg/archive"
)

// mockSink records diagnostic lines.
type mockSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *mockSink) Printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
}

func (s *mockSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// mockMetricsCollector implements MetricsCollector for testing
type mockMetricsCollector struct {
	archived          map[string]int
	bytes             map[string]float64
	durations         int
	pruned            map[string]int
	notifications     map[string]int
	unsupportedTokens []string
}

func newMockMetricsCollector() *mockMetricsCollector {
	return &mockMetricsCollector{
		archived:      make(map[string]int),
		bytes:         make(map[string]float64),
		pruned:        make(map[string]int),
		notifications: make(map[string]int),
	}
}

func (m *mockMetricsCollector) IncFilesArchived(compression string, status string) {
	m.archived[compression+"/"+status]++
}

func (m *mockMetricsCollector) ObserveArchiveBytes(kind string, bytes float64) {
	m.bytes[kind] += bytes
}

func (m *mockMetricsCollector) ObserveArchiveDuration(compression string, duration float64) {
	m.durations++
}

func (m *mockMetricsCollector) IncFilesPruned(status string) {
	m.pruned[status]++
}

func (m *mockMetricsCollector) IncObserverNotifications(observer string, status string) {
	m.notifications[observer+"/"+status]++
}

func (m *mockMetricsCollector) IncUnsupportedTokens(name string) {
	m.unsupportedTokens = append(m.unsupportedTokens, name)
}

// mockObserver records events and optionally fails.
type mockObserver struct {
	name   string
	err    error
	events []archive.Event
}

func (o *mockObserver) Name() string {
	return o.name
}

func (o *mockObserver) ArchiveCompleted(ctx context.Context, evt archive.Event) error {
	o.events = append(o.events, evt)
	return o.err
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func readArchive(t *testing.T, path string, compressed bool) []byte {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open(%s) error = %v", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		zr, err := gzip.NewReader(f)
		if err != nil {
			t.Fatalf("gzip.NewReader() error = %v", err)
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return data
}

func TestNew_ConstructionInvariants(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantErr   bool
		wantField string
		wantIs    error
	}{
		{
			name:      "no compression and no target directory",
			config:    Config{CompressionLevel: archive.CompressionNone},
			wantErr:   true,
			wantField: "target_directory",
		},
		{
			name:      "empty compression and no target directory",
			config:    Config{},
			wantErr:   true,
			wantField: "target_directory",
		},
		{
			name: "retention with templated target directory",
			config: Config{
				CompressionLevel:       archive.CompressionFastest,
				TargetDirectory:        "/archive/{Date:yyyy}",
				RetainedFileCountLimit: 5,
			},
			wantErr:   true,
			wantField: "target_directory",
			wantIs:    errors.ErrTemplatedRetention,
		},
		{
			name: "retention with unknown token is still templated",
			config: Config{
				CompressionLevel:       archive.CompressionFastest,
				TargetDirectory:        "/archive/{Foo:bar}",
				RetainedFileCountLimit: 5,
			},
			wantErr:   true,
			wantField: "target_directory",
			wantIs:    errors.ErrTemplatedRetention,
		},
		{
			name: "retention without compression",
			config: Config{
				CompressionLevel:       archive.CompressionNone,
				TargetDirectory:        "/archive",
				RetainedFileCountLimit: 5,
			},
			wantErr:   true,
			wantField: "retained_file_count_limit",
		},
		{
			name: "negative retention",
			config: Config{
				CompressionLevel:       archive.CompressionFastest,
				RetainedFileCountLimit: -1,
			},
			wantErr:   true,
			wantField: "retained_file_count_limit",
		},
		{
			name:      "unknown compression level",
			config:    Config{CompressionLevel: "brotli"},
			wantErr:   true,
			wantField: "compression_level",
		},
		{
			name:   "compression only",
			config: Config{CompressionLevel: archive.CompressionFastest},
		},
		{
			name:   "target directory only",
			config: Config{CompressionLevel: archive.CompressionNone, TargetDirectory: "/archive"},
		},
		{
			name:   "templated target without retention",
			config: Config{TargetDirectory: "/archive/{Date:yyyy}"},
		},
		{
			name: "retention with fixed target",
			config: Config{
				CompressionLevel:       archive.CompressionOptimal,
				TargetDirectory:        "/archive",
				RetainedFileCountLimit: 1,
			},
		},
		{
			name:   "case-insensitive level",
			config: Config{CompressionLevel: "Smallest-Size"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if p == nil {
					t.Fatal("New() returned nil policy")
				}
				return
			}

			var cfgErr *errors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error should be *ConfigError, got %T", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error should wrap %v", tt.wantIs)
			}
			if errors.IsRetryable(err) {
				t.Error("config errors should not be retryable")
			}
		})
	}
}

func TestNew_NormalizesCompressionLevel(t *testing.T) {
	p, err := New(Config{CompressionLevel: "SMALLEST"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := p.Config().CompressionLevel; got != archive.CompressionSmallestSize {
		t.Errorf("CompressionLevel = %q, want %q", got, archive.CompressionSmallestSize)
	}
}

func TestPolicy_RoundTrip(t *testing.T) {
	large := bytes.Repeat([]byte("2026-10-19T12:00:00Z INFO request served path=/api/v1/items status=200\n"), 20000)

	contents := map[string][]byte{
		"empty":  {},
		"small":  []byte("hello archive\n"),
		"binary": {0x00, 0xff, 0x1f, 0x8b, 0x08, 0x00, '\n', '\r'},
		"large":  large,
	}

	for _, level := range archive.SupportedCompressionLevels() {
		for name, content := range contents {
			t.Run(fmt.Sprintf("%s/%s", level, name), func(t *testing.T) {
				dir := t.TempDir()
				src := filepath.Join(dir, "logs", "app.log")
				writeFile(t, src, content)

				p, err := New(Config{
					CompressionLevel: level,
					TargetDirectory:  filepath.Join(dir, "archive"),
				})
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}

				result, err := p.Archive(context.Background(), src)
				if err != nil {
					t.Fatalf("Archive() error = %v", err)
				}

				got := readArchive(t, result.ArchivePath, level.Enabled())
				if !bytes.Equal(got, content) {
					t.Errorf("archived content differs: got %d bytes, want %d bytes", len(got), len(content))
				}
				if result.BytesRead != int64(len(content)) {
					t.Errorf("BytesRead = %d, want %d", result.BytesRead, len(content))
				}

				info, err := os.Stat(result.ArchivePath)
				if err != nil {
					t.Fatalf("Stat() error = %v", err)
				}
				if result.BytesWritten != info.Size() {
					t.Errorf("BytesWritten = %d, want file size %d", result.BytesWritten, info.Size())
				}
			})
		}
	}
}

func TestPolicy_CompressionLevelsDiffer(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")

	var content bytes.Buffer
	for i := 0; i < 50000; i++ {
		fmt.Fprintf(&content, "line %d value=%d\n", i, i*7919%1000)
	}
	writeFile(t, src, content.Bytes())

	sizes := make(map[archive.CompressionLevel]int64)
	for _, level := range []archive.CompressionLevel{archive.CompressionFastest, archive.CompressionSmallestSize} {
		p, err := New(Config{CompressionLevel: level, TargetDirectory: filepath.Join(dir, string(level))})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		result, err := p.Archive(context.Background(), src)
		if err != nil {
			t.Fatalf("Archive() error = %v", err)
		}
		sizes[level] = result.BytesWritten
	}

	if sizes[archive.CompressionSmallestSize] > sizes[archive.CompressionFastest] {
		t.Errorf("smallest_size (%d bytes) should not be larger than fastest (%d bytes)",
			sizes[archive.CompressionSmallestSize], sizes[archive.CompressionFastest])
	}
}

func TestPolicy_Naming(t *testing.T) {
	tests := []struct {
		name  string
		level archive.CompressionLevel
		want  string
	}{
		{"compressed", archive.CompressionFastest, "app20261019.log.gz"},
		{"optimal", archive.CompressionOptimal, "app20261019.log.gz"},
		{"uncompressed", archive.CompressionNone, "app20261019.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "app20261019.log")
			writeFile(t, src, []byte("content"))

			p, err := New(Config{CompressionLevel: tt.level, TargetDirectory: filepath.Join(dir, "out")})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			result, err := p.Archive(context.Background(), src)
			if err != nil {
				t.Fatalf("Archive() error = %v", err)
			}
			if got := filepath.Base(result.ArchivePath); got != tt.want {
				t.Errorf("archive name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPolicy_GzipHeader(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")
	writeFile(t, src, []byte("content"))

	modTime := time.Date(2026, 10, 18, 23, 59, 59, 0, time.UTC)
	if err := os.Chtimes(src, modTime, modTime); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	p, err := New(Config{CompressionLevel: archive.CompressionFastest})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	result, err := p.Archive(context.Background(), src)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	f, err := os.Open(result.ArchivePath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	defer zr.Close()

	if zr.Name != "app.log" {
		t.Errorf("gzip header Name = %q, want app.log", zr.Name)
	}
	if !zr.ModTime.Equal(modTime) {
		t.Errorf("gzip header ModTime = %v, want %v", zr.ModTime, modTime)
	}
}

func TestPolicy_Destination(t *testing.T) {
	now := time.Date(2026, 3, 8, 9, 4, 5, 0, time.UTC)

	t.Run("beside source", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "app.log")
		writeFile(t, src, []byte("content"))

		p, err := New(Config{CompressionLevel: archive.CompressionFastest})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		result, err := p.Archive(context.Background(), src)
		if err != nil {
			t.Fatalf("Archive() error = %v", err)
		}

		if result.Directory != dir {
			t.Errorf("Directory = %q, want %q", result.Directory, dir)
		}
		if _, err := os.Stat(filepath.Join(dir, "app.log.gz")); err != nil {
			t.Errorf("archive should exist beside source: %v", err)
		}
	})

	t.Run("templated target", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "logs", "app.log")
		writeFile(t, src, []byte("content"))

		p, err := New(Config{
			CompressionLevel: archive.CompressionNone,
			TargetDirectory:  filepath.Join(dir, "archive", "{UtcDate:yyyy}", "{UtcDate:MM}"),
		}, WithClock(func() time.Time { return now }))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		result, err := p.Archive(context.Background(), src)
		if err != nil {
			t.Fatalf("Archive() error = %v", err)
		}

		want := filepath.Join(dir, "archive", "2026", "03", "app.log")
		if result.ArchivePath != want {
			t.Errorf("ArchivePath = %q, want %q", result.ArchivePath, want)
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("archive should exist in expanded folder: %v", err)
		}

		entries, err := os.ReadDir(filepath.Join(dir, "logs"))
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("source folder should only contain the source, got %d entries", len(entries))
		}
	})

	t.Run("unsupported token stays literal", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "app.log")
		writeFile(t, src, []byte("content"))
		sink := &mockSink{}
		metrics := newMockMetricsCollector()

		p, err := New(Config{
			CompressionLevel: archive.CompressionFastest,
			TargetDirectory:  filepath.Join(dir, "{Foo:bar}"),
		}, WithSink(sink), WithMetrics(metrics))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		result, err := p.Archive(context.Background(), src)
		if err != nil {
			t.Fatalf("Archive() error = %v", err)
		}

		if result.Directory != filepath.Join(dir, "{Foo:bar}") {
			t.Errorf("Directory = %q", result.Directory)
		}
		lines := sink.Lines()
		if len(lines) != 1 || lines[0] != "unsupported token: Foo" {
			t.Errorf("sink lines = %v, want [unsupported token: Foo]", lines)
		}
		if len(metrics.unsupportedTokens) != 1 || metrics.unsupportedTokens[0] != "Foo" {
			t.Errorf("unsupported token metrics = %v", metrics.unsupportedTokens)
		}
	})
}

func TestPolicy_OverwritesExistingArchive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")
	target := filepath.Join(dir, "archive")
	writeFile(t, src, []byte("short"))
	writeFile(t, filepath.Join(target, "app.log"), []byte("a much longer previous archive body"))

	p, err := New(Config{CompressionLevel: archive.CompressionNone, TargetDirectory: target})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.OnRetire(context.Background(), src); err != nil {
		t.Fatalf("OnRetire() error = %v", err)
	}

	if got := readArchive(t, filepath.Join(target, "app.log"), false); string(got) != "short" {
		t.Errorf("archive content = %q, want %q", got, "short")
	}
}

func TestPolicy_TransferFailures(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "missing.log")
		sink := &mockSink{}
		metrics := newMockMetricsCollector()

		p, err := New(Config{CompressionLevel: archive.CompressionFastest},
			WithSink(sink), WithMetrics(metrics))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		err = p.OnRetire(context.Background(), src)
		if err == nil {
			t.Fatal("OnRetire() should fail for a missing source")
		}

		var transferErr *errors.TransferError
		if !errors.As(err, &transferErr) {
			t.Fatalf("error should be *TransferError, got %T", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Error("error should unwrap to fs.ErrNotExist")
		}
		if errors.IsRetryable(err) {
			t.Error("a vanished source should not be retryable")
		}

		lines := sink.Lines()
		if len(lines) != 1 || !strings.HasPrefix(lines[0], "Error while archiving file "+src+": ") {
			t.Errorf("sink lines = %v", lines)
		}
		if metrics.archived["fastest/error"] != 1 {
			t.Errorf("error metric = %d, want 1", metrics.archived["fastest/error"])
		}
		if _, err := os.Stat(src + ".gz"); !os.IsNotExist(err) {
			t.Error("no archive should be left behind")
		}
	})

	t.Run("directory source", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "app.log")
		if err := os.Mkdir(src, 0755); err != nil {
			t.Fatalf("Mkdir() error = %v", err)
		}

		p, err := New(Config{CompressionLevel: archive.CompressionFastest})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if err := p.OnRetire(context.Background(), src); !errors.Is(err, errors.ErrNotRegularFile) {
			t.Errorf("OnRetire() error = %v, want ErrNotRegularFile", err)
		}
	})

	t.Run("destination is source", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "app.log")
		writeFile(t, src, []byte("precious"))

		p, err := New(Config{CompressionLevel: archive.CompressionNone, TargetDirectory: dir})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if err := p.OnRetire(context.Background(), src); !errors.Is(err, errors.ErrSameFile) {
			t.Errorf("OnRetire() error = %v, want ErrSameFile", err)
		}
		if got := readArchive(t, src, false); string(got) != "precious" {
			t.Errorf("source content = %q, should be untouched", got)
		}
	})

	t.Run("destination blocked by file", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "app.log")
		blocker := filepath.Join(dir, "blocker")
		writeFile(t, src, []byte("content"))
		writeFile(t, blocker, []byte("not a directory"))

		p, err := New(Config{
			CompressionLevel: archive.CompressionFastest,
			TargetDirectory:  filepath.Join(blocker, "archive"),
		})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		err = p.OnRetire(context.Background(), src)
		var transferErr *errors.TransferError
		if !errors.As(err, &transferErr) {
			t.Fatalf("error should be *TransferError, got %v", err)
		}
		if transferErr.Operation != "mkdir" {
			t.Errorf("Operation = %q, want mkdir", transferErr.Operation)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "app.log")
		writeFile(t, src, []byte("content"))

		p, err := New(Config{CompressionLevel: archive.CompressionFastest})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := p.OnRetire(ctx, src); !errors.Is(err, context.Canceled) {
			t.Errorf("OnRetire() error = %v, want context.Canceled", err)
		}
		if _, err := os.Stat(src + ".gz"); !os.IsNotExist(err) {
			t.Error("no archive should be written after cancellation")
		}
	})
}

func TestPolicy_Observers(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")
	writeFile(t, src, []byte("content"))

	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	ok := &mockObserver{name: "s3"}
	failing := &mockObserver{name: "kafka", err: fmt.Errorf("broker unavailable")}
	sink := &mockSink{}
	metrics := newMockMetricsCollector()

	p, err := New(Config{CompressionLevel: archive.CompressionOptimal},
		WithObservers(failing, nil, ok),
		WithSink(sink),
		WithMetrics(metrics),
		WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := p.OnRetire(context.Background(), src); err != nil {
		t.Fatalf("OnRetire() should not fail on observer errors: %v", err)
	}

	for _, o := range []*mockObserver{ok, failing} {
		if len(o.events) != 1 {
			t.Fatalf("observer %s received %d events, want 1", o.name, len(o.events))
		}
		evt := o.events[0]
		if evt.SourcePath != src || evt.ArchivePath != src+".gz" {
			t.Errorf("observer %s event paths = %q, %q", o.name, evt.SourcePath, evt.ArchivePath)
		}
		if evt.Compression != archive.CompressionOptimal {
			t.Errorf("event compression = %q", evt.Compression)
		}
		if !evt.ArchivedAt.Equal(now) {
			t.Errorf("event ArchivedAt = %v, want %v", evt.ArchivedAt, now)
		}
	}

	lines := sink.Lines()
	if len(lines) != 1 || !strings.Contains(lines[0], "kafka") {
		t.Errorf("sink lines = %v, want one line naming kafka", lines)
	}
	if metrics.notifications["s3/success"] != 1 || metrics.notifications["kafka/error"] != 1 {
		t.Errorf("notification metrics = %v", metrics.notifications)
	}
	if metrics.archived["optimal/success"] != 1 {
		t.Errorf("archived metrics = %v", metrics.archived)
	}
}

func TestPolicy_ObserversSkipPrunedArchive(t *testing.T) {
	srcDir := t.TempDir()
	archiveDir := filepath.Join(t.TempDir(), "archive")
	for _, name := range []string{"app20261018.log.gz", "app20261019.log.gz"} {
		writeFile(t, filepath.Join(archiveDir, name), []byte("archived"))
	}
	src := filepath.Join(srcDir, "app20261001.log")
	writeFile(t, src, []byte("late rotation"))

	observer := &mockObserver{name: "s3"}
	metrics := newMockMetricsCollector()
	p, err := New(Config{
		CompressionLevel:       archive.CompressionFastest,
		TargetDirectory:        archiveDir,
		RetainedFileCountLimit: 2,
	}, WithObservers(observer), WithMetrics(metrics))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result, err := p.Archive(context.Background(), src)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if !result.ArchivePruned() {
		t.Fatalf("ArchivePruned() = false, deleted = %v", result.Prune.Deleted)
	}
	if _, err := os.Stat(result.ArchivePath); !os.IsNotExist(err) {
		t.Errorf("archive %s should have been pruned", result.ArchivePath)
	}
	if len(observer.events) != 0 {
		t.Errorf("observer received %d events for a pruned archive", len(observer.events))
	}
	if len(metrics.notifications) != 0 {
		t.Errorf("notification metrics = %v, want none", metrics.notifications)
	}

	// A newer file is kept and observed as usual.
	newer := filepath.Join(srcDir, "app20261020.log")
	writeFile(t, newer, []byte("current"))
	result, err = p.Archive(context.Background(), newer)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if result.ArchivePruned() {
		t.Error("ArchivePruned() = true for the newest archive")
	}
	if len(observer.events) != 1 {
		t.Errorf("observer received %d events, want 1", len(observer.events))
	}
}

func TestPolicy_IsArchive(t *testing.T) {
	compressed, err := New(Config{CompressionLevel: archive.CompressionFastest})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	plain, err := New(Config{CompressionLevel: archive.CompressionNone, TargetDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name   string
		policy *Policy
		file   string
		want   bool
	}{
		{"compressed archive", compressed, "app.log.gz", true},
		{"upper-case suffix", compressed, "app.log.GZ", true},
		{"live file", compressed, "app.log", false},
		{"no compression", plain, "app.log.gz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.IsArchive(tt.file); got != tt.want {
				t.Errorf("IsArchive(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestPolicy_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	sink := &mockSink{}

	p, err := New(Config{
		CompressionLevel:       archive.CompressionFastest,
		RetainedFileCountLimit: 1,
	}, WithSink(sink))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	files := []struct {
		name    string
		content string
	}{
		{"log-20261017.txt", "first file\n"},
		{"log-20261018.txt", "second file\n"},
		{"log-20261019.txt", "third file\n"},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		writeFile(t, path, []byte(f.content))
		if err := p.OnRetire(context.Background(), path); err != nil {
			t.Fatalf("OnRetire(%s) error = %v", f.name, err)
		}
	}

	archives, err := filepath.Glob(filepath.Join(dir, "*.gz"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(archives) != 1 {
		t.Fatalf("got %d archives, want 1: %v", len(archives), archives)
	}
	if filepath.Base(archives[0]) != "log-20261019.txt.gz" {
		t.Errorf("retained archive = %s, want log-20261019.txt.gz", archives[0])
	}
	if got := readArchive(t, archives[0], true); string(got) != files[2].content {
		t.Errorf("retained archive content = %q, want %q", got, files[2].content)
	}
	if lines := sink.Lines(); len(lines) != 0 {
		t.Errorf("unexpected diagnostics: %v", lines)
	}
}
