package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jittakal/logarchive/pkg/archive"
)

// Ensure implementation satisfies interface at compile time.
var _ archive.Observer = (*Mirror)(nil)

// Backend names.
const (
	BackendNone  = "none"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
	BackendAzure = "azure"
)

// Content types of mirrored objects.
const (
	ContentTypeGzip = "application/gzip"
	ContentTypeText = "text/plain; charset=utf-8"
)

// Uploader writes one object to a bucket or container.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Close() error
}

// Mirror copies every new archive to object storage.
// It is an archive.Observer: a failed upload never fails the archive.
type Mirror struct {
	backend  string
	uploader Uploader
	router   *KeyRouter
	logger   *slog.Logger
}

// NewMirror creates a mirror for an uploader.
func NewMirror(backend string, uploader Uploader, router *KeyRouter, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{
		backend:  backend,
		uploader: uploader,
		router:   router,
		logger:   logger.With("component", "mirror", "backend", backend),
	}
}

// Name returns the backend name.
func (m *Mirror) Name() string {
	return m.backend
}

// ArchiveCompleted uploads the archive described by evt.
func (m *Mirror) ArchiveCompleted(ctx context.Context, evt archive.Event) error {
	startTime := time.Now()

	file, err := os.Open(evt.ArchivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	size := evt.BytesWritten
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}

	contentType := ContentTypeText
	if evt.Compression.Enabled() {
		contentType = ContentTypeGzip
	}

	key := m.router.Route(evt.ArchivePath)
	if err := m.uploader.Upload(ctx, key, file, size, contentType); err != nil {
		return fmt.Errorf("failed to upload to %s: %w", m.router.URI(key), err)
	}

	m.logger.Info("mirrored archive",
		"archive", evt.ArchivePath,
		"location", m.router.URI(key),
		"size", size,
		"total_duration_ms", time.Since(startTime).Milliseconds(),
	)

	return nil
}

// Close releases the uploader.
func (m *Mirror) Close() error {
	m.logger.Info("closing mirror")
	return m.uploader.Close()
}

// MirrorConfig selects and configures a mirror backend.
type MirrorConfig struct {
	Backend string
	Prefix  string
	S3      S3Config
	GCS     GCSConfig
	Azure   AzureConfig
}

// Validate checks the configuration of the selected backend.
func (c MirrorConfig) Validate() error {
	switch c.Backend {
	case "", BackendNone:
		return nil
	case BackendS3:
		return c.S3.Validate()
	case BackendGCS:
		return c.GCS.Validate()
	case BackendAzure:
		return c.Azure.Validate()
	default:
		return fmt.Errorf("unsupported mirror backend: %s", c.Backend)
	}
}

// Enabled reports whether a backend is selected.
func (c MirrorConfig) Enabled() bool {
	return c.Backend != "" && c.Backend != BackendNone
}

// NewMirrorFromConfig builds the configured mirror. It returns nil, nil when
// mirroring is disabled.
func NewMirrorFromConfig(ctx context.Context, cfg MirrorConfig, router *KeyRouter, logger *slog.Logger) (*Mirror, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		uploader Uploader
		err      error
	)
	switch cfg.Backend {
	case BackendS3:
		uploader, err = NewS3Uploader(ctx, cfg.S3, logger)
	case BackendGCS:
		uploader, err = NewGCSUploader(ctx, cfg.GCS, logger)
	case BackendAzure:
		uploader, err = NewAzureUploader(cfg.Azure, logger)
	}
	if err != nil {
		return nil, err
	}

	return NewMirror(cfg.Backend, uploader, router, logger), nil
}

// Bucket returns the bucket or container name of the selected backend.
func (c MirrorConfig) Bucket() string {
	switch c.Backend {
	case BackendS3:
		return c.S3.Bucket
	case BackendGCS:
		return c.GCS.Bucket
	case BackendAzure:
		return c.Azure.ContainerName
	default:
		return ""
	}
}

// Protocol returns the URI scheme of the selected backend.
func (c MirrorConfig) Protocol() string {
	switch c.Backend {
	case BackendS3:
		return "s3"
	case BackendGCS:
		return "gs"
	case BackendAzure:
		return "wasbs"
	default:
		return "file"
	}
}
