package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Ensure implementation satisfies interface at compile time.
var _ Uploader = (*GCSUploader)(nil)

// GCSConfig contains Google Cloud Storage configuration.
type GCSConfig struct {
	Bucket               string
	ProjectID            string
	CredentialsFile      string
	CredentialsJSON      string
	Endpoint             string
	UseDefaultCredential bool
}

// Validate checks required GCS settings.
func (c GCSConfig) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("gcs bucket is required")
	}
	return nil
}

// GCSUploader uploads archives to Google Cloud Storage.
// It supports service account file, JSON, and default credentials.
type GCSUploader struct {
	client *storage.Client
	bucket string
	logger *slog.Logger
}

// NewGCSUploader creates a new Google Cloud Storage uploader.
func NewGCSUploader(ctx context.Context, cfg GCSConfig, logger *slog.Logger) (*GCSUploader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := storage.NewClient(ctx, gcsClientOptions(cfg, logger)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	logger.Info("GCS uploader created",
		"bucket", cfg.Bucket,
		"project_id", cfg.ProjectID,
	)

	return &GCSUploader{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// gcsClientOptions picks the authentication method.
func gcsClientOptions(cfg GCSConfig, logger *slog.Logger) []option.ClientOption {
	var clientOpts []option.ClientOption
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}

	switch {
	case cfg.UseDefaultCredential:
		logger.Info("using default GCP credentials")
	case cfg.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
		logger.Info("using GCP credentials from JSON string")
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
		logger.Info("using GCP credentials from file", "file", cfg.CredentialsFile)
	default:
		logger.Info("no explicit credentials provided, using default GCP credentials")
	}

	return clientOpts
}

// Upload uploads body as object key.
func (u *GCSUploader) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	w := u.client.Bucket(u.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	written, err := io.Copy(w, body)
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}

	u.logger.Debug("uploaded object to GCS",
		"bucket", u.bucket,
		"object", key,
		"bytes_written", written,
	)
	return nil
}

// Close closes the GCS client.
func (u *GCSUploader) Close() error {
	if u.client != nil {
		return u.client.Close()
	}
	return nil
}
