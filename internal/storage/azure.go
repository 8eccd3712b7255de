package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// Ensure implementation satisfies interface at compile time.
var _ Uploader = (*AzureUploader)(nil)

// AzureConfig contains Azure Blob Storage configuration.
type AzureConfig struct {
	AccountName   string
	AccountKey    string
	ContainerName string
	Endpoint      string
}

// Validate checks required Azure settings.
func (c AzureConfig) Validate() error {
	if c.AccountName == "" {
		return fmt.Errorf("azure account name is required")
	}
	if c.AccountKey == "" {
		return fmt.Errorf("azure account key is required")
	}
	if c.ContainerName == "" {
		return fmt.Errorf("azure container is required")
	}
	return nil
}

// ConnectionString builds the storage account connection string.
func (c AzureConfig) ConnectionString() string {
	if c.Endpoint != "" {
		return fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s;BlobEndpoint=%s",
			c.AccountName, c.AccountKey, c.Endpoint)
	}
	return fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s;EndpointSuffix=core.windows.net",
		c.AccountName, c.AccountKey)
}

// AzureUploader uploads archives to Azure Blob Storage.
type AzureUploader struct {
	client        *azblob.Client
	containerName string
	logger        *slog.Logger
}

// NewAzureUploader creates a new Azure Blob uploader.
func NewAzureUploader(cfg AzureConfig, logger *slog.Logger) (*AzureUploader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure client: %w", err)
	}

	logger.Info("Azure uploader created",
		"container", cfg.ContainerName,
		"account", cfg.AccountName,
	)

	return &AzureUploader{
		client:        client,
		containerName: cfg.ContainerName,
		logger:        logger,
	}, nil
}

// Upload streams body into blob key.
func (u *AzureUploader) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := u.client.UploadStream(ctx, u.containerName, key, body, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload to Azure Blob: %w", err)
	}

	u.logger.Debug("uploaded blob to Azure",
		"container", u.containerName,
		"blob", key,
		"size", size,
	)
	return nil
}

// Close closes the Azure uploader.
func (u *AzureUploader) Close() error {
	return nil
}
