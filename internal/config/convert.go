package config

import (
	"github.com/jittakal/logarchive/internal/config/dto"
	"github.com/jittakal/logarchive/internal/kafka"
	"github.com/jittakal/logarchive/internal/observability"
	"github.com/jittakal/logarchive/internal/policy"
	"github.com/jittakal/logarchive/internal/storage"
	"github.com/jittakal/logarchive/internal/sweeper"
	"github.com/jittakal/logarchive/pkg/archive"
)

// PolicyConfig maps the archive section to policy options.
func PolicyConfig(c *dto.ApplicationConfig) policy.Config {
	return policy.Config{
		CompressionLevel:       archive.CompressionLevel(c.Archive.CompressionLevel),
		TargetDirectory:        c.Archive.TargetDirectory,
		RetainedFileCountLimit: c.Archive.RetainedFileCountLimit,
	}
}

// SweeperConfig maps the sweep section to sweeper options.
func SweeperConfig(c *dto.ApplicationConfig) sweeper.Config {
	return sweeper.Config{
		Directory:          c.Sweep.Directory,
		Pattern:            c.Sweep.Pattern,
		RetainedLiveFiles:  c.Sweep.RetainedLiveFiles,
		DeleteAfterArchive: c.Sweep.DeleteAfterArchive,
	}
}

// WatcherConfig maps the sweep section to watcher options.
func WatcherConfig(c *dto.ApplicationConfig) sweeper.WatcherConfig {
	return sweeper.WatcherConfig{
		Directory:        c.Sweep.Directory,
		Pattern:          c.Sweep.Pattern,
		DebounceInterval: c.Sweep.DebounceInterval(),
	}
}

// MirrorConfig maps the mirror section to storage options.
func MirrorConfig(c *dto.ApplicationConfig) storage.MirrorConfig {
	m := c.Mirror
	return storage.MirrorConfig{
		Backend: m.Backend,
		Prefix:  m.Prefix,
		S3: storage.S3Config{
			Bucket:       m.S3.Bucket,
			Region:       m.S3.Region,
			Endpoint:     m.S3.Endpoint,
			UsePathStyle: m.S3.UsePathStyle,
			SSEEnabled:   m.S3.SSEEnabled,
			SSEKMSKeyID:  m.S3.SSEKMSKeyID,
		},
		GCS: storage.GCSConfig{
			Bucket:               m.GCS.Bucket,
			ProjectID:            m.GCS.ProjectID,
			CredentialsFile:      m.GCS.CredentialsFile,
			CredentialsJSON:      m.GCS.CredentialsJSON,
			Endpoint:             m.GCS.Endpoint,
			UseDefaultCredential: m.GCS.UseDefaultCredential,
		},
		Azure: storage.AzureConfig{
			AccountName:   m.Azure.AccountName,
			AccountKey:    m.Azure.AccountKey,
			ContainerName: m.Azure.Container,
			Endpoint:      m.Azure.Endpoint,
		},
	}
}

// NotifierConfig maps the notify section to notifier options.
func NotifierConfig(c *dto.ApplicationConfig) kafka.NotifierConfig {
	n := c.Notify
	return kafka.NotifierConfig{
		Enabled:          n.Enabled,
		BootstrapServers: n.BootstrapServers,
		Topic:            n.Topic,
		Source:           n.Source,
		Security: kafka.SecurityConfig{
			SecurityProtocol:   n.SecurityProtocol,
			SASLMechanism:      n.SASLMechanism,
			SASLUsername:       n.SASLUsername,
			SASLPassword:       n.SASLPassword,
			AWSRegion:          n.AWSRegion,
			InsecureSkipVerify: n.InsecureSkipVerify,
		},
	}
}

// LoggingConfig maps the logging section to logger options.
func LoggingConfig(c *dto.ApplicationConfig) observability.LoggingConfig {
	return observability.LoggingConfig{
		Level:   c.Observability.Logging.Level,
		Format:  c.Observability.Logging.Format,
		Output:  c.Observability.Logging.Output,
		Service: c.Application.Name,
		Version: c.Application.Version,
	}
}
