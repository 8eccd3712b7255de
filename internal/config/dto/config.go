package dto

import (
	"fmt"
	"time"
)

// ApplicationConfig is the root configuration structure
type ApplicationConfig struct {
	Application   ApplicationInfo     `mapstructure:"application"`
	Archive       ArchiveConfig       `mapstructure:"archive"`
	Sweep         SweepConfig         `mapstructure:"sweep"`
	Mirror        MirrorConfig        `mapstructure:"mirror"`
	Notify        NotifyConfig        `mapstructure:"notify"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Shutdown      ShutdownConfig      `mapstructure:"shutdown"`
}

// ApplicationInfo contains application metadata
type ApplicationInfo struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ArchiveConfig contains archive policy options
type ArchiveConfig struct {
	CompressionLevel       string `mapstructure:"compression_level"`
	TargetDirectory        string `mapstructure:"target_directory"`
	RetainedFileCountLimit int    `mapstructure:"retained_file_count_limit"`
}

// SweepConfig contains live log directory sweep settings
type SweepConfig struct {
	Directory          string `mapstructure:"directory"`
	Pattern            string `mapstructure:"pattern"`
	RetainedLiveFiles  int    `mapstructure:"retained_live_files"`
	DeleteAfterArchive bool   `mapstructure:"delete_after_archive"`
	Schedule           string `mapstructure:"schedule"`
	Watch              bool   `mapstructure:"watch"`
	DebounceMS         int    `mapstructure:"debounce_ms"`
}

// DebounceInterval returns the watcher debounce as a duration.
func (c SweepConfig) DebounceInterval() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// MirrorConfig contains object storage mirror configuration
type MirrorConfig struct {
	Backend string      `mapstructure:"backend"`
	Prefix  string      `mapstructure:"prefix"`
	S3      S3Config    `mapstructure:"s3"`
	Azure   AzureConfig `mapstructure:"azure"`
	GCS     GCSConfig   `mapstructure:"gcs"`
}

// S3Config contains AWS S3 configuration
type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
	SSEEnabled   bool   `mapstructure:"sse_enabled"`
	SSEKMSKeyID  string `mapstructure:"sse_kms_key_id"`
}

// AzureConfig contains Azure Blob Storage configuration
type AzureConfig struct {
	AccountName string `mapstructure:"account_name"`
	AccountKey  string `mapstructure:"account_key"`
	Container   string `mapstructure:"container"`
	Endpoint    string `mapstructure:"endpoint"`
}

// GCSConfig contains Google Cloud Storage configuration
type GCSConfig struct {
	Bucket               string `mapstructure:"bucket"`
	ProjectID            string `mapstructure:"project_id"`
	CredentialsFile      string `mapstructure:"credentials_file"`
	CredentialsJSON      string `mapstructure:"credentials_json"`
	Endpoint             string `mapstructure:"endpoint"`
	UseDefaultCredential bool   `mapstructure:"use_default_credential"`
}

// NotifyConfig contains Kafka archive notification settings
type NotifyConfig struct {
	Enabled            bool     `mapstructure:"enabled"`
	BootstrapServers   []string `mapstructure:"bootstrap_servers"`
	Topic              string   `mapstructure:"topic"`
	Source             string   `mapstructure:"source"`
	SecurityProtocol   string   `mapstructure:"security_protocol"`
	SASLMechanism      string   `mapstructure:"sasl_mechanism"`
	SASLUsername       string   `mapstructure:"sasl_username"`
	SASLPassword       string   `mapstructure:"sasl_password"`
	AWSRegion          string   `mapstructure:"aws_region"`
	InsecureSkipVerify bool     `mapstructure:"insecure_skip_verify"`
}

// ObservabilityConfig contains observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig contains metrics settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// HealthConfig contains health check settings
type HealthConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Port          int    `mapstructure:"port"`
	LivenessPath  string `mapstructure:"liveness_path"`
	ReadinessPath string `mapstructure:"readiness_path"`
}

// ShutdownConfig contains shutdown settings
type ShutdownConfig struct {
	GracePeriodSeconds int `mapstructure:"grace_period_seconds"`
}

// GracePeriod returns the shutdown grace period as a duration.
func (c ShutdownConfig) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodSeconds) * time.Second
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.Application.Name == "" {
		return fmt.Errorf("application name is required")
	}
	if c.Sweep.Watch && c.Sweep.Directory == "" {
		return fmt.Errorf("sweep directory is required when watch is enabled")
	}
	return nil
}

// Validate validates S3 configuration.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("s3 bucket is required")
	}
	if c.Region == "" {
		return fmt.Errorf("s3 region is required")
	}
	return nil
}

// Validate validates Azure configuration.
func (c *AzureConfig) Validate() error {
	if c.AccountName == "" {
		return fmt.Errorf("azure account name is required")
	}
	if c.Container == "" {
		return fmt.Errorf("azure container is required")
	}
	return nil
}

// Validate validates notification configuration.
func (c *NotifyConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.BootstrapServers) == 0 {
		return fmt.Errorf("notify bootstrap servers are required")
	}
	if c.Topic == "" {
		return fmt.Errorf("notify topic is required")
	}
	return nil
}
