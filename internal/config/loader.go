package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jittakal/logarchive/internal/config/dto"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LOGARCHIVE_SWEEP_DIRECTORY.
const EnvPrefix = "LOGARCHIVE"

// Loader handles configuration loading and validation
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load loads configuration from file and environment variables
func (l *Loader) Load(path string) (*dto.ApplicationConfig, error) {
	l.setDefaults()

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Only expand values containing a ${...} pattern; {Name:Format} tokens
	// are left for the path expander.
	for _, key := range l.v.AllKeys() {
		value := l.v.GetString(key)
		if strings.Contains(value, "${") {
			l.v.Set(key, os.ExpandEnv(value))
		}
	}

	var config dto.ApplicationConfig
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func (l *Loader) setDefaults() {
	// Application defaults
	l.v.SetDefault("application.name", "logarchive")
	l.v.SetDefault("application.version", "1.0.0")
	l.v.SetDefault("application.environment", "development")

	// Archive defaults
	l.v.SetDefault("archive.compression_level", "fastest")
	l.v.SetDefault("archive.target_directory", "")
	l.v.SetDefault("archive.retained_file_count_limit", 0)

	// Sweep defaults
	l.v.SetDefault("sweep.directory", "")
	l.v.SetDefault("sweep.pattern", "*.log")
	l.v.SetDefault("sweep.retained_live_files", 1)
	l.v.SetDefault("sweep.delete_after_archive", true)
	l.v.SetDefault("sweep.schedule", "@every 1m")
	l.v.SetDefault("sweep.watch", false)
	l.v.SetDefault("sweep.debounce_ms", 500)

	// Mirror defaults
	l.v.SetDefault("mirror.backend", "none")
	l.v.SetDefault("mirror.prefix", "")
	l.v.SetDefault("mirror.s3.use_path_style", false)
	l.v.SetDefault("mirror.s3.sse_enabled", true)

	// Notify defaults
	l.v.SetDefault("notify.enabled", false)
	l.v.SetDefault("notify.topic", "log-archives")
	l.v.SetDefault("notify.source", "logarchive")
	l.v.SetDefault("notify.security_protocol", "PLAINTEXT")
	l.v.SetDefault("notify.sasl_mechanism", "PLAIN")

	// Observability defaults
	l.v.SetDefault("observability.logging.level", "info")
	l.v.SetDefault("observability.logging.format", "json")
	l.v.SetDefault("observability.logging.output", "stdout")
	l.v.SetDefault("observability.metrics.enabled", true)
	l.v.SetDefault("observability.metrics.port", 9090)
	l.v.SetDefault("observability.metrics.path", "/metrics")
	l.v.SetDefault("observability.health.enabled", true)
	l.v.SetDefault("observability.health.port", 8080)
	l.v.SetDefault("observability.health.liveness_path", "/health/live")
	l.v.SetDefault("observability.health.readiness_path", "/health/ready")

	// Shutdown defaults
	l.v.SetDefault("shutdown.grace_period_seconds", 10)
}

// Validate validates the configuration. Archive and sweep settings are
// checked with the same rules the components apply at construction.
func (l *Loader) Validate(config *dto.ApplicationConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if err := PolicyConfig(config).Validate(); err != nil {
		return fmt.Errorf("archive: %w", err)
	}

	// The retire command runs without a sweep directory.
	if config.Sweep.Directory != "" {
		if err := SweeperConfig(config).Validate(); err != nil {
			return err
		}
	}

	if err := MirrorConfig(config).Validate(); err != nil {
		return fmt.Errorf("mirror: %w", err)
	}

	if err := NotifierConfig(config).Validate(); err != nil {
		return err
	}

	switch config.Observability.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format: %s", config.Observability.Logging.Format)
	}

	// Port validation; port 0 disables the listener
	if config.Observability.Metrics.Enabled {
		if config.Observability.Metrics.Port < 0 || config.Observability.Metrics.Port > 65535 {
			return fmt.Errorf("invalid metrics port: %d", config.Observability.Metrics.Port)
		}
	}
	if config.Observability.Health.Enabled {
		if config.Observability.Health.Port < 0 || config.Observability.Health.Port > 65535 {
			return fmt.Errorf("invalid health port: %d", config.Observability.Health.Port)
		}
	}
	if config.Observability.Metrics.Enabled && config.Observability.Health.Enabled &&
		config.Observability.Metrics.Port != 0 &&
		config.Observability.Metrics.Port == config.Observability.Health.Port {
		return fmt.Errorf("metrics and health ports must differ: %d", config.Observability.Metrics.Port)
	}

	if config.Shutdown.GracePeriodSeconds < 0 {
		return fmt.Errorf("invalid shutdown grace period: %d", config.Shutdown.GracePeriodSeconds)
	}

	return nil
}
