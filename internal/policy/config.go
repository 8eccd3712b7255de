package policy

import (
	"fmt"

	"github.com/jittakal/logarchive/internal/errors"
	"github.com/jittakal/logarchive/internal/template"
	"github.com/jittakal/logarchive/pkg/archive"
)

// ArchiveSuffix is appended to the name of every compressed archive.
const ArchiveSuffix = ".gz"

// Config holds the construction-time options of a Policy.
type Config struct {
	// CompressionLevel selects plain copy (none) or gzip compression.
	CompressionLevel archive.CompressionLevel

	// TargetDirectory is the archive folder. It may contain {Name:Format}
	// tokens that are expanded on every archive. Empty archives beside the
	// source file.
	TargetDirectory string

	// RetainedFileCountLimit keeps the N newest archives in TargetDirectory.
	// Zero disables pruning.
	RetainedFileCountLimit int
}

// Validate checks the option combination.
func (c Config) Validate() error {
	level, err := archive.ParseCompressionLevel(string(c.CompressionLevel))
	if err != nil {
		return &errors.ConfigError{
			Field:  "compression_level",
			Reason: err.Error(),
			Err:    err,
		}
	}

	if !level.Enabled() && c.TargetDirectory == "" {
		return &errors.ConfigError{
			Field:  "target_directory",
			Reason: "either compression_level or target_directory must be set",
		}
	}

	if c.RetainedFileCountLimit < 0 {
		return &errors.ConfigError{
			Field:  "retained_file_count_limit",
			Reason: fmt.Sprintf("must not be negative, got %d", c.RetainedFileCountLimit),
		}
	}

	if c.RetainedFileCountLimit > 0 {
		if template.IsTemplated(c.TargetDirectory) {
			return &errors.ConfigError{
				Field:  "target_directory",
				Reason: "must not contain tokens when retained_file_count_limit is set",
				Err:    errors.ErrTemplatedRetention,
			}
		}
		if !level.Enabled() {
			return &errors.ConfigError{
				Field:  "retained_file_count_limit",
				Reason: "requires compression so that archives can be told apart by suffix",
			}
		}
	}

	return nil
}

// ArchiveName returns the archive file name for a source base name.
func (c Config) ArchiveName(base string) string {
	if c.CompressionLevel.Enabled() {
		return base + ArchiveSuffix
	}
	return base
}
