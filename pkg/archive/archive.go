package archive

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Retirer archives a finalized log file that is about to be deleted.
type Retirer interface {
	// OnRetire preserves the file at path. It returns only after the archive
	// is complete. A non-nil error means the archive was not written and the
	// caller decides whether the original may still be deleted.
	OnRetire(ctx context.Context, path string) error
}

// Sink receives human-readable diagnostic lines.
// Implementations must be safe for concurrent use.
type Sink interface {
	Printf(format string, args ...any)
}

// Observer is notified after a file has been archived.
// Observer failures never fail the archive operation.
type Observer interface {
	// Name identifies the observer in diagnostics and metrics.
	Name() string

	// ArchiveCompleted is called once per successful archive.
	ArchiveCompleted(ctx context.Context, evt Event) error
}

// Event describes a completed archive.
type Event struct {
	SourcePath   string           `json:"source_path"`
	ArchivePath  string           `json:"archive_path"`
	Directory    string           `json:"directory"`
	Compression  CompressionLevel `json:"compression"`
	BytesRead    int64            `json:"bytes_read"`
	BytesWritten int64            `json:"bytes_written"`
	Pruned       []string         `json:"pruned,omitempty"`
	ArchivedAt   time.Time        `json:"archived_at"`
}

// CompressionLevel selects how archived files are compressed.
type CompressionLevel string

const (
	CompressionNone         CompressionLevel = "none"
	CompressionFastest      CompressionLevel = "fastest"
	CompressionOptimal      CompressionLevel = "optimal"
	CompressionSmallestSize CompressionLevel = "smallest_size"
)

// Enabled reports whether archives are compressed.
func (l CompressionLevel) Enabled() bool {
	return l != CompressionNone && l != ""
}

// String returns the configuration name of the level.
func (l CompressionLevel) String() string {
	if l == "" {
		return string(CompressionNone)
	}
	return string(l)
}

// ParseCompressionLevel parses a configuration value such as "fastest".
// Matching is case-insensitive and accepts "-" in place of "_".
func ParseCompressionLevel(s string) (CompressionLevel, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch normalized {
	case "", "none", "no_compression":
		return CompressionNone, nil
	case "fastest":
		return CompressionFastest, nil
	case "optimal":
		return CompressionOptimal, nil
	case "smallest_size", "smallest":
		return CompressionSmallestSize, nil
	default:
		return "", fmt.Errorf("unsupported compression level: %s", s)
	}
}

// SupportedCompressionLevels returns every level accepted by ParseCompressionLevel.
func SupportedCompressionLevels() []CompressionLevel {
	return []CompressionLevel{
		CompressionNone,
		CompressionFastest,
		CompressionOptimal,
		CompressionSmallestSize,
	}
}
