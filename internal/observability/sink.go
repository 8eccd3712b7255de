package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jittakal/logarchive/pkg/archive"
)

// Ensure implementations satisfy interface at compile time.
var (
	_ archive.Sink = (*LogSink)(nil)
	_ archive.Sink = (*RecordingSink)(nil)
	_ archive.Sink = DiscardSink{}
)

// LogSink writes diagnostic lines to a slog logger at a fixed level.
type LogSink struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogSink creates a sink that logs each line as a warning tagged
// component=selflog.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{
		logger: logger.With("component", "selflog"),
		level:  slog.LevelWarn,
	}
}

// Printf formats and logs one diagnostic line.
func (s *LogSink) Printf(format string, args ...any) {
	s.logger.Log(context.Background(), s.level, fmt.Sprintf(format, args...))
}

// RecordingSink keeps every diagnostic line in memory.
type RecordingSink struct {
	mu    sync.Mutex
	lines []string
}

// Printf formats and records one diagnostic line.
func (s *RecordingSink) Printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of the recorded lines.
func (s *RecordingSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Reset discards recorded lines.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// DiscardSink drops every line.
type DiscardSink struct{}

// Printf does nothing.
func (DiscardSink) Printf(string, ...any) {}

// MultiSink fans a line out to several sinks.
type MultiSink []archive.Sink

// Printf forwards the line to every sink.
func (m MultiSink) Printf(format string, args ...any) {
	for _, s := range m {
		if s != nil {
			s.Printf(format, args...)
		}
	}
}
