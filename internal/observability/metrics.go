package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "logarchive"

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Archive metrics
	FilesArchived     *prometheus.CounterVec
	ArchiveBytes      *prometheus.HistogramVec
	ArchiveDuration   *prometheus.HistogramVec
	FilesPruned       *prometheus.CounterVec
	UnsupportedTokens *prometheus.CounterVec

	// Observer metrics
	ObserverNotifications *prometheus.CounterVec

	// Sweeper metrics
	Sweeps        *prometheus.CounterVec
	SweepDuration prometheus.Histogram
	FilesRetired  *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		FilesArchived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_archived_total",
				Help:      "Total number of retired log files archived",
			},
			[]string{"compression", "status"},
		),
		ArchiveBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "archive_bytes",
				Help:      "Bytes read from retired files and written to archives",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to 256MB
			},
			[]string{"kind"},
		),
		ArchiveDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "archive_duration_seconds",
				Help:      "Duration of archive operations including pruning",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"compression"},
		),
		FilesPruned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_pruned_total",
				Help:      "Total number of excess archives deleted by retention",
			},
			[]string{"status"},
		),
		UnsupportedTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unsupported_tokens_total",
				Help:      "Total number of path tokens left unexpanded",
			},
			[]string{"token"},
		),
		ObserverNotifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "observer_notifications_total",
				Help:      "Total number of post-archive notifications (mirrors, events)",
			},
			[]string{"observer", "status"},
		),
		Sweeps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweeps_total",
				Help:      "Total number of live log directory sweeps",
			},
			[]string{"status"},
		),
		SweepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sweep_duration_seconds",
				Help:      "Duration of live log directory sweeps",
				Buckets:   prometheus.DefBuckets,
			},
		),
		FilesRetired: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_retired_total",
				Help:      "Total number of live log files retired by the sweeper",
			},
			[]string{"status"},
		),
	}
}

// IncFilesArchived increments files archived counter.
func (m *Metrics) IncFilesArchived(compression string, status string) {
	m.FilesArchived.WithLabelValues(compression, status).Inc()
}

// ObserveArchiveBytes observes bytes read or written.
func (m *Metrics) ObserveArchiveBytes(kind string, bytes float64) {
	m.ArchiveBytes.WithLabelValues(kind).Observe(bytes)
}

// ObserveArchiveDuration observes archive duration.
func (m *Metrics) ObserveArchiveDuration(compression string, duration float64) {
	m.ArchiveDuration.WithLabelValues(compression).Observe(duration)
}

// IncFilesPruned increments pruned files counter.
func (m *Metrics) IncFilesPruned(status string) {
	m.FilesPruned.WithLabelValues(status).Inc()
}

// IncUnsupportedTokens increments unsupported tokens counter.
func (m *Metrics) IncUnsupportedTokens(name string) {
	m.UnsupportedTokens.WithLabelValues(name).Inc()
}

// IncObserverNotifications increments observer notifications counter.
func (m *Metrics) IncObserverNotifications(observer string, status string) {
	m.ObserverNotifications.WithLabelValues(observer, status).Inc()
}

// IncSweeps increments sweeps counter.
func (m *Metrics) IncSweeps(status string) {
	m.Sweeps.WithLabelValues(status).Inc()
}

// ObserveSweepDuration observes sweep duration.
func (m *Metrics) ObserveSweepDuration(duration float64) {
	m.SweepDuration.Observe(duration)
}

// IncFilesRetired increments files retired counter.
func (m *Metrics) IncFilesRetired(status string) {
	m.FilesRetired.WithLabelValues(status).Inc()
}
