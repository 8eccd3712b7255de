// Package kafka publishes archive notifications to Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"github.com/jittakal/logarchive/internal/errors"
	"github.com/jittakal/logarchive/pkg/archive"
)

// Ensure implementation satisfies interface at compile time.
var _ archive.Observer = (*Notifier)(nil)

// EventTypeArchived is the CloudEvent type of archive notifications.
const EventTypeArchived = "com.logarchive.file.archived"

// NotifierConfig contains notifier configuration.
type NotifierConfig struct {
	Enabled          bool
	BootstrapServers []string
	Topic            string
	Source           string
	Security         SecurityConfig
}

// Validate checks the notifier configuration.
func (c NotifierConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.BootstrapServers) == 0 {
		return fmt.Errorf("notify bootstrap servers are required")
	}
	if c.Topic == "" {
		return fmt.Errorf("notify topic is required")
	}
	if c.Source == "" {
		return fmt.Errorf("notify source is required")
	}
	return nil
}

// Notifier publishes one CloudEvent per completed archive.
type Notifier struct {
	producer sarama.SyncProducer
	config   NotifierConfig
	logger   *slog.Logger
	newID    func() string
	mu       sync.RWMutex
	closed   bool
}

// NewNotifier creates a notifier backed by a sarama sync producer.
func NewNotifier(config NotifierConfig, logger *slog.Logger) (*Notifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V2_8_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	if err := configureSecurity(saramaConfig, config.Security); err != nil {
		return nil, fmt.Errorf("failed to configure security: %w", err)
	}

	producer, err := sarama.NewSyncProducer(config.BootstrapServers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync producer: %w", err)
	}

	logger.Info("archive notifier created",
		"bootstrap_servers", config.BootstrapServers,
		"topic", config.Topic,
	)

	return NewNotifierWithProducer(producer, config, logger), nil
}

// NewNotifierWithProducer creates a notifier on an existing producer.
func NewNotifierWithProducer(producer sarama.SyncProducer, config NotifierConfig, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		producer: producer,
		config:   config,
		logger:   logger.With("component", "notifier"),
		newID:    uuid.NewString,
	}
}

// Name identifies the notifier.
func (n *Notifier) Name() string {
	return "kafka"
}

// ArchiveCompleted publishes evt to the configured topic.
func (n *Notifier) ArchiveCompleted(ctx context.Context, evt archive.Event) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return errors.ErrPublisherClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ce, err := n.cloudEvent(evt)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(ce)
	if err != nil {
		return fmt.Errorf("failed to marshal CloudEvent: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: n.config.Topic,
		Key:   sarama.StringEncoder(evt.SourcePath),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("ce_specversion"), Value: []byte(ce.SpecVersion())},
			{Key: []byte("ce_type"), Value: []byte(ce.Type())},
			{Key: []byte("ce_source"), Value: []byte(ce.Source())},
			{Key: []byte("ce_id"), Value: []byte(ce.ID())},
			{Key: []byte("content-type"), Value: []byte(cloudevents.ApplicationCloudEventsJSON)},
		},
		Timestamp: ce.Time(),
	}

	partition, offset, err := n.producer.SendMessage(msg)
	if err != nil {
		n.logger.Error("failed to publish archive notification",
			"error", err,
			"topic", n.config.Topic,
			"event_id", ce.ID(),
		)
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	n.logger.Debug("published archive notification",
		"topic", n.config.Topic,
		"partition", partition,
		"offset", offset,
		"event_id", ce.ID(),
		"archive", evt.ArchivePath,
	)

	return nil
}

// cloudEvent wraps evt in a CloudEvent envelope with JSON data.
func (n *Notifier) cloudEvent(evt archive.Event) (cloudevents.Event, error) {
	at := evt.ArchivedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	ce := cloudevents.NewEvent()
	ce.SetID(n.newID())
	ce.SetSource(n.config.Source)
	ce.SetType(EventTypeArchived)
	ce.SetSubject(evt.ArchivePath)
	ce.SetTime(at)
	if err := ce.SetData(cloudevents.ApplicationJSON, evt); err != nil {
		return ce, fmt.Errorf("failed to encode event data: %w", err)
	}
	if err := ce.Validate(); err != nil {
		return ce, fmt.Errorf("invalid CloudEvent: %w", err)
	}
	return ce, nil
}

// Close closes the notifier and its producer.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.closed = true

	if n.producer != nil {
		if err := n.producer.Close(); err != nil {
			n.logger.Error("error closing producer", "error", err)
			return err
		}
	}

	n.logger.Info("archive notifier closed")
	return nil
}
