package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/internal/tracing"
)

// Producer emits job lifecycle events.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducer creates a new Kafka producer.
func NewProducer(cfg ProducerConfig, logger *zap.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

// Close closes the producer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// JobEvent is one job lifecycle event.
type JobEvent struct {
	EventType      string    `json:"event_type"`
	JobID          string    `json:"job_id"`
	Initiator      string    `json:"initiator,omitempty"`
	BaseDatasetID  string    `json:"base_dataset_id"`
	MatchDatasetID string    `json:"match_dataset_id"`
	MatchCount     int       `json:"match_count,omitempty"`
	Error          string    `json:"error,omitempty"`
	EmittedAt      time.Time `json:"emitted_at"`
}

// PublishJobEvent publishes a job lifecycle event keyed by job id.
func (p *Producer) PublishJobEvent(ctx context.Context, event *JobEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishJobEvent")
	defer span.End()

	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.JobID),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish job event", zap.Error(err),
			zap.String("event_type", event.EventType),
			zap.String("job_id", event.JobID),
		)
		return err
	}

	return nil
}
