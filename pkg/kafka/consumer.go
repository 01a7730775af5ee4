// Package kafka consumes match job triggers and emits job lifecycle events.
package kafka

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/config"
	"github.com/Ramsey-B/laurel/internal/tracing"
)

// MessageHandler processes one parsed job trigger.
type MessageHandler func(ctx context.Context, msg *IncomingMessage) error

// Consumer handles Kafka job trigger consumption.
type Consumer struct {
	reader  *kafka.Reader
	logger  *zap.Logger
	handler MessageHandler
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// NewConsumer creates a new job trigger consumer.
func NewConsumer(cfg config.Config, logger *zap.Logger, handler MessageHandler) *Consumer {
	return NewConsumerWithConfig(ConsumerConfig{
		Brokers:       cfg.KafkaBrokers,
		Topic:         cfg.KafkaJobTopic,
		ConsumerGroup: cfg.KafkaConsumerGroup,
	}, logger, handler)
}

// NewConsumerWithConfig creates a new consumer with explicit config.
func NewConsumerWithConfig(cfg ConsumerConfig, logger *zap.Logger, handler MessageHandler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader:  reader,
		logger:  logger,
		handler: handler,
	}
}

// Start begins consuming job triggers.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Info("kafka consumer started", zap.String("topic", c.reader.Config().Topic))
	return nil
}

// Stop gracefully stops the consumer.
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.reader.Close()
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer loop stopping")
			return
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if err == context.Canceled || err == io.EOF {
					return
				}
				c.logger.Error("failed to fetch message", zap.Error(err))
				continue
			}

			c.processMessage(ctx, msg)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	ctx, span := tracing.StartSpan(ctx, "kafka.Consumer.processMessage")
	defer span.End()

	log := c.logger.With(
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)

	headers := make(map[string]string)
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}

	incoming := &IncomingMessage{
		Key:       string(msg.Key),
		Value:     msg.Value,
		Headers:   headers,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Topic:     msg.Topic,
	}

	// Triggers are dropped on failure, never retried automatically: a
	// malformed or unresolvable job would fail the same way on redelivery
	// and wedge the partition. Callers re-submit jobs explicitly.
	if err := incoming.ParseJobMessage(); err != nil {
		log.Error("malformed job trigger, dropping", zap.Error(err))
	} else if err := c.handler(ctx, incoming); err != nil {
		log.Error("job failed", zap.Error(err), zap.String("job_id", incoming.JobMessage.JobID))
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		log.Error("failed to commit message", zap.Error(err))
	}
}

// Health returns the consumer health status.
func (c *Consumer) Health() bool {
	return c.reader != nil
}
