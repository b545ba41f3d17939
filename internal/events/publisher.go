// Package events publishes completed checks to Kafka and fans them out to
// the other check sinks.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"clicksafe/internal/models"
)

// Publisher writes checks as JSON messages keyed by detector.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewPublisher creates a Publisher for topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireOne,
	}
	return &Publisher{
		writer: w,
		logger: slog.Default().With("component", "kafka-publisher", "topic", topic),
	}
}

// Message encodes a check the way Publish writes it.
func Message(c models.Check) (kafka.Message, error) {
	value, err := json.Marshal(c)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshaling check: %w", err)
	}
	return kafka.Message{
		Key:   []byte(c.Detector),
		Value: value,
		Time:  c.CreatedAt,
	}, nil
}

// Publish writes one check synchronously.
func (p *Publisher) Publish(ctx context.Context, c models.Check) error {
	msg, err := Message(c)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish check", "detector", c.Detector, "error", err)
		return fmt.Errorf("publishing to kafka: %w", err)
	}
	p.logger.Debug("check published", "detector", c.Detector, "value_size", len(msg.Value))
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
