package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/spotmeta/internal/config"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher sends finished metafiles to a Kafka topic, one message per
// document.
type Publisher struct {
	writer   *kafkago.Writer
	logger   *slog.Logger
	field    string
	class    string
	category string
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		WriteTimeout:           cfg.KafkaTimeout,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{
		writer:   w,
		logger:   logger,
		field:    cfg.Field,
		class:    cfg.Class,
		category: cfg.Category,
	}
}

// Publish writes doc as a single message keyed by the field name.
func (p *Publisher) Publish(ctx context.Context, doc []byte, generatedAt time.Time) error {
	msg := p.buildMessage(doc, generatedAt)
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish metafile: %w", err)
	}
	p.logger.Info("metafile published",
		"topic", p.writer.Topic,
		"field", p.field,
		"bytes", len(doc),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) buildMessage(doc []byte, generatedAt time.Time) kafkago.Message {
	return kafkago.Message{
		Key:   []byte(p.field),
		Value: doc,
		Headers: []kafkago.Header{
			{Key: "field", Value: []byte(p.field)},
			{Key: "class", Value: []byte(p.class)},
			{Key: "category", Value: []byte(p.category)},
			{Key: "generated_at", Value: []byte(generatedAt.UTC().Format(time.RFC3339))},
		},
	}
}
