// Package kafka provides a Kafka-backed eventstream publisher.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/lanternhq/lantern/pkg/eventstream"
)

// Config is the configuration options for the Kafka publisher.
type Config struct {
	// Brokers is the list of broker addresses.
	Brokers []string

	// Topic is the topic change events are written to.
	Topic string

	// Logger is the provided slog logger.
	Logger *slog.Logger
}

// Publisher implements eventstream.Publisher on top of a Kafka topic.
// Messages are keyed by change path so consumers see per-path ordering.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka publisher. The connection is established
// lazily on the first publish.
func NewPublisher(c *Config) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}

	if c.Topic == "" {
		return nil, fmt.Errorf("a topic is required")
	}

	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}

	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(c.Brokers...),
		Topic:                  c.Topic,
		Balancer:               &kafkago.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	return &Publisher{
		writer: writer,
		logger: c.Logger,
	}, nil
}

// PublishChange writes one change event to the topic.
func (p *Publisher) PublishChange(ctx context.Context, event *eventstream.ChangeEvent) error {
	if event == nil {
		return eventstream.ErrNilChangeEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding change event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.Change.Path),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing change event: %w", err)
	}

	p.logger.Debug("change event published",
		"event_id", event.EventID,
		"kind", event.Change.Kind,
		"path", event.Change.Path,
	)

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
