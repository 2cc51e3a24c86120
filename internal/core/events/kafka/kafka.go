// Package kafka forwards bus events to Kafka and reads them back.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/segmentio/kafka-go"
)

// Envelope is the wire shape of a forwarded event.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// NewWriter leaves Topic empty so every message carries its own.
func NewWriter(cfg internal.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}
}

func NewReader(cfg internal.KafkaConfig) *kafka.Reader {
	topics := make([]string, len(events.AllEventTypes))
	for i, t := range events.AllEventTypes {
		topics[i] = cfg.Topic(t)
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
}

type Forwarder struct {
	writer   MessageWriter
	topicFor func(eventType string) string
	logger   *slog.Logger
}

func NewForwarder(writer MessageWriter, topicFor func(string) string, logger *slog.Logger) *Forwarder {
	return &Forwarder{
		writer:   writer,
		topicFor: topicFor,
		logger:   logger,
	}
}

// Attach subscribes the forwarder to every domain event on bus.
func (f *Forwarder) Attach(bus *events.EventBus) {
	bus.SubscribeAll(events.AllEventTypes, f.Handle)
}

func (f *Forwarder) Handle(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal payload of %s: %w", event.EventType(), err)
	}
	value, err := json.Marshal(Envelope{
		ID:         event.EventID(),
		Type:       event.EventType(),
		OccurredAt: event.OccurredAt(),
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("marshal envelope of %s: %w", event.EventType(), err)
	}

	topic := f.topicFor(event.EventType())
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(event.EventID()),
		Value: value,
		Time:  event.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
		},
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s to %s: %w", event.EventType(), topic, err)
	}

	f.logger.Debug("event forwarded", "event_type", event.EventType(), "event_id", event.EventID(), "topic", topic)
	return nil
}

func (f *Forwarder) Close() error {
	return f.writer.Close()
}

type Consumer struct {
	reader MessageReader
	logger *slog.Logger
}

func NewConsumer(reader MessageReader, logger *slog.Logger) *Consumer {
	return &Consumer{reader: reader, logger: logger}
}

// Run reads until ctx is cancelled. Undecodable messages are logged and
// skipped; an error from handle stops the loop.
func (c *Consumer) Run(ctx context.Context, handle func(context.Context, Envelope) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		var env Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			c.logger.Warn("skipping malformed event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
			continue
		}
		if err := handle(ctx, env); err != nil {
			return fmt.Errorf("handle %s: %w", env.Type, err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// BrokerPinger reports whether any configured broker accepts a connection.
type BrokerPinger struct {
	brokers []string
	dialer  *kafka.Dialer
}

func NewBrokerPinger(brokers []string) *BrokerPinger {
	return &BrokerPinger{brokers: brokers, dialer: &kafka.Dialer{Timeout: 2 * time.Second}}
}

func (p *BrokerPinger) PingContext(ctx context.Context) error {
	var lastErr error
	for _, broker := range p.brokers {
		conn, err := p.dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		return conn.Close()
	}
	if lastErr == nil {
		return errors.New("no kafka brokers configured")
	}
	return fmt.Errorf("kafka unreachable: %w", lastErr)
}
