package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/GTDGit/ewaste/internal/config"
)

// messageWriter is the subset of *kafka.Writer the notifier needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes inventory events to a Kafka topic.
// Messages are keyed "product.<event>.<id>".
type KafkaNotifier struct {
	writer  messageWriter
	timeout time.Duration
}

// NewKafkaNotifier creates an async writer for the configured brokers and topic.
func NewKafkaNotifier(cfg config.KafkaConfig) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("messages", len(messages)).Msg("Failed to publish inventory events")
			}
		},
	}
	return newKafkaNotifier(w)
}

func newKafkaNotifier(w messageWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: w, timeout: 5 * time.Second}
}

// Notify enqueues the event. With an async writer this returns immediately.
func (n *KafkaNotifier) Notify(event *InventoryEvent) {
	msg, err := Message(event)
	if err != nil {
		log.Error().Err(err).Str("event", string(event.Event)).Msg("Failed to encode inventory event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		log.Error().Err(err).Str("key", string(msg.Key)).Msg("Failed to publish inventory event")
	}
}

// Close flushes pending messages and releases the writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// Message encodes an event as a Kafka message.
func Message(event *InventoryEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("error marshaling inventory event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(fmt.Sprintf("%s.%d", event.Event, event.ID)),
		Value: value,
		Time:  event.Timestamp,
	}, nil
}
