package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/frahmantamala/finance-ops/internal/notification"
	"github.com/segmentio/kafka-go"
)

// Forwarder publishes every stored notification to a topic for external
// push delivery.
type Forwarder struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewForwarder(brokers []string, topic string, logger *slog.Logger) *Forwarder {
	l := logger.WithGroup("kafka").With("topic", topic)
	return &Forwarder{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			Async:                  true,
			AllowAutoTopicCreation: true,
			ErrorLogger: kafka.LoggerFunc(func(format string, args ...interface{}) {
				l.Error(fmt.Sprintf(format, args...))
			}),
		},
		logger: l,
	}
}

// Message keys by recipient so a user's notifications stay ordered
// within a partition.
func Message(n notification.Notification) (kafka.Message, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode notification: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(n.UserID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(n.Type)},
		},
	}, nil
}

func (f *Forwarder) Forward(ctx context.Context, n notification.Notification) error {
	msg, err := Message(n)
	if err != nil {
		return err
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

func (f *Forwarder) Close() error {
	if err := f.writer.Close(); err != nil {
		f.logger.Error("close kafka writer", "error", err)
		return err
	}
	return nil
}
