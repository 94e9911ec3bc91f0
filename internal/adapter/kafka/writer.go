package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/nyc-collisions-dashboard/internal/config"
	"github.com/couchcryptid/nyc-collisions-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces collision records to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured export topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes collisions in a single WriteMessages
// call. Records with the same key land on the same partition.
func (w *Writer) LoadBatch(ctx context.Context, records []domain.Collision) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d collisions: %w", len(msgs), err)
	}
	w.logger.Debug("collision batch published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// messageKey is the collision ID, or the timestamp and position for rows
// exported without one.
func messageKey(c domain.Collision) []byte {
	if c.ID != "" {
		return []byte(c.ID)
	}
	return fmt.Appendf(nil, "%s|%.6f,%.6f", c.CrashTime.Format("2006-01-02T15:04:05"), c.Geo.Lat, c.Geo.Lon)
}

// serializeToMessage marshals a Collision into a Kafka message.
func serializeToMessage(c domain.Collision) (kafkago.Message, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize collision: %w", err)
	}
	return kafkago.Message{
		Key:   messageKey(c),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "borough", Value: []byte(c.Borough)},
			{Key: "crash_time", Value: []byte(c.CrashTime.Format(time.RFC3339))},
		},
	}, nil
}
