package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/CIDLAGOAVIVA/Inmet/internal/domain"
)

// Writer produces daily records to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the given topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and publishes daily records in a single WriteMessages
// call. Records are keyed by station and date so one station-day always
// lands on the same partition.
func (w *Writer) Publish(ctx context.Context, records []domain.DailyRecord) error {
	if len(records) == 0 {
		return nil
	}
	processedAt := domain.Now()
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], processedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write daily records: %w", err)
	}
	w.logger.Debug("daily records published", "topic", w.writer.Topic, "records", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// messageKey is "<station>|<YYYY-MM-DD>".
func messageKey(d domain.DailyRecord) []byte {
	return []byte(d.Station + "|" + d.Date.Format(time.DateOnly))
}

// serializeToMessage marshals a DailyRecord into a Kafka message.
func serializeToMessage(d domain.DailyRecord, processedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize daily record: %w", err)
	}
	return kafkago.Message{
		Key:   messageKey(d),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station", Value: []byte(d.Station)},
			{Key: "date", Value: []byte(d.Date.Format(time.DateOnly))},
			{Key: "processed_at", Value: []byte(processedAt.Format(time.RFC3339))},
		},
	}, nil
}
