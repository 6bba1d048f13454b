package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/parkatlas/park-data-etl/internal/config"
	"github.com/parkatlas/park-data-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces evaluation messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes multiple evaluations to the sink Kafka
// topic in a single WriteMessages call for efficiency.
func (w *Writer) LoadBatch(ctx context.Context, evals []domain.Evaluation) error {
	if len(evals) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(evals))
	for i := range evals {
		msg, err := serializeToMessage(evals[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Evaluation into a Kafka message. Messages are
// keyed by record ID so all evaluations for one park land on one partition in
// decision order.
func serializeToMessage(eval domain.Evaluation) (kafkago.Message, error) {
	data, err := json.Marshal(eval)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize evaluation: %w", err)
	}

	headers := []kafkago.Header{
		{Key: "status", Value: []byte(eval.Status)},
		{Key: "evaluated_at", Value: []byte(eval.EvaluatedAt.Format(time.RFC3339))},
	}
	if eval.Decision != nil {
		headers = append(headers, kafkago.Header{Key: "decision_reason", Value: []byte(eval.Decision.Reason)})
	}

	return kafkago.Message{
		Key:     []byte(eval.Record.ID),
		Value:   data,
		Headers: headers,
	}, nil
}
