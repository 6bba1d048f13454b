package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/parkatlas/park-data-etl/internal/config"
	"github.com/parkatlas/park-data-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes candidate messages from the source topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	logger        *slog.Logger
	flushInterval time.Duration
}

// NewReader creates a Kafka consumer for the configured source topic.
// Offsets are committed explicitly via each RawCandidate's Commit callback,
// only after the evaluation has been durably loaded.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaSourceTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        cfg.BatchFlushInterval,
		CommitInterval: 0, // synchronous commits
	})
	return &Reader{
		reader:        r,
		logger:        logger,
		flushInterval: cfg.BatchFlushInterval,
	}
}

// ExtractBatch reads up to batchSize messages. It blocks for the first
// message, then drains whatever arrives within the flush interval so a slow
// trickle of candidates never stalls a partially filled batch. Returns an
// empty batch, not an error, when the interval passes with no messages.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawCandidate, error) {
	batch := make([]domain.RawCandidate, 0, batchSize)

	deadline, cancel := context.WithTimeout(ctx, r.flushInterval)
	defer cancel()

	for len(batch) < batchSize {
		msg, err := r.reader.FetchMessage(deadline)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return batch, nil
			}
			if ctx.Err() != nil {
				return batch, nil
			}
			return nil, err
		}
		batch = append(batch, r.mapMessage(msg))
	}

	return batch, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessage converts a Kafka message into a RawCandidate with a commit
// callback bound to this reader's consumer group.
func (r *Reader) mapMessage(msg kafkago.Message) domain.RawCandidate {
	raw := mapMessageToRawCandidate(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw
}

func mapMessageToRawCandidate(msg kafkago.Message) domain.RawCandidate {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawCandidate{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
