package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/parkatlas/park-data-etl/internal/domain"
	"github.com/parkatlas/park-data-etl/internal/observability"
)

// BatchExtractor reads up to batchSize raw candidates from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawCandidate, error)
}

// BatchEvaluator runs a batch of raw candidates through the quality engine.
type BatchEvaluator interface {
	EvaluateBatch(ctx context.Context, raws []domain.RawCandidate) []Result
}

// BatchLoader writes evaluations to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, evals []domain.Evaluation) error
}

// Result pairs a raw candidate with its evaluation outcome. Err is set when
// the payload could not be parsed at all; Duplicate marks candidates dropped
// by intra-batch deduplication. Both leave Evaluation empty.
type Result struct {
	Raw        domain.RawCandidate
	Evaluation domain.Evaluation
	Duplicate  bool
	Err        error
}

// Pipeline orchestrates the extract-evaluate-load loop.
type Pipeline struct {
	extractor BatchExtractor
	evaluator BatchEvaluator
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, ev BatchEvaluator, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		evaluator: ev,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil if the pipeline has processed at least one batch,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any candidates yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during Kafka outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-evaluate-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.CandidatesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	loaded, ok := p.evaluateAndLoad(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// evaluateAndLoad evaluates the batch, loads the resulting evaluations, and
// commits offsets. Parse failures and duplicates are committed immediately so
// a poison pill or repeated submission never wedges the partition. Returns the
// number of loaded evaluations and false if the pipeline should stop.
func (p *Pipeline) evaluateAndLoad(ctx context.Context, rawBatch []domain.RawCandidate, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	results := p.evaluator.EvaluateBatch(ctx, rawBatch)

	evals := make([]domain.Evaluation, 0, len(results))
	loadedRaws := make([]domain.RawCandidate, 0, len(results))

	for _, res := range results {
		switch {
		case res.Err != nil:
			p.logger.Warn("candidate unparseable, skipping",
				"error", res.Err,
				"topic", res.Raw.Topic,
				"partition", res.Raw.Partition,
				"offset", res.Raw.Offset,
			)
			p.metrics.ParseErrors.Inc()
			p.commitOffset(ctx, res.Raw)
		case res.Duplicate:
			p.metrics.DuplicatesDropped.Inc()
			p.commitOffset(ctx, res.Raw)
		default:
			p.observeEvaluation(res.Evaluation)
			evals = append(evals, res.Evaluation)
			loadedRaws = append(loadedRaws, res.Raw)
		}
	}

	if len(evals) == 0 {
		return 0, true
	}

	if err := p.loader.LoadBatch(ctx, evals); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(evals))
		return 0, p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	p.metrics.EvaluationsProduced.Add(float64(len(evals)))

	for _, raw := range loadedRaws {
		p.commitOffset(ctx, raw)
	}

	return len(evals), true
}

func (p *Pipeline) observeEvaluation(eval domain.Evaluation) {
	if eval.Status == domain.EvalInvalid {
		p.metrics.ValidationFailures.Inc()
		return
	}
	if eval.Decision != nil {
		p.metrics.Decisions.WithLabelValues(string(eval.Decision.Reason)).Inc()
	}
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawCandidate) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
