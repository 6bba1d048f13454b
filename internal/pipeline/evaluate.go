package pipeline

import (
	"context"
	"log/slog"

	"github.com/parkatlas/park-data-etl/internal/domain"
)

// Evaluator implements BatchEvaluator using the domain quality engine. It
// carries the immutable policy tables and the baseline store owning the
// current record per entity.
type Evaluator struct {
	priorities domain.PriorityPolicy
	scoring    domain.ScorePolicy
	merging    domain.MergePolicy
	baseline   BaselineStore
	logger     *slog.Logger
}

// NewEvaluator creates an Evaluator with the default policy tables.
func NewEvaluator(baseline BaselineStore, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		priorities: domain.DefaultPriorityPolicy(),
		scoring:    domain.DefaultScorePolicy(),
		merging:    domain.DefaultMergePolicy(),
		baseline:   baseline,
		logger:     logger,
	}
}

// Policies returns the active policy tables for auditing.
func (e *Evaluator) Policies() (domain.PriorityPolicy, domain.ScorePolicy, domain.MergePolicy) {
	return e.priorities, e.scoring, e.merging
}

// EvaluateBatch runs a batch of raw candidates through the engine:
// parse, intra-batch dedup, validate, resolve priority, score, and decide
// against the stored baseline. The returned slice has one Result per input,
// in input order.
func (e *Evaluator) EvaluateBatch(ctx context.Context, raws []domain.RawCandidate) []Result {
	results := make([]Result, len(raws))
	parsed := make([]domain.ParkRecord, len(raws))

	for i, raw := range raws {
		results[i].Raw = raw
		rec, err := domain.ParseRawCandidate(raw)
		if err != nil {
			results[i].Err = err
			continue
		}
		parsed[i] = rec
	}

	markDuplicates(results, parsed)

	for i := range results {
		if results[i].Err != nil || results[i].Duplicate {
			continue
		}
		results[i].Evaluation = e.evaluate(ctx, parsed[i])
	}

	return results
}

// markDuplicates flags every candidate whose entity key already appeared
// earlier in the batch. Matches domain.Deduplicate: first occurrence wins,
// input order preserved.
func markDuplicates(results []Result, parsed []domain.ParkRecord) {
	seen := make(map[string]bool, len(parsed))
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		key := domain.EntityKey(parsed[i])
		if seen[key] {
			results[i].Duplicate = true
			continue
		}
		seen[key] = true
	}
}

// evaluate runs one candidate through validation, derivation, and the merge
// decision. The read-decide-write against the baseline happens under the
// store's per-entity lock so concurrent candidates for the same park cannot
// both accept against a stale baseline.
func (e *Evaluator) evaluate(ctx context.Context, rec domain.ParkRecord) domain.Evaluation {
	validation := domain.Validate(rec)
	if !validation.IsValid() {
		e.logger.Warn("candidate failed validation",
			"park", rec.Name,
			"state", rec.State,
			"source", rec.Source,
			"errors", validation.Errors,
		)
		return domain.Evaluation{
			Status:     domain.EvalInvalid,
			Record:     rec,
			Validation: validation,
		}
	}

	// Derived fields are recomputed on every evaluation; whatever the source
	// claims for them is ignored. Priority resolution must precede scoring
	// because the official-source bonus reads the resolved priority.
	rec.DataSourcePriority = e.priorities.Resolve(rec.Source)
	score := e.scoring.Score(rec)
	rec.DataQualityScore = score.Score

	decision := e.baseline.Apply(ctx, domain.EntityKey(rec), rec, e.merging)

	e.logger.Debug("candidate evaluated",
		"park", rec.Name,
		"state", rec.State,
		"priority", rec.DataSourcePriority,
		"score", rec.DataQualityScore,
		"accept", decision.Accept,
		"reason", decision.Reason,
	)

	return domain.Evaluation{
		Status:      domain.EvalDecided,
		Record:      rec,
		Validation:  validation,
		Breakdown:   score.Breakdown,
		Decision:    &decision,
		EvaluatedAt: score.EvaluatedAt,
	}
}
