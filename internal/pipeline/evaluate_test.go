package pipeline_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/parkatlas/park-data-etl/internal/domain"
	"github.com/parkatlas/park-data-etl/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluator_EvaluateBatch_MarksDuplicates(t *testing.T) {
	batch := []domain.RawCandidate{
		makeRawCandidate(t, "Pine Park", "CA", "NPS collector"),
		makeRawCandidate(t, "Oak Park", "OR", "manual entry"),
		makeRawCandidate(t, "PINE PARK", "ca", "state scrape"),
	}

	eval := pipeline.NewEvaluator(pipeline.NewMemoryBaseline(), slog.Default())
	results := eval.EvaluateBatch(context.Background(), batch)

	require.Len(t, results, 3, "one result per input, in input order")
	assert.False(t, results[0].Duplicate)
	assert.False(t, results[1].Duplicate)
	assert.True(t, results[2].Duplicate, "same name and state, case-insensitive")
	assert.Equal(t, "Pine Park", results[0].Evaluation.Record.Name)
}

func TestEvaluator_EvaluateBatch_ParseError(t *testing.T) {
	batch := []domain.RawCandidate{
		{Value: []byte("not json")},
		makeRawCandidate(t, "Oak Park", "OR", "manual entry"),
	}

	eval := pipeline.NewEvaluator(pipeline.NewMemoryBaseline(), slog.Default())
	results := eval.EvaluateBatch(context.Background(), batch)

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, domain.EvalDecided, results[1].Evaluation.Status)
}

func TestEvaluator_InvalidCandidateNotDecided(t *testing.T) {
	baseline := pipeline.NewMemoryBaseline()
	eval := pipeline.NewEvaluator(baseline, slog.Default())

	batch := []domain.RawCandidate{
		{Value: []byte(`{"name":"Pine Park","state":"","latitude":"95"}`)},
	}
	results := eval.EvaluateBatch(context.Background(), batch)

	require.Len(t, results, 1)
	out := results[0].Evaluation
	assert.Equal(t, domain.EvalInvalid, out.Status)
	assert.Len(t, out.Validation.Errors, 2)
	assert.Nil(t, out.Decision)
	assert.Equal(t, 0, baseline.Len(), "invalid candidates never reach the baseline")
}

func TestEvaluator_RecomputesDerivedFields(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() {
		domain.SetClock(nil)
	})

	// The payload claims top-tier derived values; the engine must ignore them.
	raw := domain.RawCandidate{Value: []byte(`{
		"name": "Pine Park",
		"state": "CA",
		"latitude": "37.8651",
		"longitude": "-119.5383",
		"source": "manual entry",
		"data_source_priority": 100,
		"data_quality_score": 100
	}`)}

	eval := pipeline.NewEvaluator(pipeline.NewMemoryBaseline(), slog.Default())
	results := eval.EvaluateBatch(context.Background(), []domain.RawCandidate{raw})

	require.Len(t, results, 1)
	out := results[0].Evaluation
	require.Equal(t, domain.EvalDecided, out.Status)

	assert.Equal(t, 80, out.Record.DataSourcePriority, "manual entries resolve to 80, not whatever the payload claims")
	assert.Equal(t, 40, out.Record.DataQualityScore)
	assert.Equal(t, fakeClock.Now().UTC(), out.EvaluatedAt)

	expected := map[string]int{
		"name":        15,
		"coordinates": 25,
	}
	if diff := cmp.Diff(expected, out.Breakdown); diff != "" {
		t.Fatalf("breakdown mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluator_BaselineDecisionSequence(t *testing.T) {
	baseline := pipeline.NewMemoryBaseline()
	eval := pipeline.NewEvaluator(baseline, slog.Default())
	ctx := context.Background()

	decide := func(raw domain.RawCandidate) domain.Decision {
		results := eval.EvaluateBatch(ctx, []domain.RawCandidate{raw})
		require.Len(t, results, 1)
		require.Equal(t, domain.EvalDecided, results[0].Evaluation.Status)
		require.NotNil(t, results[0].Evaluation.Decision)
		return *results[0].Evaluation.Decision
	}

	official := makeRawCandidate(t, "Pine Park", "CA", "NPS collector")
	first := decide(official)
	assert.Equal(t, domain.Decision{Accept: true, Reason: domain.ReasonNewRecord}, first)

	// A richer scrape record cannot displace the official baseline.
	scrape := domain.RawCandidate{Value: []byte(`{
		"name": "Pine Park",
		"state": "CA",
		"source": "community scrape",
		"description": "A lovely park with extensive trail networks and lake access",
		"latitude": "37.8651",
		"longitude": "-119.5383",
		"website": "https://pinepark.example.org",
		"phone": "555-0100",
		"amenities": ["parking", "restrooms"],
		"activities": ["hiking"]
	}`)}
	second := decide(scrape)
	assert.Equal(t, domain.Decision{Accept: false, Reason: domain.ReasonProtected}, second)

	// An improved record from the same tier replaces the stored one.
	better := domain.RawCandidate{Value: []byte(`{
		"name": "Pine Park",
		"state": "CA",
		"source": "NPS collector",
		"description": "A lovely park with extensive trail networks and lake access",
		"latitude": "37.8651",
		"longitude": "-119.5383",
		"phone": "555-0100"
	}`)}
	third := decide(better)
	assert.Equal(t, domain.Decision{Accept: true, Reason: domain.ReasonImprovedQuality}, third)

	stored, ok := baseline.Get(domain.EntityKey(domain.ParkRecord{Name: "Pine Park", State: "CA"}))
	require.True(t, ok)
	assert.NotEmpty(t, stored.Phone, "baseline holds the latest accepted record")
}

func TestEvaluator_Policies(t *testing.T) {
	eval := pipeline.NewEvaluator(pipeline.NewMemoryBaseline(), slog.Default())
	priorities, scoring, merging := eval.Policies()

	assert.Equal(t, 40, priorities.Default)
	assert.Equal(t, 25, scoring.Coordinates)
	assert.Equal(t, 90, merging.ProtectedPriority)
}
