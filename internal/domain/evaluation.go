package domain

import "time"

// EvalStatus describes how far a candidate made it through the engine.
type EvalStatus string

const (
	// EvalDecided means the candidate passed validation and received a merge
	// decision against the stored baseline.
	EvalDecided EvalStatus = "decided"
	// EvalInvalid means validation rejected the candidate before it could
	// reach the merge policy.
	EvalInvalid EvalStatus = "invalid"
)

// Evaluation is the engine's full verdict on one candidate record: the
// normalized record with its derived priority and score, the validation
// outcome, and the merge decision. Decision is nil for invalid candidates.
type Evaluation struct {
	Status      EvalStatus       `json:"status"`
	Record      ParkRecord       `json:"record"`
	Validation  ValidationResult `json:"validation"`
	Breakdown   map[string]int   `json:"breakdown,omitempty"`
	Decision    *Decision        `json:"decision,omitempty"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
}
