package domain

// Reason explains a merge decision.
type Reason string

const (
	ReasonNewRecord       Reason = "NEW_RECORD"
	ReasonProtected       Reason = "PROTECTED_HIGH_TRUST_SOURCE"
	ReasonHigherPriority  Reason = "HIGHER_PRIORITY_SOURCE"
	ReasonImprovedQuality Reason = "IMPROVED_QUALITY"
	ReasonNoImprovement   Reason = "NO_IMPROVEMENT"
)

// Decision is the outcome of comparing a candidate against the stored record.
type Decision struct {
	Accept bool   `json:"accept"`
	Reason Reason `json:"reason"`
}

// MergePolicy decides whether a candidate record may replace the stored one.
type MergePolicy struct {
	// ProtectedPriority is the trust tier at or above which a stored record
	// can never be overwritten by a lower-tier candidate.
	ProtectedPriority int `json:"protected_priority"`
}

// DefaultMergePolicy returns the production merge policy.
func DefaultMergePolicy() MergePolicy {
	return MergePolicy{ProtectedPriority: 90}
}

// Decide compares a candidate against the existing stored record. Both carry
// their resolved priority and score; a nil existing record means no prior
// record for the entity. Rules are evaluated in strict order, first match
// wins, and priority strictly dominates score: score only breaks ties at
// equal priority. Ties in both reject, favoring stability over churn.
func (m MergePolicy) Decide(existing *ParkRecord, candidate ParkRecord) Decision {
	if existing == nil {
		return Decision{Accept: true, Reason: ReasonNewRecord}
	}

	ep, es := existing.DataSourcePriority, existing.DataQualityScore
	np, ns := candidate.DataSourcePriority, candidate.DataQualityScore

	// Safety invariant, checked before any other comparison: authoritative
	// data is never downgraded by a lower-trust source, regardless of score.
	if ep >= m.ProtectedPriority && np < m.ProtectedPriority {
		return Decision{Accept: false, Reason: ReasonProtected}
	}

	if np > ep {
		return Decision{Accept: true, Reason: ReasonHigherPriority}
	}

	if np == ep && ns > es {
		return Decision{Accept: true, Reason: ReasonImprovedQuality}
	}

	return Decision{Accept: false, Reason: ReasonNoImprovement}
}

// Decide compares a candidate against the stored record using the default
// merge policy.
func Decide(existing *ParkRecord, candidate ParkRecord) Decision {
	return DefaultMergePolicy().Decide(existing, candidate)
}
