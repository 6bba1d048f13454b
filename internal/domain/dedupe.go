package domain

// Deduplicate collapses candidates that refer to the same entity, keeping the
// first occurrence per entity key in input order. This is batch-local: it
// never consults stored records and has no interaction with the merge policy.
func Deduplicate(candidates []ParkRecord) []ParkRecord {
	seen := make(map[string]bool, len(candidates))
	out := make([]ParkRecord, 0, len(candidates))
	for _, rec := range candidates {
		key := EntityKey(rec)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}
