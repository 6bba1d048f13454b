package pipeline

import (
	"context"
	"sync"

	"github.com/parkatlas/park-data-etl/internal/domain"
)

// BaselineStore owns the current record per entity, the single comparison
// baseline future candidates are judged against. The engine itself is
// stateless; this is the collaborator-side seam where storage plugs in.
//
// Apply must serialize the read-decide-write sequence per entity key: two
// concurrent candidates for the same park must not both be decided against
// the same stale baseline, or an accept can be silently lost.
type BaselineStore interface {
	Apply(ctx context.Context, key string, candidate domain.ParkRecord, policy domain.MergePolicy) domain.Decision

	// Get returns the stored record for an entity, if any.
	Get(key string) (domain.ParkRecord, bool)
}

// MemoryBaseline is an in-memory BaselineStore with a lock per entity.
type MemoryBaseline struct {
	mu      sync.Mutex
	entries map[string]*baselineEntry
}

type baselineEntry struct {
	mu  sync.Mutex
	rec *domain.ParkRecord
}

// NewMemoryBaseline creates an empty in-memory baseline store.
func NewMemoryBaseline() *MemoryBaseline {
	return &MemoryBaseline{entries: make(map[string]*baselineEntry)}
}

// Apply decides the candidate against the stored record under the entity's
// lock and replaces the record when accepted. Acceptance replaces the whole
// record; there is no field-level merge.
func (b *MemoryBaseline) Apply(_ context.Context, key string, candidate domain.ParkRecord, policy domain.MergePolicy) domain.Decision {
	entry := b.entry(key)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	decision := policy.Decide(entry.rec, candidate)
	if decision.Accept {
		stored := candidate
		entry.rec = &stored
	}
	return decision
}

// Get returns a copy of the stored record for an entity, if any.
func (b *MemoryBaseline) Get(key string) (domain.ParkRecord, bool) {
	b.mu.Lock()
	entry, ok := b.entries[key]
	b.mu.Unlock()
	if !ok {
		return domain.ParkRecord{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.rec == nil {
		return domain.ParkRecord{}, false
	}
	return *entry.rec, true
}

// Len returns the number of entities currently holding a stored record.
func (b *MemoryBaseline) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, entry := range b.entries {
		entry.mu.Lock()
		if entry.rec != nil {
			n++
		}
		entry.mu.Unlock()
	}
	return n
}

func (b *MemoryBaseline) entry(key string) *baselineEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[key]
	if !ok {
		entry = &baselineEntry{}
		b.entries[key] = entry
	}
	return entry
}
