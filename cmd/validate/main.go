// Command validate runs an offline integrity check over a park-candidate
// fixture: it parses every payload, reports intra-batch duplicates and
// structural validation failures, verifies scoring consistency, and replays
// the full batch through the merge policy to confirm the stored baseline ends
// up dominated by the highest-trust, highest-quality candidate per park.
//
// Usage:
//
//	go run ./cmd/validate -candidates internal/pipeline/testdata/candidates.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/parkatlas/park-data-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	candidatesPath := flag.String("candidates", "", "path to candidate fixture JSON")
	flag.Parse()

	if *candidatesPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*candidatesPath); code != 0 {
		os.Exit(code)
	}
}

func run(candidatesPath string) int {
	// Fixed clock matching genmock for reproducible timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Park Candidate Integrity Validation ===")
	fmt.Println()

	payloads, err := loadPayloads(candidatesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load candidates: %v\n", err)
		return 1
	}

	records, parsePhase := parseAll(payloads)

	phases := []*phase{
		parsePhase,
		checkDeduplication(records),
		checkStructure(records),
		checkScoring(records),
		replayMergeDecisions(records),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Candidates: %d payloads, %d parsed\n", len(payloads), len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadPayloads(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payloads []json.RawMessage
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, err
	}
	return payloads, nil
}

// ── Phase 1: Parsing ──
// Every payload must deserialize, absorbing loosely typed fields.

func parseAll(payloads []json.RawMessage) ([]domain.ParkRecord, *phase) {
	p := &phase{name: "Phase 1: Payload Parsing"}

	var records []domain.ParkRecord
	for i, payload := range payloads {
		rec, err := domain.ParseRawCandidate(domain.RawCandidate{Value: payload})
		if err != nil {
			p.errorf("payload %d: %v", i, err)
			continue
		}
		if rec.ID == "" {
			p.errorf("payload %d: no ID assigned", i)
		}
		records = append(records, rec)
	}
	return records, p
}

// ── Phase 2: Deduplication ──
// First occurrence wins; the deduplicated batch must preserve input order.

func checkDeduplication(records []domain.ParkRecord) *phase {
	p := &phase{name: "Phase 2: Intra-Batch Deduplication"}

	unique := domain.Deduplicate(records)
	if len(unique) > len(records) {
		p.errorf("dedup grew the batch: %d -> %d", len(records), len(unique))
	}
	fmt.Printf("  Note: %d duplicate(s) dropped\n", len(records)-len(unique))

	seen := map[string]bool{}
	pos := 0
	for _, rec := range records {
		key := domain.EntityKey(rec)
		if seen[key] {
			continue
		}
		seen[key] = true
		if pos >= len(unique) {
			p.errorf("first occurrence of %q missing from deduplicated batch", key)
			continue
		}
		if domain.EntityKey(unique[pos]) != key {
			p.errorf("position %d: expected entity %q, got %q", pos, key, domain.EntityKey(unique[pos]))
		}
		pos++
	}
	return p
}

// ── Phase 3: Structural Validation ──

func checkStructure(records []domain.ParkRecord) *phase {
	p := &phase{name: "Phase 3: Structural Validation"}

	invalid := 0
	for i, rec := range records {
		result := domain.Validate(rec)
		if !result.IsValid() {
			invalid++
			continue
		}
		// A valid record must never carry a validation error, and a record
		// without coordinates must carry the mappability warning.
		if len(result.Errors) != 0 {
			p.errorf("record %d (%s): valid but has errors: %v", i, rec.Name, result.Errors)
		}
		if rec.Latitude == "" && rec.Longitude == "" && len(result.Warnings) == 0 {
			p.errorf("record %d (%s): no coordinates but no warning", i, rec.Name)
		}
	}
	fmt.Printf("  Note: %d structurally invalid record(s)\n", invalid)
	return p
}

// ── Phase 4: Scoring Consistency ──
// Recompute priority and score for every valid record and check the scoring
// invariants: breakdown sums to the total, totals stay within 0-100, and the
// official-source bonus appears exactly when the resolved priority clears the
// protected tier.

func checkScoring(records []domain.ParkRecord) *phase {
	p := &phase{name: "Phase 4: Scoring Consistency"}

	for i, rec := range records {
		if !domain.Validate(rec).IsValid() {
			continue
		}
		rec.DataSourcePriority = domain.ResolvePriority(rec.Source)
		result := domain.Score(rec)

		sum := 0
		for _, points := range result.Breakdown {
			sum += points
		}
		if sum != result.Score {
			p.errorf("record %d (%s): breakdown sums to %d, score is %d", i, rec.Name, sum, result.Score)
		}
		if result.Score < 0 || result.Score > 100 {
			p.errorf("record %d (%s): score %d out of range", i, rec.Name, result.Score)
		}

		_, hasBonus := result.Breakdown["official_source"]
		if hasBonus != (rec.DataSourcePriority >= 90) {
			p.errorf("record %d (%s): official bonus=%v at priority %d", i, rec.Name, hasBonus, rec.DataSourcePriority)
		}
	}
	return p
}

// ── Phase 5: Merge Replay ──
// Replay every valid candidate against an empty baseline, one at a time, and
// verify the surviving record per park dominates everything that was offered:
// highest priority seen, and the best score among candidates at that priority.

func replayMergeDecisions(records []domain.ParkRecord) *phase {
	p := &phase{name: "Phase 5: Merge Decision Replay"}

	stored := map[string]domain.ParkRecord{}
	offered := map[string][]domain.ParkRecord{}
	reasons := map[domain.Reason]int{}

	for _, rec := range records {
		if !domain.Validate(rec).IsValid() {
			continue
		}
		rec.DataSourcePriority = domain.ResolvePriority(rec.Source)
		rec.DataQualityScore = domain.Score(rec).Score

		key := domain.EntityKey(rec)
		offered[key] = append(offered[key], rec)

		var existing *domain.ParkRecord
		if cur, ok := stored[key]; ok {
			existing = &cur
		}
		decision := domain.Decide(existing, rec)
		reasons[decision.Reason]++
		if decision.Accept {
			stored[key] = rec
		}
	}

	for reason, n := range reasons {
		fmt.Printf("  Note: %d decision(s) %s\n", n, reason)
	}

	for key, cur := range stored {
		for _, cand := range offered[key] {
			if cand.DataSourcePriority > cur.DataSourcePriority {
				p.errorf("entity %q: stored priority %d but candidate offered %d", key, cur.DataSourcePriority, cand.DataSourcePriority)
			}
			if cand.DataSourcePriority == cur.DataSourcePriority && cand.DataQualityScore > cur.DataQualityScore {
				p.errorf("entity %q: stored score %d but same-tier candidate offered %d", key, cur.DataQualityScore, cand.DataQualityScore)
			}
		}
	}
	return p
}
