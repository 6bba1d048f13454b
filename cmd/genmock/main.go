// Command genmock generates a deterministic park-candidate fixture covering
// every source trust tier, a duplicate submission, and malformed records. It
// runs the actual evaluation engine over the generated batch so the printed
// stats match real pipeline behavior and can be pasted into test assertions.
//
// Usage:
//
//	go run ./cmd/genmock -out internal/pipeline/testdata/candidates.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/parkatlas/park-data-etl/internal/domain"
	"github.com/parkatlas/park-data-etl/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the candidate fixture JSON")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	// Fixed clock for reproducible evaluation timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	candidates := buildCandidates()

	if err := writeJSON(*out, candidates); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d candidates: %s", len(candidates), *out)

	printStats(candidates)
	return nil
}

// buildCandidates returns one candidate per trust tier plus the edge cases the
// engine must absorb: a case-insensitive duplicate, a blank name, a
// non-numeric coordinate, and payloads with loosely typed fields (numeric
// coordinates, comma-separated lists).
func buildCandidates() []map[string]any {
	return []map[string]any{
		{
			"name":        "Yosemite National Park",
			"state":       "CA",
			"agency":      "National Park Service",
			"description": "Granite cliffs, waterfalls, and giant sequoia groves in the Sierra Nevada.",
			"latitude":    "37.8651",
			"longitude":   "-119.5383",
			"website":     "https://www.nps.gov/yose",
			"phone":       "209-372-0200",
			"email":       "yose_info@nps.gov",
			"amenities":   []string{"parking", "restrooms", "visitor center"},
			"activities":  []string{"hiking", "climbing"},
			"boundaries":  [][]float64{{-119.9, 37.5}, {-119.2, 37.5}, {-119.2, 38.2}, {-119.9, 38.2}},
			"source":      "NPS api sync",
		},
		{
			"name":        "Crater Lake National Park",
			"state":       "OR",
			"description": "The deepest lake in the United States, formed in a collapsed volcano.",
			"latitude":    42.9446,
			"longitude":   -122.1090,
			"website":     "https://www.recreation.gov/camping/gateways/2979",
			"source":      "recreation.gov import",
		},
		{
			"name":      "Custer State Park",
			"state":     "SD",
			"latitude":  "43.7641",
			"longitude": "-103.4190",
			"phone":     "605-255-4515",
			"amenities": "parking, camping, restrooms",
			"source":    "state parks api feed",
		},
		{
			"name":       "Pine Hollow Park",
			"state":      "TX",
			"latitude":   "32.7767",
			"longitude":  "-96.7970",
			"activities": []string{"fishing"},
			"source":     "manual entry",
		},
		{
			"name":   "Birch Bend Park",
			"state":  "VT",
			"email":  "parks@birchbend.example.org",
			"source": "email submission",
		},
		{
			"name":      "Maple Ridge Reserve",
			"state":     "MN",
			"latitude":  "46.7867",
			"longitude": "-92.1005",
			"website":   "https://www.dnr.state.mn.us/maple",
			"source":    "data.mn.gov export",
		},
		{
			"name":        "Cedar Flats Park",
			"state":       "NM",
			"description": "High-desert park with juniper stands and a seasonal creek crossing.",
			"latitude":    "35.0844",
			"longitude":   "-106.6504",
			"website":     "https://cedarflats.example.org",
			"phone":       "505-555-0142",
			"amenities":   []string{"parking"},
			"activities":  []string{"hiking"},
			"source":      "community scrape",
		},
		// Case-insensitive duplicate of the first entry.
		{
			"name":   "YOSEMITE NATIONAL PARK",
			"state":  "ca",
			"source": "community scrape",
		},
		// Structurally invalid: blank name.
		{
			"name":   "",
			"state":  "WY",
			"source": "manual entry",
		},
		// Non-numeric latitude.
		{
			"name":      "Granite Pass Park",
			"state":     "MT",
			"latitude":  "ninety",
			"longitude": "-110.5",
			"source":    "manual entry",
		},
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats replays the fixture through the engine and prints the counts the
// test suites assert on.
func printStats(candidates []map[string]any) {
	raws := make([]domain.RawCandidate, len(candidates))
	for i, c := range candidates {
		data, err := json.Marshal(c)
		if err != nil {
			log.Fatalf("marshal candidate %d: %v", i, err)
		}
		raws[i] = domain.RawCandidate{Value: data}
	}

	eval := pipeline.NewEvaluator(pipeline.NewMemoryBaseline(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	results := eval.EvaluateBatch(context.Background(), raws)

	var parseErrors, duplicates, invalid, decided int
	priorityCounts := map[int]int{}
	reasonCounts := map[domain.Reason]int{}

	for _, res := range results {
		switch {
		case res.Err != nil:
			parseErrors++
		case res.Duplicate:
			duplicates++
		case res.Evaluation.Status == domain.EvalInvalid:
			invalid++
		default:
			decided++
			priorityCounts[res.Evaluation.Record.DataSourcePriority]++
			if res.Evaluation.Decision != nil {
				reasonCounts[res.Evaluation.Decision.Reason]++
			}
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(results))
	fmt.Printf("Parse errors: %d, duplicates: %d, invalid: %d, decided: %d\n",
		parseErrors, duplicates, invalid, decided)

	priorities := make([]int, 0, len(priorityCounts))
	for p := range priorityCounts {
		priorities = append(priorities, p)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(priorities)))
	fmt.Print("By priority: ")
	for _, p := range priorities {
		fmt.Printf("%d=%d ", p, priorityCounts[p])
	}
	fmt.Println()

	for reason, n := range reasonCounts {
		fmt.Printf("Decision %s: %d\n", reason, n)
	}

	for _, res := range results {
		if res.Err != nil || res.Duplicate || res.Evaluation.Status != domain.EvalDecided {
			continue
		}
		rec := res.Evaluation.Record
		fmt.Printf("  %-28s %-2s priority=%-3d score=%d\n", rec.Name, rec.State, rec.DataSourcePriority, rec.DataQualityScore)
	}
}
