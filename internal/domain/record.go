package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawCandidate represents an unprocessed message from the source topic.
type RawCandidate struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ParkRecord is a single park as submitted by an ingestion source or as
// currently stored. Latitude and longitude are kept as the strings the source
// supplied; both the scorer and the validator parse them on demand, so a
// non-numeric coordinate is "criterion not met" rather than a crash.
type ParkRecord struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name"`
	State       string      `json:"state"`
	Agency      string      `json:"agency,omitempty"`
	Description string      `json:"description,omitempty"`
	Latitude    string      `json:"latitude,omitempty"`
	Longitude   string      `json:"longitude,omitempty"`
	Website     string      `json:"website,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Email       string      `json:"email,omitempty"`
	Amenities   []string    `json:"amenities,omitempty"`
	Activities  []string    `json:"activities,omitempty"`
	Boundaries  [][]float64 `json:"boundaries,omitempty"` // polygon vertices as [lng, lat]
	Source      string      `json:"source,omitempty"`

	// Derived by the engine on every evaluation, never supplied upstream.
	DataSourcePriority int `json:"data_source_priority"`
	DataQualityScore   int `json:"data_quality_score"`
}

// rawRecord is the loosely typed JSON shape produced by ingestion collaborators.
// Sources disagree on types: coordinates arrive as numbers or strings, list
// fields as JSON arrays or comma-separated text. flexString/flexList absorb
// both so normalization stays at the boundary instead of inside the policy code.
type rawRecord struct {
	ID          flexString      `json:"id"`
	Name        flexString      `json:"name"`
	State       flexString      `json:"state"`
	Agency      flexString      `json:"agency"`
	Description flexString      `json:"description"`
	Latitude    flexString      `json:"latitude"`
	Longitude   flexString      `json:"longitude"`
	Website     flexString      `json:"website"`
	Phone       flexString      `json:"phone"`
	Email       flexString      `json:"email"`
	Amenities   flexList        `json:"amenities"`
	Activities  flexList        `json:"activities"`
	Boundaries  json.RawMessage `json:"boundaries"`
	Source      flexString      `json:"source"`
}

// flexString accepts a JSON string, number, or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(v))
		return nil
	}
	*f = flexString(s)
	return nil
}

// flexList accepts a JSON array of strings or a single comma-separated string.
// Entries are trimmed and empties dropped either way.
type flexList []string

func (f *flexList) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = nil
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*f = splitAndTrim(strings.Join(items, ","))
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = splitAndTrim(v)
	return nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseRawCandidate deserializes a RawCandidate's value into a ParkRecord,
// normalizing loosely typed fields at the boundary. Records arriving without
// an id get a deterministic one derived from name and state.
func ParseRawCandidate(raw RawCandidate) (ParkRecord, error) {
	var rec rawRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return ParkRecord{}, fmt.Errorf("parse raw candidate: %w", err)
	}

	source := string(rec.Source)
	if source == "" {
		source = raw.Headers["source"]
	}

	record := ParkRecord{
		ID:          string(rec.ID),
		Name:        string(rec.Name),
		State:       string(rec.State),
		Agency:      string(rec.Agency),
		Description: string(rec.Description),
		Latitude:    string(rec.Latitude),
		Longitude:   string(rec.Longitude),
		Website:     string(rec.Website),
		Phone:       string(rec.Phone),
		Email:       string(rec.Email),
		Amenities:   rec.Amenities,
		Activities:  rec.Activities,
		Boundaries:  parseBoundaries(rec.Boundaries),
		Source:      source,
	}

	if record.ID == "" {
		record.ID = generateID(record.Name, record.State)
	}

	return record, nil
}

// parseBoundaries accepts a JSON array of [lng, lat] vertex pairs. Anything
// that does not fit that shape is treated as no boundary data.
func parseBoundaries(data json.RawMessage) [][]float64 {
	if len(data) == 0 {
		return nil
	}
	var verts [][]float64
	if err := json.Unmarshal(data, &verts); err != nil {
		return nil
	}
	if len(verts) == 0 {
		return nil
	}
	return verts
}

// EntityKey identifies the real-world park a record refers to. Deduplication
// and baseline lookup both use it, so an intra-batch duplicate and a stored
// baseline always collide on the same key.
func EntityKey(rec ParkRecord) string {
	return strings.ToLower(strings.TrimSpace(rec.Name)) + "|" + strings.ToLower(strings.TrimSpace(rec.State))
}

// generateID produces a deterministic ID from the record's identity fields.
// Reprocessing the same candidate yields the same ID, keeping downstream
// writes idempotent across replays.
func generateID(name, state string) string {
	hash := sha256.Sum256([]byte(EntityKey(ParkRecord{Name: name, State: state})))
	return "park-" + hex.EncodeToString(hash[:8])
}

// parseCoordinate parses a coordinate string, reporting whether it was
// supplied at all and whether it parsed as a number.
func parseCoordinate(s string) (value float64, supplied, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, false
	}
	return v, true, true
}

func validLatitude(v float64) bool  { return v >= -90 && v <= 90 }
func validLongitude(v float64) bool { return v >= -180 && v <= 180 }
