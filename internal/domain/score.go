package domain

import (
	"net/url"
	"strings"
	"time"
)

// Criterion names used as breakdown keys.
const (
	CriterionName           = "name"
	CriterionDescription    = "description"
	CriterionCoordinates    = "coordinates"
	CriterionWebsite        = "website"
	CriterionContact        = "contact"
	CriterionAmenities      = "amenities"
	CriterionActivities     = "activities"
	CriterionBoundaries     = "boundaries"
	CriterionOfficialSource = "official_source"
)

// ScorePolicy holds the additive completeness weights. Each criterion is
// independent and awarded at most once; the weights sum to the maximum
// attainable score of 100.
type ScorePolicy struct {
	Name        int `json:"name"`
	Description int `json:"description"`
	Coordinates int `json:"coordinates"`
	Website     int `json:"website"`
	Contact     int `json:"contact"`
	Amenities   int `json:"amenities"`
	Activities  int `json:"activities"`
	Boundaries  int `json:"boundaries"`

	// OfficialBonus is awarded when the record's resolved source priority is
	// at least OfficialPriority. Priority resolution runs before scoring.
	OfficialBonus    int `json:"official_bonus"`
	OfficialPriority int `json:"official_priority"`

	// MinDescriptionLen is the trimmed length a description must exceed.
	MinDescriptionLen int `json:"min_description_len"`
}

// DefaultScorePolicy returns the production scoring weights.
func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		Name:              15,
		Description:       10,
		Coordinates:       25,
		Website:           10,
		Contact:           10,
		Amenities:         10,
		Activities:        5,
		Boundaries:        10,
		OfficialBonus:     5,
		OfficialPriority:  90,
		MinDescriptionLen: 20,
	}
}

// ScoreResult carries the total completeness score, the per-criterion
// breakdown, and when the evaluation happened. Only awarded criteria appear
// in the breakdown; the total always equals the sum of its values.
type ScoreResult struct {
	Score       int            `json:"score"`
	Breakdown   map[string]int `json:"breakdown"`
	EvaluatedAt time.Time      `json:"evaluated_at"`
}

// Score computes the 0-100 completeness score for a record. The record's
// DataSourcePriority must already be resolved; the official-source bonus
// reads it. Malformed field values never error, they simply score nothing.
func (p ScorePolicy) Score(rec ParkRecord) ScoreResult {
	breakdown := make(map[string]int)
	award := func(criterion string, points int, met bool) {
		if met && points > 0 {
			breakdown[criterion] = points
		}
	}

	award(CriterionName, p.Name, strings.TrimSpace(rec.Name) != "")
	award(CriterionDescription, p.Description, len(strings.TrimSpace(rec.Description)) > p.MinDescriptionLen)
	award(CriterionCoordinates, p.Coordinates, hasValidCoordinates(rec))
	award(CriterionWebsite, p.Website, isWellFormedURL(rec.Website))
	award(CriterionContact, p.Contact, strings.TrimSpace(rec.Phone) != "" || strings.TrimSpace(rec.Email) != "")
	award(CriterionAmenities, p.Amenities, len(rec.Amenities) > 0)
	award(CriterionActivities, p.Activities, len(rec.Activities) > 0)
	award(CriterionBoundaries, p.Boundaries, len(rec.Boundaries) > 0)
	award(CriterionOfficialSource, p.OfficialBonus, rec.DataSourcePriority >= p.OfficialPriority)

	total := 0
	for _, points := range breakdown {
		total += points
	}

	return ScoreResult{
		Score:       total,
		Breakdown:   breakdown,
		EvaluatedAt: clock.Now().UTC(),
	}
}

func hasValidCoordinates(rec ParkRecord) bool {
	lat, _, latOK := parseCoordinate(rec.Latitude)
	lng, _, lngOK := parseCoordinate(rec.Longitude)
	return latOK && lngOK && validLatitude(lat) && validLongitude(lng)
}

// isWellFormedURL reports whether s parses as an absolute URL with a host.
// URL validity is advisory: parse failures score nothing, never propagate.
func isWellFormedURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Score computes a record's completeness using the default scoring weights.
func Score(rec ParkRecord) ScoreResult {
	return DefaultScorePolicy().Score(rec)
}
