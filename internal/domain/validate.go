package domain

import "strings"

// ValidationResult lists blocking errors and non-blocking warnings for a
// candidate record. A record with any error never reaches the merge policy.
type ValidationResult struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// IsValid reports whether the record may enter the pipeline.
func (v ValidationResult) IsValid() bool {
	return len(v.Errors) == 0
}

// Validate checks the structural validity of a candidate record.
//
// Errors: blank name, blank state, and each supplied coordinate that fails to
// parse or is out of range. A coordinate that was simply not supplied is not
// an error even when its counterpart is present.
//
// Warnings: no coordinates at all, since the record will not be mappable.
func Validate(rec ParkRecord) ValidationResult {
	var result ValidationResult

	if strings.TrimSpace(rec.Name) == "" {
		result.Errors = append(result.Errors, "missing name")
	}
	if strings.TrimSpace(rec.State) == "" {
		result.Errors = append(result.Errors, "missing state")
	}

	lat, latSupplied, latOK := parseCoordinate(rec.Latitude)
	lng, lngSupplied, lngOK := parseCoordinate(rec.Longitude)

	if latSupplied && (!latOK || !validLatitude(lat)) {
		result.Errors = append(result.Errors, "invalid latitude")
	}
	if lngSupplied && (!lngOK || !validLongitude(lng)) {
		result.Errors = append(result.Errors, "invalid longitude")
	}

	if !latSupplied && !lngSupplied {
		result.Warnings = append(result.Warnings, "no coordinates: record will not be mappable")
	}

	return result
}
