package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_CompleteRecord(t *testing.T) {
	result := Validate(fullRecord())

	assert.True(t, result.IsValid())
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_MissingStateAndBadLatitude(t *testing.T) {
	result := Validate(ParkRecord{Name: "Pine Park", State: "", Latitude: "95"})

	assert.False(t, result.IsValid())
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors, "missing state")
	assert.Contains(t, result.Errors, "invalid latitude")
	assert.Empty(t, result.Warnings)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		rec      ParkRecord
		errors   []string
		warnings int
	}{
		{
			name:     "empty record",
			rec:      ParkRecord{},
			errors:   []string{"missing name", "missing state"},
			warnings: 1,
		},
		{
			name:     "whitespace name",
			rec:      ParkRecord{Name: "  ", State: "CA"},
			errors:   []string{"missing name"},
			warnings: 1,
		},
		{
			name:   "valid coordinates",
			rec:    ParkRecord{Name: "Oak Park", State: "CA", Latitude: "38.5", Longitude: "-121.5"},
			errors: nil,
		},
		{
			name:   "both coordinates invalid",
			rec:    ParkRecord{Name: "Oak Park", State: "CA", Latitude: "abc", Longitude: "-200"},
			errors: []string{"invalid latitude", "invalid longitude"},
		},
		{
			name:   "latitude supplied alone",
			rec:    ParkRecord{Name: "Oak Park", State: "CA", Latitude: "38.5"},
			errors: nil,
		},
		{
			name:     "no coordinates warns",
			rec:      ParkRecord{Name: "Oak Park", State: "CA"},
			errors:   nil,
			warnings: 1,
		},
		{
			name:   "latitude range edges",
			rec:    ParkRecord{Name: "Oak Park", State: "AK", Latitude: "-90", Longitude: "180"},
			errors: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.rec)
			assert.ElementsMatch(t, tt.errors, result.Errors)
			assert.Len(t, result.Warnings, tt.warnings)
			assert.Equal(t, len(tt.errors) == 0, result.IsValid())
		})
	}
}
