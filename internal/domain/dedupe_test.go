package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicate(t *testing.T) {
	batch := []ParkRecord{
		{Name: "Pine Park", State: "CA", Source: "NPS API"},
		{Name: "pine park", State: "ca", Source: "web scrape"},
		{Name: "Oak Park", State: "CA"},
	}

	out := Deduplicate(batch)

	require.Len(t, out, 2)
	assert.Equal(t, "Pine Park", out[0].Name)
	assert.Equal(t, "NPS API", out[0].Source, "first occurrence wins")
	assert.Equal(t, "Oak Park", out[1].Name)
}

func TestDeduplicate_PreservesOrder(t *testing.T) {
	batch := []ParkRecord{
		{Name: "C", State: "TX"},
		{Name: "A", State: "TX"},
		{Name: "B", State: "TX"},
		{Name: "a", State: "tx"},
		{Name: "C", State: "TX"},
	}

	out := Deduplicate(batch)

	require.Len(t, out, 3)
	assert.Equal(t, "C", out[0].Name)
	assert.Equal(t, "A", out[1].Name)
	assert.Equal(t, "B", out[2].Name)
}

func TestDeduplicate_SameNameDifferentState(t *testing.T) {
	batch := []ParkRecord{
		{Name: "Riverside Park", State: "NY"},
		{Name: "Riverside Park", State: "NJ"},
	}

	assert.Len(t, Deduplicate(batch), 2)
}

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil))
	assert.Empty(t, Deduplicate([]ParkRecord{}))
}
