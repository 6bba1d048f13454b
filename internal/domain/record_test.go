package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawCandidate(t *testing.T) {
	t.Run("structured record", func(t *testing.T) {
		data := []byte(`{
			"id": "park-abc",
			"name": "Pine Ridge State Park",
			"state": "CA",
			"agency": "California State Parks",
			"latitude": "38.5816",
			"longitude": "-121.4944",
			"amenities": ["restrooms", "picnic tables"],
			"activities": ["hiking"],
			"boundaries": [[-121.50, 38.58], [-121.49, 38.58], [-121.49, 38.59]],
			"source": "State Parks API"
		}`)

		rec, err := ParseRawCandidate(RawCandidate{Value: data})
		require.NoError(t, err)

		assert.Equal(t, "park-abc", rec.ID)
		assert.Equal(t, "Pine Ridge State Park", rec.Name)
		assert.Equal(t, "CA", rec.State)
		assert.Equal(t, "38.5816", rec.Latitude)
		assert.Equal(t, []string{"restrooms", "picnic tables"}, rec.Amenities)
		assert.Len(t, rec.Boundaries, 3)
		assert.Equal(t, "State Parks API", rec.Source)
	})

	t.Run("numeric coordinates", func(t *testing.T) {
		data := []byte(`{"name":"Oak Park","state":"TX","latitude":31.02,"longitude":-98.44}`)
		rec, err := ParseRawCandidate(RawCandidate{Value: data})
		require.NoError(t, err)
		assert.Equal(t, "31.02", rec.Latitude)
		assert.Equal(t, "-98.44", rec.Longitude)
	})

	t.Run("comma-separated lists", func(t *testing.T) {
		data := []byte(`{"name":"Oak Park","state":"TX","amenities":"restrooms, , trails ,","activities":" swimming,fishing "}`)
		rec, err := ParseRawCandidate(RawCandidate{Value: data})
		require.NoError(t, err)
		assert.Equal(t, []string{"restrooms", "trails"}, rec.Amenities)
		assert.Equal(t, []string{"swimming", "fishing"}, rec.Activities)
	})

	t.Run("source falls back to message header", func(t *testing.T) {
		data := []byte(`{"name":"Oak Park","state":"TX"}`)
		raw := RawCandidate{Value: data, Headers: map[string]string{"source": "NPS collector"}}
		rec, err := ParseRawCandidate(raw)
		require.NoError(t, err)
		assert.Equal(t, "NPS collector", rec.Source)
	})

	t.Run("malformed boundaries become empty", func(t *testing.T) {
		data := []byte(`{"name":"Oak Park","state":"TX","boundaries":"not geometry"}`)
		rec, err := ParseRawCandidate(RawCandidate{Value: data})
		require.NoError(t, err)
		assert.Empty(t, rec.Boundaries)
	})

	t.Run("null fields", func(t *testing.T) {
		data := []byte(`{"name":"Oak Park","state":"TX","agency":null,"amenities":null,"latitude":null}`)
		rec, err := ParseRawCandidate(RawCandidate{Value: data})
		require.NoError(t, err)
		assert.Empty(t, rec.Agency)
		assert.Empty(t, rec.Amenities)
		assert.Empty(t, rec.Latitude)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRawCandidate(RawCandidate{Value: []byte("{broken")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw candidate")
	})

	t.Run("deterministic generated ID", func(t *testing.T) {
		data := []byte(`{"name":"Oak Park","state":"TX"}`)
		rec1, err := ParseRawCandidate(RawCandidate{Value: data})
		require.NoError(t, err)
		rec2, err := ParseRawCandidate(RawCandidate{Value: []byte(`{"name":"oak park","state":"tx"}`)})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(rec1.ID, "park-"))
		assert.Equal(t, rec1.ID, rec2.ID, "ID is case-insensitive on name and state")
	})
}

func TestEntityKey(t *testing.T) {
	a := EntityKey(ParkRecord{Name: "Pine Park", State: "CA"})
	b := EntityKey(ParkRecord{Name: " pine park ", State: "ca"})
	c := EntityKey(ParkRecord{Name: "Pine Park", State: "NV"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
