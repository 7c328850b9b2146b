// Package types provides type definitions for structured data used throughout the candidate enrichment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceSet_Operations(t *testing.T) {
	s := NewSourceSet(SourceResume)
	assert.True(t, s.Has(SourceResume))
	assert.False(t, s.Has(SourceCodeProfile))
	assert.Equal(t, 1, s.Len())

	s = s.Add(SourceNetworkProfile).Add(SourceResume)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []SourceTag{SourceResume, SourceNetworkProfile}, s.Tags())

	other := NewSourceSet(SourceCodeProfile)
	assert.False(t, s.Intersects(other))
	assert.Equal(t, 3, s.Union(other).Len())

	assert.True(t, NewSourceSet(SourceTag("bogus")).Empty())
	assert.False(t, SourceSet(0).Has(SourceTag("bogus")))
}

func TestSourceSet_JSON(t *testing.T) {
	s := NewSourceSet(SourceNetworkProfile, SourceResume)
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["resume","network_profile"]`, string(data))

	empty, err := json.Marshal(SourceSet(0))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(empty))

	var decoded SourceSet
	require.NoError(t, json.Unmarshal([]byte(`["code_profile","resume"]`), &decoded))
	assert.Equal(t, NewSourceSet(SourceCodeProfile, SourceResume), decoded)

	err = json.Unmarshal([]byte(`["fax"]`), &decoded)
	assert.Error(t, err)
}

func TestConfidenceValue_KnownAndAbsent(t *testing.T) {
	v := Known("a@x.com", 1.7, SourceResume)
	assert.True(t, v.Present())
	assert.Equal(t, 1.0, v.Confidence)
	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", got)

	a := Absent[string]()
	assert.False(t, a.Present())
	assert.Equal(t, 0.0, a.Confidence)
	assert.Equal(t, "", a.OrZero())
	assert.True(t, a.Sources.Empty())

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":null,"confidence":0,"sources":[]}`, string(data))
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{3, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampConfidence(tt.in))
	}
}

func TestCombineIndependent(t *testing.T) {
	assert.Equal(t, 0.0, CombineIndependent())
	assert.InDelta(t, 0.6, CombineIndependent(0.6), 1e-12)
	assert.InDelta(t, 0.94, CombineIndependent(0.8, 0.7), 1e-12)

	// Adding evidence never lowers the result.
	prev := 0.0
	for _, c := range []float64{0.1, 0, 0.5, 0.3, 0.9} {
		next := CombineIndependent(prev, c)
		assert.GreaterOrEqual(t, next, prev)
		prev = next
	}
	assert.LessOrEqual(t, prev, 1.0)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("highest_confidence")
	require.NoError(t, err)
	assert.Equal(t, StrategyHighestConfidence, s)

	_, err = ParseStrategy("majority_vote")
	assert.Error(t, err)
}

func TestProficiencyLevel_Rank(t *testing.T) {
	assert.Less(t, ProficiencyBeginner.Rank(), ProficiencyIntermediate.Rank())
	assert.Less(t, ProficiencyIntermediate.Rank(), ProficiencyAdvanced.Rank())
	assert.Less(t, ProficiencyAdvanced.Rank(), ProficiencyExpert.Rank())
	assert.Equal(t, 0, ProficiencyLevel("guru").Rank())
}
