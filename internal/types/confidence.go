// Package types provides type definitions for structured data used throughout the candidate enrichment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"math/bits"
)

// SourceTag identifies where a piece of evidence came from.
type SourceTag string

const (
	SourceResume         SourceTag = "resume"
	SourceCodeProfile    SourceTag = "code_profile"
	SourceNetworkProfile SourceTag = "network_profile"
)

// KnownSources lists every SourceTag in serialization order.
var KnownSources = []SourceTag{SourceResume, SourceCodeProfile, SourceNetworkProfile}

// Valid reports whether the tag is one of the known sources.
func (s SourceTag) Valid() bool {
	return s.bit() != 0
}

func (s SourceTag) bit() SourceSet {
	switch s {
	case SourceResume:
		return 1 << 0
	case SourceCodeProfile:
		return 1 << 1
	case SourceNetworkProfile:
		return 1 << 2
	default:
		return 0
	}
}

// SourceSet is an unordered set of SourceTags.
// The zero value is the empty set.
type SourceSet uint8

// NewSourceSet builds a set from the given tags. Unknown tags are ignored.
func NewSourceSet(tags ...SourceTag) SourceSet {
	var s SourceSet
	for _, t := range tags {
		s |= t.bit()
	}
	return s
}

// Add returns a copy of the set with tag included.
func (s SourceSet) Add(tag SourceTag) SourceSet {
	return s | tag.bit()
}

// Has reports whether tag is in the set.
func (s SourceSet) Has(tag SourceTag) bool {
	b := tag.bit()
	return b != 0 && s&b != 0
}

// Union returns the set of tags present in either set.
func (s SourceSet) Union(other SourceSet) SourceSet {
	return s | other
}

// Intersects reports whether the sets share any tag.
func (s SourceSet) Intersects(other SourceSet) bool {
	return s&other != 0
}

// Len returns the number of tags in the set.
func (s SourceSet) Len() int {
	return bits.OnesCount8(uint8(s))
}

// Empty reports whether the set has no tags.
func (s SourceSet) Empty() bool {
	return s == 0
}

// Tags returns the members in KnownSources order.
func (s SourceSet) Tags() []SourceTag {
	tags := make([]SourceTag, 0, s.Len())
	for _, t := range KnownSources {
		if s.Has(t) {
			tags = append(tags, t)
		}
	}
	return tags
}

// MarshalJSON encodes the set as a JSON array of tag names.
func (s SourceSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tags())
}

// UnmarshalJSON decodes a JSON array of tag names.
func (s *SourceSet) UnmarshalJSON(data []byte) error {
	var tags []SourceTag
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	var out SourceSet
	for _, t := range tags {
		if !t.Valid() {
			return fmt.Errorf("unknown source tag: %q", t)
		}
		out = out.Add(t)
	}
	*s = out
	return nil
}

// ConfidenceValue is a value paired with a confidence in [0,1] and the set
// of sources that support it. A nil Value means the value is absent.
type ConfidenceValue[T any] struct {
	Value      *T        `json:"value"`
	Confidence float64   `json:"confidence"`
	Sources    SourceSet `json:"sources"`
}

// Known returns a present value with the given confidence and sources.
func Known[T any](v T, confidence float64, sources ...SourceTag) ConfidenceValue[T] {
	return ConfidenceValue[T]{
		Value:      &v,
		Confidence: ClampConfidence(confidence),
		Sources:    NewSourceSet(sources...),
	}
}

// Absent returns an absent value with zero confidence.
func Absent[T any]() ConfidenceValue[T] {
	return ConfidenceValue[T]{}
}

// Present reports whether the value is set.
func (c ConfidenceValue[T]) Present() bool {
	return c.Value != nil
}

// Get returns the value and whether it was present.
func (c ConfidenceValue[T]) Get() (T, bool) {
	if c.Value == nil {
		var zero T
		return zero, false
	}
	return *c.Value, true
}

// OrZero returns the value, or the zero value of T when absent.
func (c ConfidenceValue[T]) OrZero() T {
	v, _ := c.Get()
	return v
}

// ClampConfidence bounds c to [0,1]. NaN maps to 0.
func ClampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}

// CombineIndependent combines independent confidences with probabilistic OR:
// 1 - prod(1 - c_i).
func CombineIndependent(confidences ...float64) float64 {
	if len(confidences) == 1 {
		return ClampConfidence(confidences[0])
	}
	miss := 1.0
	for _, c := range confidences {
		miss *= 1 - ClampConfidence(c)
	}
	return ClampConfidence(1 - miss)
}
