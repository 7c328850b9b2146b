// Package resolve picks a single value for a field from conflicting,
// confidence-weighted candidates.
package resolve

import (
	"reflect"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/parsing"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

// EqualFunc reports whether two candidate values mean the same thing.
type EqualFunc[T any] func(a, b T) bool

// Text compares strings after parsing.NormalizeText.
func Text(a, b string) bool {
	return parsing.EqualText(a, b)
}

// Exact compares values with ==.
func Exact[T comparable](a, b T) bool {
	return a == b
}

// Resolver holds the immutable settings used by every resolution. It is
// safe for concurrent use.
type Resolver struct {
	floor      float64
	precedence map[types.SourceTag]int // lower is stronger
}

// New creates a Resolver from configuration.
func New(cfg config.ResolverConfig) *Resolver {
	precedence := make(map[types.SourceTag]int, len(cfg.SourcePrecedence))
	for i, tag := range cfg.SourcePrecedence {
		if _, ok := precedence[tag]; !ok {
			precedence[tag] = i
		}
	}
	// Tags missing from the configured order rank after all configured ones
	for _, tag := range types.KnownSources {
		if _, ok := precedence[tag]; !ok {
			precedence[tag] = len(precedence)
		}
	}
	return &Resolver{
		floor:      cfg.ResumePriorityFloor,
		precedence: precedence,
	}
}

// rank returns the strongest precedence among the set's sources.
func (r *Resolver) rank(s types.SourceSet) int {
	best := len(r.precedence)
	for _, tag := range s.Tags() {
		if p := r.precedence[tag]; p < best {
			best = p
		}
	}
	return best
}

// Resolve returns the winning value for one field. Absent candidates are
// ignored; with no present candidates the result is absent with confidence 0.
func Resolve[T any](r *Resolver, candidates []types.ConfidenceValue[T], strategy types.Strategy, equal EqualFunc[T]) types.ConfidenceValue[T] {
	v, _ := Explain(r, "", candidates, strategy, equal)
	return v
}

// ResolveText resolves a string field using normalized text equality.
func ResolveText(r *Resolver, field string, candidates []types.ConfidenceValue[string], strategy types.Strategy) (types.ConfidenceValue[string], types.Resolution) {
	return Explain(r, field, candidates, strategy, Text)
}

// Explain resolves like Resolve and also returns a record of the decision.
// A nil equal falls back to reflect.DeepEqual. An unknown strategy behaves
// like highest_confidence.
func Explain[T any](r *Resolver, field string, candidates []types.ConfidenceValue[T], strategy types.Strategy, equal EqualFunc[T]) (types.ConfidenceValue[T], types.Resolution) {
	rec := types.Resolution{Field: field, Strategy: strategy}
	if equal == nil {
		equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}

	groups := groupCandidates(candidates, equal)
	for _, g := range groups {
		rec.Candidates += len(g.members)
	}
	rec.DistinctValues = len(groups)
	rec.Conflict = len(groups) > 1

	switch {
	case len(groups) == 0:
		return types.Absent[T](), rec
	case rec.Candidates == 1:
		only := candidates[groups[0].members[0]]
		only.Confidence = types.ClampConfidence(only.Confidence)
		rec.WinnerSources = only.Sources
		rec.Confidence = only.Confidence
		return only, rec
	}

	var winner *group[T]
	switch strategy {
	case types.StrategyResumePriority:
		winner = pickResumePriority(r, groups)
	case types.StrategySourcePriority:
		winner = pickSourcePriority(r, groups)
	default:
		winner = pickHighestConfidence(r, groups)
	}

	value := winner.value
	out := types.ConfidenceValue[T]{
		Value:      &value,
		Confidence: types.ClampConfidence(winner.confidence()),
		Sources:    winner.sources,
	}
	rec.WinnerSources = out.Sources
	rec.Confidence = out.Confidence
	return out, rec
}

// pickHighestConfidence picks the group with the greatest combined
// confidence. Ties go to the stronger source, then to the earliest-declared
// candidate.
func pickHighestConfidence[T any](r *Resolver, groups []*group[T]) *group[T] {
	best := groups[0]
	for _, g := range groups[1:] {
		gc, bc := g.confidence(), best.confidence()
		switch {
		case gc > bc:
			best = g
		case gc == bc:
			if gr, br := r.rank(g.sources), r.rank(best.sources); gr < br || (gr == br && g.first < best.first) {
				best = g
			}
		}
	}
	return best
}

// pickSourcePriority picks the group backed by the strongest source in the
// configured precedence. Ties go to higher confidence, then declaration order.
func pickSourcePriority[T any](r *Resolver, groups []*group[T]) *group[T] {
	best := groups[0]
	for _, g := range groups[1:] {
		gr, br := r.rank(g.sources), r.rank(best.sources)
		switch {
		case gr < br:
			best = g
		case gr == br:
			if gc, bc := g.confidence(), best.confidence(); gc > bc || (gc == bc && g.first < best.first) {
				best = g
			}
		}
	}
	return best
}

// pickResumePriority keeps the resume-backed value when its confidence is
// strictly above the floor. Otherwise the highest-confidence value from the
// other sources wins, or from all values when only the resume spoke.
func pickResumePriority[T any](r *Resolver, groups []*group[T]) *group[T] {
	var resume, others []*group[T]
	for _, g := range groups {
		if g.sources.Has(types.SourceResume) {
			resume = append(resume, g)
		} else {
			others = append(others, g)
		}
	}

	if len(resume) > 0 {
		best := pickHighestConfidence(r, resume)
		if best.confidence() > r.floor {
			return best
		}
	}
	if len(others) > 0 {
		return pickHighestConfidence(r, others)
	}
	return pickHighestConfidence(r, groups)
}
