package resolve

import "github.com/jonathan/candidate-enrichment/internal/types"

// contribution is one independent piece of support for a value. Within a
// group, contributions never share a source.
type contribution struct {
	confidence float64
	sources    types.SourceSet
}

// group collects candidates that agree on a value.
type group[T any] struct {
	value    T // representative: the earliest-declared candidate's value
	first    int
	members  []int
	contribs []contribution
	sources  types.SourceSet
}

// add folds a candidate into the group. A candidate sharing a source with
// existing contributions replaces them with max(c, OR(overlapped)) so a
// source is never counted twice.
func (g *group[T]) add(confidence float64, sources types.SourceSet) {
	merged := contribution{confidence: confidence, sources: sources}
	var overlapped []float64
	kept := make([]contribution, 0, len(g.contribs)+1)
	for _, c := range g.contribs {
		if c.sources.Intersects(sources) {
			overlapped = append(overlapped, c.confidence)
			merged.sources = merged.sources.Union(c.sources)
			continue
		}
		kept = append(kept, c)
	}
	if len(overlapped) > 0 {
		merged.confidence = max(confidence, types.CombineIndependent(overlapped...))
	}
	g.contribs = append(kept, merged)
	g.sources = g.sources.Union(sources)
}

// confidence is the probabilistic OR over the group's contributions.
func (g *group[T]) confidence() float64 {
	confs := make([]float64, len(g.contribs))
	for i, c := range g.contribs {
		confs[i] = c.confidence
	}
	return types.CombineIndependent(confs...)
}

// groupCandidates partitions present candidates by equality, in
// declaration order.
func groupCandidates[T any](candidates []types.ConfidenceValue[T], equal EqualFunc[T]) []*group[T] {
	var groups []*group[T]
	for i, c := range candidates {
		if !c.Present() {
			continue
		}
		conf := types.ClampConfidence(c.Confidence)

		var target *group[T]
		for _, g := range groups {
			if equal(g.value, *c.Value) {
				target = g
				break
			}
		}
		if target == nil {
			target = &group[T]{value: *c.Value, first: i}
			groups = append(groups, target)
		}
		target.members = append(target.members, i)
		target.add(conf, c.Sources)
	}
	return groups
}
