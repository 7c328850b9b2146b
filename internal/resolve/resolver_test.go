package resolve

import (
	"math/rand"
	"testing"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStrategies = []types.Strategy{
	types.StrategyResumePriority,
	types.StrategySourcePriority,
	types.StrategyHighestConfidence,
}

func newResolver() *Resolver {
	return New(config.Default().Resolver)
}

func known(v string, c float64, sources ...types.SourceTag) types.ConfidenceValue[string] {
	return types.Known(v, c, sources...)
}

func TestResolve_NoCandidates(t *testing.T) {
	r := newResolver()
	for _, st := range allStrategies {
		t.Run(string(st), func(t *testing.T) {
			got := Resolve(r, nil, st, Text)
			assert.False(t, got.Present())
			assert.Equal(t, 0.0, got.Confidence)

			onlyAbsent := []types.ConfidenceValue[string]{types.Absent[string](), types.Absent[string]()}
			got = Resolve(r, onlyAbsent, st, Text)
			assert.False(t, got.Present())
			assert.Equal(t, 0.0, got.Confidence)
		})
	}
}

func TestResolve_SingleCandidateUnchanged(t *testing.T) {
	r := newResolver()
	// resume at 0.1 is below the floor but is the only evidence
	single := known("ada@example.com", 0.1, types.SourceResume)
	for _, st := range allStrategies {
		t.Run(string(st), func(t *testing.T) {
			got := Resolve(r, []types.ConfidenceValue[string]{types.Absent[string](), single}, st, Text)
			assert.Equal(t, single, got)
		})
	}
}

func TestResolve_SingleCandidateClamped(t *testing.T) {
	r := newResolver()
	over := types.ConfidenceValue[string]{Value: strPtr("x"), Confidence: 1.4, Sources: types.NewSourceSet(types.SourceResume)}
	got := Resolve(r, []types.ConfidenceValue[string]{over}, types.StrategyHighestConfidence, Text)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestResolve_ResumePriorityWins(t *testing.T) {
	r := newResolver()
	got, rec := ResolveText(r, "email", []types.ConfidenceValue[string]{
		known("a@x.com", 0.9, types.SourceResume),
		known("b@y.com", 0.7, types.SourceCodeProfile),
	}, types.StrategyResumePriority)

	assert.Equal(t, "a@x.com", got.OrZero())
	assert.InDelta(t, 0.9, got.Confidence, 1e-12)
	assert.Equal(t, types.NewSourceSet(types.SourceResume), got.Sources)

	assert.Equal(t, "email", rec.Field)
	assert.True(t, rec.Conflict)
	assert.Equal(t, 2, rec.Candidates)
	assert.Equal(t, 2, rec.DistinctValues)
	assert.Equal(t, got.Sources, rec.WinnerSources)
}

func TestResolve_ResumePriorityFloor(t *testing.T) {
	r := newResolver()
	tests := []struct {
		name       string
		resumeConf float64
		want       string
	}{
		{"below floor", 0.2, "b@y.com"},
		{"at floor does not win", 0.3, "b@y.com"},
		{"just above floor wins", 0.31, "a@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(r, []types.ConfidenceValue[string]{
				known("a@x.com", tt.resumeConf, types.SourceResume),
				known("b@y.com", 0.5, types.SourceCodeProfile),
				known("c@z.com", 0.4, types.SourceNetworkProfile),
			}, types.StrategyResumePriority, Text)
			assert.Equal(t, tt.want, got.OrZero())
		})
	}
}

func TestResolve_ResumePriorityOnlyResumeBelowFloor(t *testing.T) {
	r := newResolver()
	got := Resolve(r, []types.ConfidenceValue[string]{
		known("x", 0.2, types.SourceResume),
		known("y", 0.25, types.SourceResume),
	}, types.StrategyResumePriority, Text)
	assert.Equal(t, "y", got.OrZero())
}

func TestResolve_CorroborationAcrossSources(t *testing.T) {
	r := newResolver()
	got := Resolve(r, []types.ConfidenceValue[string]{
		known("San Francisco, CA", 0.8, types.SourceResume),
		known("san francisco,ca", 0.7, types.SourceNetworkProfile),
	}, types.StrategyHighestConfidence, Text)

	assert.Equal(t, "San Francisco, CA", got.OrZero())
	assert.InDelta(t, 0.94, got.Confidence, 1e-9)
	assert.Equal(t, types.NewSourceSet(types.SourceResume, types.SourceNetworkProfile), got.Sources)
}

func TestResolve_CorroborationBeatsSingleStrongerValue(t *testing.T) {
	r := newResolver()
	got := Resolve(r, []types.ConfidenceValue[string]{
		known("Berlin", 0.85, types.SourceNetworkProfile),
		known("Paris", 0.65, types.SourceResume),
		known("paris", 0.65, types.SourceCodeProfile),
	}, types.StrategyHighestConfidence, Text)
	assert.Equal(t, "Paris", got.OrZero())
	assert.InDelta(t, 0.8775, got.Confidence, 1e-9)
}

func TestResolve_NoDoubleCountingSameSource(t *testing.T) {
	r := newResolver()
	got := Resolve(r, []types.ConfidenceValue[string]{
		known("Go", 0.6, types.SourceCodeProfile),
		known("go", 0.7, types.SourceCodeProfile),
	}, types.StrategyHighestConfidence, Text)
	assert.InDelta(t, 0.7, got.Confidence, 1e-12)

	got = Resolve(r, []types.ConfidenceValue[string]{
		known("Go", 0.6, types.SourceCodeProfile),
		known("go", 0.7, types.SourceCodeProfile),
		known("GO", 0.5, types.SourceNetworkProfile),
	}, types.StrategyHighestConfidence, Text)
	assert.InDelta(t, 0.85, got.Confidence, 1e-12)
}

func TestResolve_SourcePriority(t *testing.T) {
	r := newResolver()
	got := Resolve(r, []types.ConfidenceValue[string]{
		known("resume value", 0.95, types.SourceResume),
		known("network value", 0.9, types.SourceNetworkProfile),
		known("code value", 0.4, types.SourceCodeProfile),
	}, types.StrategySourcePriority, Text)
	assert.Equal(t, "code value", got.OrZero())

	got = Resolve(r, []types.ConfidenceValue[string]{
		known("resume value", 0.95, types.SourceResume),
		known("network value", 0.3, types.SourceNetworkProfile),
	}, types.StrategySourcePriority, Text)
	assert.Equal(t, "network value", got.OrZero())
}

func TestResolve_SourcePriorityCustomOrder(t *testing.T) {
	r := New(config.ResolverConfig{
		ResumePriorityFloor: 0.3,
		SourcePrecedence:    []types.SourceTag{types.SourceResume, types.SourceNetworkProfile, types.SourceCodeProfile},
	})
	got := Resolve(r, []types.ConfidenceValue[string]{
		known("code value", 0.9, types.SourceCodeProfile),
		known("resume value", 0.2, types.SourceResume),
	}, types.StrategySourcePriority, Text)
	assert.Equal(t, "resume value", got.OrZero())
}

func TestResolve_HighestConfidenceTies(t *testing.T) {
	r := newResolver()
	got := Resolve(r, []types.ConfidenceValue[string]{
		known("network", 0.6, types.SourceNetworkProfile),
		known("code", 0.6, types.SourceCodeProfile),
	}, types.StrategyHighestConfidence, Text)
	assert.Equal(t, "code", got.OrZero(), "tie goes to source precedence")

	got = Resolve(r, []types.ConfidenceValue[string]{
		known("first", 0.6, types.SourceCodeProfile),
		known("second", 0.6, types.SourceCodeProfile),
	}, types.StrategyHighestConfidence, Text)
	assert.Equal(t, "first", got.OrZero(), "then declaration order")
}

func TestResolve_StructuredExactEquality(t *testing.T) {
	r := newResolver()
	got := Resolve(r, []types.ConfidenceValue[int]{
		types.Known(12, 0.5, types.SourceCodeProfile),
		types.Known(12, 0.5, types.SourceNetworkProfile),
		types.Known(13, 0.7, types.SourceResume),
	}, types.StrategyHighestConfidence, Exact[int])
	assert.Equal(t, 12, got.OrZero())
	assert.InDelta(t, 0.75, got.Confidence, 1e-12)

	// nil equality falls back to deep equality
	got = Resolve(r, []types.ConfidenceValue[int]{
		types.Known(1, 0.4, types.SourceCodeProfile),
		types.Known(1, 0.4, types.SourceResume),
	}, types.StrategyHighestConfidence, nil)
	assert.InDelta(t, 0.64, got.Confidence, 1e-12)
}

func TestResolve_Monotonic(t *testing.T) {
	r := newResolver()
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		var cands []types.ConfidenceValue[string]
		prev := 0.0
		for i := 0; i < 6; i++ {
			src := types.KnownSources[rng.Intn(len(types.KnownSources))]
			cands = append(cands, known("Same Value", rng.Float64(), src))
			got := Resolve(r, cands, types.StrategyHighestConfidence, Text)
			require.GreaterOrEqual(t, got.Confidence, prev-1e-12)
			require.LessOrEqual(t, got.Confidence, 1.0)
			require.GreaterOrEqual(t, got.Confidence, 0.0)
			prev = got.Confidence
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	r := newResolver()
	cands := []types.ConfidenceValue[string]{
		known("NYC", 0.5, types.SourceResume),
		known("nyc", 0.4, types.SourceNetworkProfile),
		known("Boston", 0.7, types.SourceCodeProfile),
	}
	for _, st := range allStrategies {
		a, recA := ResolveText(r, "location", cands, st)
		b, recB := ResolveText(r, "location", cands, st)
		assert.Equal(t, a, b)
		assert.Equal(t, recA, recB)
	}
}

func TestResolve_UnknownStrategyFallsBack(t *testing.T) {
	r := newResolver()
	got := Resolve(r, []types.ConfidenceValue[string]{
		known("low", 0.2, types.SourceCodeProfile),
		known("high", 0.8, types.SourceNetworkProfile),
	}, types.Strategy("bogus"), Text)
	assert.Equal(t, "high", got.OrZero())
}

func strPtr(s string) *string { return &s }
