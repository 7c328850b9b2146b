package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

var fixedNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestEnricher(opts ...Option) *Enricher {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(config.Default(), opts...)
}

func floatPtr(f float64) *float64 { return &f }

func sampleRequest() Request {
	return Request{
		Resume: &types.ResumeRecord{
			Name:     types.Known("Grace Hopper", 0.95, types.SourceResume),
			Email:    types.Known("grace@example.com", 0.9, types.SourceResume),
			Location: types.Known("Arlington, VA", 0.8, types.SourceResume),
			Skills: []types.SkillClaim{
				{Name: "Python", Confidence: floatPtr(0.85)},
				{Name: "COBOL", Confidence: floatPtr(0.7)},
			},
		},
		Profiles: []types.ExternalProfileRecord{
			{
				Source:          types.SourceCodeProfile,
				MatchConfidence: 0.9,
				Attributes:      types.ProfileAttributes{Username: "ghopper", RepositoryCount: 12},
				LanguageUsage:   map[string]float64{"Python": 60, "Go": 30},
			},
			{
				Source:          types.SourceCodeProfile,
				MatchConfidence: 0.2,
				LanguageUsage:   map[string]float64{"Haskell": 100},
			},
		},
	}
}

func TestEnrich_WithoutJob(t *testing.T) {
	res, err := newTestEnricher().Enrich(sampleRequest())
	require.NoError(t, err)

	assert.Nil(t, res.JobMatch)
	assert.Equal(t, "Grace Hopper", res.Profile.Name.OrZero())

	md := res.Metadata
	assert.Equal(t, []string{AlgorithmDataIntegration, AlgorithmSkillAnalysis, AlgorithmConflictResolution}, md.AlgorithmsUsed)
	assert.Equal(t, types.NewSourceSet(types.SourceResume, types.SourceCodeProfile), md.DataSourcesUsed)
	assert.Equal(t, 2, md.ProfilesReceived)
	assert.Equal(t, 1, md.ProfilesUsed)
	assert.Equal(t, 1, md.ProfilesExcluded)
	require.Len(t, md.Warnings, 1)
	assert.Equal(t, types.WarningSourceExcluded, md.Warnings[0].Code)
	assert.Equal(t, 0.3, md.ConfidenceThreshold)
	assert.Equal(t, 0.7, md.SkillWeightingFactor)
	assert.Equal(t, config.Version, md.EnrichmentVersion)
	assert.GreaterOrEqual(t, md.ProcessingTimeMS, int64(0))

	for _, s := range res.Profile.Skills {
		assert.NotEqual(t, "Haskell", s.Name)
	}

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "job_match", "absent job must not serialize as zero relevance")
}

func TestEnrich_WithJob(t *testing.T) {
	req := sampleRequest()
	req.Job = &types.JobContext{RequiredSkills: []string{"Python", "AWS"}, PreferredSkills: []string{"Go"}}

	res, err := newTestEnricher().Enrich(req)
	require.NoError(t, err)
	require.NotNil(t, res.JobMatch)
	assert.Equal(t, []string{"AWS"}, res.JobMatch.Gaps)
	assert.Equal(t, 0.5, res.JobMatch.MatchPercentage)
	assert.Contains(t, res.Metadata.AlgorithmsUsed, AlgorithmJobMatching)
	assert.Contains(t, res.JobMatch.Strengths, "Python")
}

func TestEnrich_ZeroRelevanceIsDistinctFromNoJob(t *testing.T) {
	req := sampleRequest()
	req.Job = &types.JobContext{RequiredSkills: []string{"Fortran"}}

	res, err := newTestEnricher().Enrich(req)
	require.NoError(t, err)
	require.NotNil(t, res.JobMatch)
	assert.Equal(t, 0.0, res.JobMatch.RelevanceScore)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"job_relevance_score":0`)
}

func TestEnrich_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"missing resume", Request{}, "resume"},
		{"no personal fields", Request{Resume: &types.ResumeRecord{
			Skills: []types.SkillClaim{{Name: "Go"}},
		}}, "resume.personal_info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestEnricher().Enrich(tt.req)
			assert.Nil(t, res)
			require.Error(t, err)

			var stepErr *StepError
			require.True(t, errors.As(err, &stepErr))
			assert.Equal(t, StepValidate, stepErr.Step)

			var valErr *ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestValidate(t *testing.T) {
	e := newTestEnricher()
	assert.NoError(t, e.Validate(sampleRequest()))

	err := e.Validate(Request{})
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "resume", valErr.Field)
}

func TestEnrich_PhoneOnlyResumeAccepted(t *testing.T) {
	res, err := newTestEnricher().Enrich(Request{Resume: &types.ResumeRecord{
		Phone: types.Known("+1 555 0100", 0.8, types.SourceResume),
	}})
	require.NoError(t, err)
	assert.False(t, res.Profile.Name.Present())
	assert.Less(t, res.Profile.OverallConfidence, 0.5)
}

func TestEnrich_ProgressEvents(t *testing.T) {
	req := sampleRequest()
	req.Job = &types.JobContext{RequiredSkills: []string{"Python"}}
	var steps []string
	req.OnProgress = func(ev ProgressEvent) { steps = append(steps, ev.Step) }

	_, err := newTestEnricher().Enrich(req)
	require.NoError(t, err)
	assert.Equal(t, []string{StepValidate, StepIntegrate, StepScore}, steps)
}

func TestEnrich_Deterministic(t *testing.T) {
	e := newTestEnricher()
	req := sampleRequest()
	req.Job = &types.JobContext{RequiredSkills: []string{"Python", "Go"}}

	a, err := e.Enrich(req)
	require.NoError(t, err)
	b, err := e.Enrich(req)
	require.NoError(t, err)

	aj, _ := json.Marshal(a.Profile)
	bj, _ := json.Marshal(b.Profile)
	assert.Equal(t, string(aj), string(bj))
	assert.Equal(t, a.JobMatch, b.JobMatch)
}

func TestEnrich_LogsCompletion(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	_, err := newTestEnricher(WithLogger(zap.New(core))).Enrich(sampleRequest())
	require.NoError(t, err)

	entries := logs.FilterMessage("enrichment completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["profiles_used"])
}

func TestEnrich_LogsWarningsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	req := sampleRequest()
	req.Profiles = append(req.Profiles, types.ExternalProfileRecord{
		Source:          types.SourceCodeProfile,
		MatchConfidence: 0.9,
		LanguageUsage:   map[string]float64{strings.Repeat("x", 500): 150},
	})

	_, err := newTestEnricher(WithLogger(zap.New(core))).Enrich(req)
	require.NoError(t, err)

	entries := logs.FilterMessage("enrichment warning").All()
	require.Len(t, entries, 2)
	assert.Equal(t, types.WarningSourceExcluded, entries[0].ContextMap()["code"])
	assert.Equal(t, types.WarningInvalidProfile, entries[1].ContextMap()["code"])

	msg := entries[1].ContextMap()["message"].(string)
	assert.Len(t, []rune(msg), maxLoggedMessage+3)
	assert.True(t, strings.HasSuffix(msg, "..."))
}

func TestVerify(t *testing.T) {
	ok := &types.EnrichedProfileResult{}
	assert.NoError(t, verify(ok))

	bad := &types.EnrichedProfileResult{}
	bad.Profile.Skills = []types.SkillAssessment{{Name: "Go", Confidence: 1.2}}
	err := verify(bad)
	var compErr *ComputationError
	require.True(t, errors.As(err, &compErr))
	assert.Equal(t, "skills.Go", compErr.Field)

	badJob := &types.EnrichedProfileResult{JobMatch: &types.JobRelevance{RelevanceScore: -0.1}}
	assert.Error(t, verify(badJob))
}

func TestEnrichBatch_PreservesOrder(t *testing.T) {
	e := newTestEnricher()
	reqs := make([]Request, 0, 6)
	names := []string{"A", "B", "C", "D", "E"}
	for _, n := range names {
		reqs = append(reqs, Request{Resume: &types.ResumeRecord{Name: types.Known(n, 0.9, types.SourceResume)}})
	}
	reqs = append(reqs, Request{})

	items, err := e.EnrichBatch(context.Background(), reqs, 3)
	require.NoError(t, err)
	require.Len(t, items, len(reqs))
	for i, n := range names {
		require.NoError(t, items[i].Err)
		assert.Equal(t, n, items[i].Result.Profile.Name.OrZero())
	}
	assert.Nil(t, items[5].Result)
	var valErr *ValidationError
	assert.True(t, errors.As(items[5].Err, &valErr))
}

func TestEnrichBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := newTestEnricher().EnrichBatch(ctx, []Request{sampleRequest(), sampleRequest()}, 2)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Nil(t, item.Result)
		assert.ErrorIs(t, item.Err, context.Canceled)
	}
}

func TestNewRequest(t *testing.T) {
	cfg := config.Default()
	cfg.Integration.DefaultResumeFieldConfidence = 0.7
	e := New(cfg)
	explicit := 0.95

	req := e.NewRequest(&types.EnrichRequest{
		ResumeData: &types.ResumeData{PersonalInfo: types.PersonalInfo{
			Name:  &types.FieldValue{Value: "Ada Lovelace", Confidence: &explicit},
			Email: &types.FieldValue{Value: "ada@example.com"},
		}},
		GithubProfiles: []types.ProfilePayload{{Confidence: 0.8}},
		JobContext:     &types.JobContext{RequiredSkills: []string{"Go"}},
	})

	require.NotNil(t, req.Resume)
	assert.Equal(t, 0.95, req.Resume.Name.Confidence)
	assert.Equal(t, 0.7, req.Resume.Email.Confidence)
	require.Len(t, req.Profiles, 1)
	assert.Equal(t, types.SourceCodeProfile, req.Profiles[0].Source)
	assert.Equal(t, []string{"Go"}, req.Job.RequiredSkills)

	assert.Nil(t, e.NewRequest(&types.EnrichRequest{}).Resume)
}
