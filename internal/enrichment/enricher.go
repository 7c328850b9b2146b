// Package enrichment composes integration and job scoring into the single
// enrich operation exposed by the service and CLI.
package enrichment

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/integration"
	"github.com/jonathan/candidate-enrichment/internal/logger"
	"github.com/jonathan/candidate-enrichment/internal/ranking"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

// Algorithm identifiers reported in result metadata.
const (
	AlgorithmDataIntegration    = "data_integration"
	AlgorithmSkillAnalysis      = "skill_analysis"
	AlgorithmConflictResolution = "conflict_resolution"
	AlgorithmJobMatching        = "job_matching"
)

// Algorithms lists every algorithm an enrichment can report.
var Algorithms = []string{AlgorithmDataIntegration, AlgorithmSkillAnalysis, AlgorithmConflictResolution, AlgorithmJobMatching}

// maxLoggedMessage caps warning messages in debug logs.
const maxLoggedMessage = 200

// ProgressEvent represents a progress update during enrichment.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ProgressCallback is called as each step completes.
type ProgressCallback func(event ProgressEvent)

// Request is one enrichment call. Job is nil when no job context applies.
type Request struct {
	Resume     *types.ResumeRecord
	Profiles   []types.ExternalProfileRecord
	Job        *types.JobContext
	OnProgress ProgressCallback
}

// NewRequest converts a decoded wire request. Resume fields without an
// explicit confidence get the configured default.
func (e *Enricher) NewRequest(wire *types.EnrichRequest) Request {
	req := Request{
		Profiles: wire.ToProfiles(),
		Job:      wire.JobContext,
	}
	if wire.ResumeData != nil {
		resume := wire.ResumeData.ToResume(e.cfg.Integration.DefaultResumeFieldConfidence)
		req.Resume = &resume
	}
	return req
}

// Enricher runs the enrichment steps. It holds only immutable state and
// may be shared across goroutines.
type Enricher struct {
	cfg        config.Config
	integrator *integration.Integrator
	scorer     *ranking.Scorer
	logger     *zap.Logger
	clock      func() time.Time
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the reference time used for recency and ongoing roles.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		e.clock = now
	}
}

// New creates an Enricher from the given configuration.
func New(cfg config.Config, opts ...Option) *Enricher {
	e := &Enricher{
		cfg:    cfg,
		scorer: ranking.NewScorer(cfg.Scoring),
		logger: zap.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.integrator = integration.New(cfg, integration.WithClock(e.clock))
	return e
}

// Config returns the configuration the Enricher was built with.
func (e *Enricher) Config() config.Config {
	return e.cfg
}

// Validate applies the request checks Enrich runs before merging, without
// enriching. Failures are *StepError values wrapping *ValidationError.
func (e *Enricher) Validate(req Request) error {
	if err := validateRequest(req); err != nil {
		return &StepError{Step: StepValidate, Err: err}
	}
	return nil
}

// Enrich validates the request, merges the resume with its profiles, scores
// the result against the job when one is given, and verifies every
// confidence before returning. Failures are *StepError values naming the
// step; validation failures wrap *ValidationError.
func (e *Enricher) Enrich(req Request) (*types.EnrichedProfileResult, error) {
	start := time.Now()

	if err := validateRequest(req); err != nil {
		e.logger.Warn("enrichment request rejected", zap.Error(err))
		return nil, &StepError{Step: StepValidate, Err: err}
	}
	emit(req, StepValidate, "request accepted")

	merged := e.integrator.Integrate(*req.Resume, req.Profiles)
	emit(req, StepIntegrate, fmt.Sprintf("merged %d of %d profiles", merged.ProfilesUsed, len(req.Profiles)))

	result := &types.EnrichedProfileResult{Profile: merged.Profile}
	algorithms := []string{AlgorithmDataIntegration, AlgorithmSkillAnalysis, AlgorithmConflictResolution}

	if req.Job != nil {
		match := e.scorer.Score(&result.Profile, *req.Job)
		result.JobMatch = &match
		algorithms = append(algorithms, AlgorithmJobMatching)
		emit(req, StepScore, fmt.Sprintf("job relevance %.2f", match.RelevanceScore))
	}

	if err := verify(result); err != nil {
		e.logger.Error("enrichment invariant violated", zap.Error(err))
		return nil, &StepError{Step: StepVerify, Err: err}
	}

	warnings := merged.Warnings
	if warnings == nil {
		warnings = []types.Warning{}
	}
	resolutions := merged.Resolutions
	if resolutions == nil {
		resolutions = []types.Resolution{}
	}
	result.Metadata = types.EnrichmentMetadata{
		ProcessingTimeMS:     time.Since(start).Milliseconds(),
		DataSourcesUsed:      merged.SourcesUsed,
		AlgorithmsUsed:       algorithms,
		ProfilesReceived:     len(req.Profiles),
		ProfilesUsed:         merged.ProfilesUsed,
		ProfilesExcluded:     merged.ProfilesExcluded,
		ConflictsResolved:    resolutions,
		Warnings:             warnings,
		ConfidenceThreshold:  e.cfg.Integration.MinMatchConfidence,
		SkillWeightingFactor: e.cfg.Skills.RecentUsageFactor,
		EnrichmentVersion:    config.Version,
	}

	e.logger.Info("enrichment completed",
		zap.String("candidate_id", result.Profile.CandidateID.String()),
		zap.Int("profiles_used", merged.ProfilesUsed),
		zap.Int("profiles_excluded", merged.ProfilesExcluded),
		zap.Int("skills", len(result.Profile.Skills)),
		zap.Float64("overall_confidence", result.Profile.OverallConfidence),
		zap.Bool("job_scored", result.JobMatch != nil),
		zap.Int64("duration_ms", result.Metadata.ProcessingTimeMS),
	)
	// invalid_profile messages echo request content
	for _, w := range warnings {
		e.logger.Debug("enrichment warning",
			zap.String("code", w.Code),
			zap.String("message", logger.Truncate(w.Message, maxLoggedMessage)),
		)
	}
	return result, nil
}

func validateRequest(req Request) error {
	if req.Resume == nil {
		return &ValidationError{Field: "resume", Message: "resume data is required"}
	}
	if !req.Resume.HasIdentity() {
		return &ValidationError{Field: "resume.personal_info", Message: "at least one of name, email, phone or location is required"}
	}
	return nil
}

// verify checks that every confidence in the result is a finite value in
// [0,1].
func verify(r *types.EnrichedProfileResult) error {
	p := &r.Profile
	checks := []struct {
		field string
		value float64
	}{
		{"name", p.Name.Confidence},
		{"email", p.Email.Confidence},
		{"phone", p.Phone.Confidence},
		{"location", p.Location.Confidence},
		{"bio", p.Bio.Confidence},
		{"overall_confidence", p.OverallConfidence},
		{"activity.activity_score", p.Activity.ActivityScore},
	}
	for _, c := range checks {
		if !inUnit(c.value) {
			return &ComputationError{Field: c.field, Value: c.value}
		}
	}
	for _, s := range p.Skills {
		if !inUnit(s.Confidence) {
			return &ComputationError{Field: "skills." + s.Name, Value: s.Confidence}
		}
	}
	if m := r.JobMatch; m != nil {
		if !inUnit(m.RelevanceScore) {
			return &ComputationError{Field: "job_relevance_score", Value: m.RelevanceScore}
		}
		if !inUnit(m.MatchPercentage) {
			return &ComputationError{Field: "skill_match_percentage", Value: m.MatchPercentage}
		}
	}
	return nil
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// emit calls the progress callback if configured.
func emit(req Request, step, message string) {
	if req.OnProgress != nil {
		req.OnProgress(ProgressEvent{Step: step, Message: message})
	}
}
