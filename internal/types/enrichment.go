// Package types provides type definitions for structured data used throughout the candidate enrichment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobContext describes the role a candidate is being scored against.
type JobContext struct {
	RequiredSkills  []string `json:"required_skills,omitempty" validate:"dive,required"`
	PreferredSkills []string `json:"preferred_skills,omitempty" validate:"dive,required"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	RoleType        string   `json:"role_type,omitempty"`
}

// JobRelevance is the outcome of scoring a profile against a JobContext.
type JobRelevance struct {
	RelevanceScore   float64  `json:"job_relevance_score"`
	MatchPercentage  float64  `json:"skill_match_percentage"`
	Gaps             []string `json:"skill_gaps"`
	Strengths        []string `json:"skill_strengths"`
	MatchedRequired  []string `json:"matched_required"`
	MatchedPreferred []string `json:"matched_preferred"`
	ImprovementAreas []string `json:"improvement_areas"`
}

// EnrichedProfileResult is the engine's final output. JobMatch is nil when
// no job context was supplied.
type EnrichedProfileResult struct {
	Profile  UnifiedCandidateProfile `json:"profile"`
	JobMatch *JobRelevance           `json:"job_match,omitempty"`
	Metadata EnrichmentMetadata      `json:"metadata"`
}

// EnrichmentMetadata describes how a result was produced.
type EnrichmentMetadata struct {
	ProcessingTimeMS     int64        `json:"processing_time_ms"`
	DataSourcesUsed      SourceSet    `json:"data_sources_used"`
	AlgorithmsUsed       []string     `json:"algorithms_used"`
	ProfilesReceived     int          `json:"profiles_received"`
	ProfilesUsed         int          `json:"profiles_used"`
	ProfilesExcluded     int          `json:"profiles_excluded"`
	ConflictsResolved    []Resolution `json:"conflicts_resolved"`
	Warnings             []Warning    `json:"warnings"`
	ConfidenceThreshold  float64      `json:"confidence_threshold"`
	SkillWeightingFactor float64      `json:"skill_weighting_factor"`
	EnrichmentVersion    string       `json:"enrichment_version"`
}

// Resolution records one field resolution for explainability.
type Resolution struct {
	Field          string    `json:"field"`
	Strategy       Strategy  `json:"strategy"`
	Candidates     int       `json:"candidates"`
	DistinctValues int       `json:"distinct_values"`
	WinnerSources  SourceSet `json:"winner_sources"`
	Confidence     float64   `json:"confidence"`
	Conflict       bool      `json:"conflict"`
}

// Warning codes emitted during integration.
const (
	WarningSourceExcluded  = "source_excluded"
	WarningInvalidProfile  = "invalid_profile"
	WarningMissingIdentity = "missing_field"
)

// Warning is a non-fatal note attached to a result.
type Warning struct {
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	Source       SourceTag `json:"source,omitempty"`
	ProfileIndex *int      `json:"profile_index,omitempty"`
}
