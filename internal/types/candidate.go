// Package types provides type definitions for structured data used throughout the candidate enrichment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// ResumeRecord is the parsed resume as handed to the engine.
type ResumeRecord struct {
	Name       ConfidenceValue[string] `json:"name"`
	Email      ConfidenceValue[string] `json:"email"`
	Phone      ConfidenceValue[string] `json:"phone"`
	Location   ConfidenceValue[string] `json:"location"`
	Links      []ProfileLink           `json:"links,omitempty"`
	Education  []EducationEntry        `json:"education,omitempty"`
	Experience []ExperienceEntry       `json:"experience,omitempty"`
	Skills     []SkillClaim            `json:"skills,omitempty"`
}

// HasIdentity reports whether at least one personal field is present.
func (r *ResumeRecord) HasIdentity() bool {
	return r.Name.Present() || r.Email.Present() || r.Phone.Present() || r.Location.Present()
}

// EducationEntry is one education line from a resume.
type EducationEntry struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
}

// ExperienceEntry is one employment line from a resume.
type ExperienceEntry struct {
	Company      string   `json:"company"`
	Title        string   `json:"title,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"` // empty or "Present" means ongoing
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// SkillClaim is a skill the resume lists. Confidence is optional.
type SkillClaim struct {
	Name       string        `json:"name"`
	Category   SkillCategory `json:"category,omitempty"`
	Confidence *float64      `json:"confidence,omitempty"`
}

// ExternalProfileRecord is a profile from a code host or professional network
// that has already been matched to the candidate with some confidence.
type ExternalProfileRecord struct {
	Source          SourceTag          `json:"source"`
	MatchConfidence float64            `json:"match_confidence"`
	Attributes      ProfileAttributes  `json:"attributes"`
	LanguageUsage   map[string]float64 `json:"language_usage,omitempty"` // language -> percent of code
	Frameworks      []string           `json:"frameworks,omitempty"`
}

// ProfileAttributes are the descriptive fields of an external profile.
type ProfileAttributes struct {
	DisplayName     string     `json:"display_name,omitempty"`
	Username        string     `json:"username,omitempty"`
	Email           string     `json:"email,omitempty"`
	Location        string     `json:"location,omitempty"`
	Bio             string     `json:"bio,omitempty"`
	Company         string     `json:"company,omitempty"`
	Headline        string     `json:"headline,omitempty"`
	ProfileURL      string     `json:"profile_url,omitempty"`
	Institutions    []string   `json:"institutions,omitempty"`
	RepositoryCount int        `json:"repository_count,omitempty"`
	TotalStars      int        `json:"total_stars,omitempty"`
	Followers       int        `json:"followers,omitempty"`
	LastActive      *time.Time `json:"last_active,omitempty"`
}

// ProfileLink is a URL attributed to the candidate.
type ProfileLink struct {
	Source SourceTag `json:"source"`
	URL    string    `json:"url"`
}

// UnifiedCandidateProfile is the merged, confidence-scored candidate.
type UnifiedCandidateProfile struct {
	CandidateID       uuid.UUID               `json:"candidate_id"`
	Name              ConfidenceValue[string] `json:"name"`
	Email             ConfidenceValue[string] `json:"email"`
	Phone             ConfidenceValue[string] `json:"phone"`
	Location          ConfidenceValue[string] `json:"location"`
	Bio               ConfidenceValue[string] `json:"bio"`
	ProfileURLs       []ProfileLink           `json:"profile_urls"`
	Skills            []SkillAssessment       `json:"skills"`
	Experience        []AnnotatedExperience   `json:"experience"`
	Education         []AnnotatedEducation    `json:"education"`
	EmploymentGaps    []EmploymentGap         `json:"employment_gaps"`
	Activity          ActivitySummary         `json:"activity"`
	OverallConfidence float64                 `json:"overall_confidence"`
}

// SkillAssessment is a merged skill with derived proficiency.
type SkillAssessment struct {
	Name            string           `json:"name"`
	Category        SkillCategory    `json:"category"`
	Proficiency     ProficiencyLevel `json:"proficiency_level"`
	Confidence      float64          `json:"confidence"`
	EvidenceSources SourceSet        `json:"evidence_sources"`
	EstimatedYears  *float64         `json:"estimated_years,omitempty"`
}

// AnnotatedExperience is a resume experience entry plus the external
// sources that corroborate it.
type AnnotatedExperience struct {
	ExperienceEntry
	CorroboratedBy SourceSet `json:"corroborated_by"`
}

// AnnotatedEducation is a resume education entry plus corroborating sources.
type AnnotatedEducation struct {
	EducationEntry
	CorroboratedBy SourceSet `json:"corroborated_by"`
}

// EmploymentGap is a period longer than the configured threshold between
// consecutive experience entries.
type EmploymentGap struct {
	After     string `json:"after"`
	Before    string `json:"before"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

// ActivitySummary aggregates code-hosting activity across matched profiles.
type ActivitySummary struct {
	TotalRepositories    int                `json:"total_repositories"`
	TotalStars           int                `json:"total_stars"`
	LanguageDistribution map[string]float64 `json:"language_distribution"`
	ActivityScore        float64            `json:"activity_score"`
	ProfilesConsidered   int                `json:"profiles_considered"`
}
