// Package types provides type definitions for structured data used throughout the candidate enrichment engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EnrichRequest is the wire form of an enrichment request.
type EnrichRequest struct {
	ResumeData       *ResumeData      `json:"resume_data" validate:"required"`
	Profiles         []ProfilePayload `json:"profiles,omitempty" validate:"dive"`
	GithubProfiles   []ProfilePayload `json:"github_profiles,omitempty" validate:"dive"`
	LinkedinProfiles []ProfilePayload `json:"linkedin_profiles,omitempty" validate:"dive"`
	JobContext       *JobContext      `json:"job_context,omitempty"`
}

// MaxBatchSize is the most requests one batch may carry; it matches the
// max tag on BatchEnrichRequest.Requests.
const MaxBatchSize = 100

// BatchEnrichRequest carries several enrichment requests at once.
type BatchEnrichRequest struct {
	Requests []EnrichRequest `json:"requests" validate:"required,min=1,max=100,dive"`
}

// ResumeData is the wire form of a parsed resume.
type ResumeData struct {
	PersonalInfo PersonalInfo      `json:"personal_info"`
	Skills       SkillsSection     `json:"skills"`
	Education    []EducationEntry  `json:"education,omitempty" validate:"dive"`
	Experience   []ExperienceEntry `json:"experience,omitempty" validate:"dive"`
}

// PersonalInfo holds the resume's identity fields.
type PersonalInfo struct {
	Name        *FieldValue `json:"name,omitempty"`
	Email       *FieldValue `json:"email,omitempty"`
	Phone       *FieldValue `json:"phone,omitempty"`
	Location    *FieldValue `json:"location,omitempty"`
	LinkedinURL *FieldValue `json:"linkedin_url,omitempty"`
	GithubURL   *FieldValue `json:"github_url,omitempty"`
}

// FieldValue is a resume field with optional extraction confidence. It
// accepts either {"value": ..., "confidence": ...} or a bare string.
type FieldValue struct {
	Value      string   `json:"value"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// UnmarshalJSON accepts a plain JSON string as shorthand.
func (f *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FieldValue{Value: s}
		return nil
	}
	type plain FieldValue
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*f = FieldValue(p)
	return nil
}

// SkillsSection is the resume skills block.
type SkillsSection struct {
	TechnicalSkills []string            `json:"technical_skills,omitempty"`
	Categories      map[string][]string `json:"categories,omitempty"`
	Claims          []SkillClaim        `json:"claims,omitempty" validate:"dive"`
}

// ProfilePayload is the wire form of an external profile.
type ProfilePayload struct {
	Source             string             `json:"source,omitempty" validate:"omitempty,oneof=code_profile network_profile"`
	Profile            ProfileAttributes  `json:"profile"`
	Confidence         float64            `json:"confidence"`
	LanguagesUsed      map[string]float64 `json:"languages_used,omitempty"`
	FrameworksDetected []string           `json:"frameworks_detected,omitempty"`
}

// Validate validates the EnrichRequest using the validator.
func (r *EnrichRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the BatchEnrichRequest using the validator.
func (r *BatchEnrichRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// categoryAliases maps resume category headings to skill categories.
var categoryAliases = map[string]SkillCategory{
	"programming_languages": CategoryLanguage,
	"languages":             CategoryLanguage,
	"language":              CategoryLanguage,
	"frameworks":            CategoryFramework,
	"framework":             CategoryFramework,
	"libraries":             CategoryFramework,
	"databases":             CategoryDatabase,
	"database":              CategoryDatabase,
	"cloud_platforms":       CategoryTool,
	"cloud":                 CategoryTool,
	"tools":                 CategoryTool,
	"tool":                  CategoryTool,
}

// ToResume converts the wire resume into a ResumeRecord. Fields without an
// explicit confidence get defaultConfidence.
func (d *ResumeData) ToResume(defaultConfidence float64) ResumeRecord {
	rec := ResumeRecord{
		Name:       d.PersonalInfo.Name.toConfidence(defaultConfidence),
		Email:      d.PersonalInfo.Email.toConfidence(defaultConfidence),
		Phone:      d.PersonalInfo.Phone.toConfidence(defaultConfidence),
		Location:   d.PersonalInfo.Location.toConfidence(defaultConfidence),
		Education:  d.Education,
		Experience: d.Experience,
	}
	for _, f := range []*FieldValue{d.PersonalInfo.LinkedinURL, d.PersonalInfo.GithubURL} {
		if f != nil && strings.TrimSpace(f.Value) != "" {
			rec.Links = append(rec.Links, ProfileLink{Source: SourceResume, URL: strings.TrimSpace(f.Value)})
		}
	}

	rec.Skills = append(rec.Skills, d.Skills.Claims...)
	for _, name := range d.Skills.TechnicalSkills {
		rec.Skills = append(rec.Skills, SkillClaim{Name: name})
	}

	keys := make([]string, 0, len(d.Skills.Categories))
	for k := range d.Skills.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		category := categoryAliases[strings.ToLower(strings.TrimSpace(k))]
		for _, name := range d.Skills.Categories[k] {
			rec.Skills = append(rec.Skills, SkillClaim{Name: name, Category: category})
		}
	}

	return rec
}

func (f *FieldValue) toConfidence(defaultConfidence float64) ConfidenceValue[string] {
	if f == nil {
		return Absent[string]()
	}
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return Absent[string]()
	}
	c := defaultConfidence
	if f.Confidence != nil {
		c = *f.Confidence
	}
	return Known(v, c, SourceResume)
}

// ToProfiles flattens every profile list into ExternalProfileRecords,
// inferring the source kind where the payload does not state one.
// Profiles keep their declared order: profiles, then github_profiles,
// then linkedin_profiles.
func (r *EnrichRequest) ToProfiles() []ExternalProfileRecord {
	out := make([]ExternalProfileRecord, 0, len(r.Profiles)+len(r.GithubProfiles)+len(r.LinkedinProfiles))
	for _, p := range r.Profiles {
		out = append(out, p.toRecord(""))
	}
	for _, p := range r.GithubProfiles {
		out = append(out, p.toRecord(SourceCodeProfile))
	}
	for _, p := range r.LinkedinProfiles {
		out = append(out, p.toRecord(SourceNetworkProfile))
	}
	return out
}

func (p ProfilePayload) toRecord(fallback SourceTag) ExternalProfileRecord {
	return ExternalProfileRecord{
		Source:          p.inferSource(fallback),
		MatchConfidence: p.Confidence,
		Attributes:      p.Profile,
		LanguageUsage:   p.LanguagesUsed,
		Frameworks:      p.FrameworksDetected,
	}
}

// inferSource picks the profile kind: explicit source, then the list it
// arrived in, then code activity signals.
func (p ProfilePayload) inferSource(fallback SourceTag) SourceTag {
	if p.Source != "" {
		return SourceTag(p.Source)
	}
	if fallback != "" {
		return fallback
	}
	if len(p.LanguagesUsed) > 0 || p.Profile.RepositoryCount > 0 || p.Profile.TotalStars > 0 {
		return SourceCodeProfile
	}
	return SourceNetworkProfile
}
