// Package config provides configuration loading and validation for the enrichment engine.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/jonathan/candidate-enrichment/internal/types"
)

// Version is the engine version reported in result metadata.
const Version = "1.0.0"

// Personal fields resolved by the integrator.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldLocation = "location"
	FieldBio      = "bio"
)

// Config is the full engine configuration. It can be loaded from a JSON file;
// fields the file leaves out keep their Default() values.
type Config struct {
	Resolver    ResolverConfig    `json:"resolver"`
	Skills      SkillsConfig      `json:"skills"`
	Integration IntegrationConfig `json:"integration"`
	Scoring     ScoringConfig     `json:"scoring"`
	Service     ServiceConfig     `json:"service"`
}

// ResolverConfig configures conflict resolution.
type ResolverConfig struct {
	ResumePriorityFloor float64           `json:"resume_priority_floor"`       // resume wins only above this confidence
	SourcePrecedence    []types.SourceTag `json:"source_precedence,omitempty"` // highest precedence first
}

// ProficiencyBand maps confidences at or above Min to Level.
type ProficiencyBand struct {
	Level types.ProficiencyLevel `json:"level"`
	Min   float64                `json:"min"`
}

// SkillsConfig holds the evidence weights used by the skill analyzer.
type SkillsConfig struct {
	DefaultClaimConfidence  float64           `json:"default_claim_confidence"`    // resume claim without explicit confidence
	ResumeMentionWeight     float64           `json:"resume_mention_weight"`       // scales resume claim confidence
	UsageWeight             float64           `json:"usage_weight"`                // maximum contribution of one profile's language usage
	UsageSaturationPercent  float64           `json:"usage_saturation_percent"`    // usage share counted as full evidence
	RecentUsageFactor       float64           `json:"recent_usage_factor"`         // share of usage evidence independent of recency (0.0-1.0)
	FrameworkBonus          float64           `json:"framework_bonus"`             // contribution of a detected framework
	MinLanguageUsagePercent float64           `json:"min_language_usage_percent"`  // languages below this share are ignored
	MaxEstimatedYears       float64           `json:"max_estimated_years"`
	ProficiencyBands        []ProficiencyBand `json:"proficiency_bands,omitempty"` // ascending by Min, first band starts at 0
}

// IntegrationConfig configures profile merging.
type IntegrationConfig struct {
	MinMatchConfidence           float64                   `json:"min_match_confidence"`            // profiles below are excluded
	DefaultResumeFieldConfidence float64                   `json:"default_resume_field_confidence"` // resume field without explicit confidence
	TopNSkills                   int                       `json:"top_n_skills"`                    // skills counted in overall confidence
	FieldStrategies              map[string]types.Strategy `json:"field_strategies,omitempty"`
	RecentActivityDays           int                       `json:"recent_activity_days"`  // activity older than this has zero recency
	RepositorySaturation         int                       `json:"repository_saturation"` // repository count counted as full volume
	GapThresholdDays             int                       `json:"gap_threshold_days"`    // employment gaps longer than this are reported
}

// ScoringConfig configures job relevance scoring.
type ScoringConfig struct {
	RequiredWeight    float64 `json:"required_weight"`
	PreferredWeight   float64 `json:"preferred_weight"`
	StrengthThreshold float64 `json:"strength_threshold"` // strengths need confidence strictly above this
	// SkillAliases maps an alternative job-posting name to the skill it means,
	// on top of the built-in normalization table.
	SkillAliases map[string]string `json:"skill_aliases,omitempty"`
}

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Port        int    `json:"port"`
	DatabaseURL string `json:"database_url,omitempty"` // optional result archive
	Workers     int    `json:"workers"`                // batch worker pool size
	LogJSON     bool   `json:"log_json"`
	Debug       bool   `json:"debug"`

	RateLimit RateLimitConfig `json:"rate_limit"`
}

// RateLimitConfig configures per-client request throttling.
type RateLimitConfig struct {
	Enabled                bool            `json:"enabled"`
	DefaultPerMinute       int             `json:"default_per_minute"` // routes without an entry in Endpoints
	CleanupIntervalSeconds int             `json:"cleanup_interval_seconds"`
	Whitelist              []string        `json:"whitelist,omitempty"` // client IPs never limited
	Blacklist              []string        `json:"blacklist,omitempty"` // client IPs always refused
	Endpoints              []EndpointLimit `json:"endpoints,omitempty"`
}

// EndpointLimit is the limit for one server route. PerMinute 0 means
// unlimited.
type EndpointLimit struct {
	Route     string `json:"route"` // route pattern as registered, e.g. "POST /api/v1/enrich"
	PerMinute int    `json:"per_minute"`
	Burst     int    `json:"burst,omitempty"` // defaults to PerMinute
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Resolver: ResolverConfig{
			ResumePriorityFloor: 0.3,
			SourcePrecedence:    []types.SourceTag{types.SourceCodeProfile, types.SourceNetworkProfile, types.SourceResume},
		},
		Skills: SkillsConfig{
			DefaultClaimConfidence:  0.4,
			ResumeMentionWeight:     1.0,
			UsageWeight:             0.6,
			UsageSaturationPercent:  50,
			RecentUsageFactor:       0.7,
			FrameworkBonus:          0.2,
			MinLanguageUsagePercent: 2,
			MaxEstimatedYears:       20,
			ProficiencyBands: []ProficiencyBand{
				{Level: types.ProficiencyBeginner, Min: 0},
				{Level: types.ProficiencyIntermediate, Min: 0.35},
				{Level: types.ProficiencyAdvanced, Min: 0.6},
				{Level: types.ProficiencyExpert, Min: 0.85},
			},
		},
		Integration: IntegrationConfig{
			MinMatchConfidence:           0.3,
			DefaultResumeFieldConfidence: 0.8,
			TopNSkills:                   10,
			FieldStrategies: map[string]types.Strategy{
				FieldName:     types.StrategyResumePriority,
				FieldEmail:    types.StrategyResumePriority,
				FieldPhone:    types.StrategyResumePriority,
				FieldLocation: types.StrategyHighestConfidence,
				FieldBio:      types.StrategyHighestConfidence,
			},
			RecentActivityDays:   365,
			RepositorySaturation: 50,
			GapThresholdDays:     90,
		},
		Scoring: ScoringConfig{
			RequiredWeight:    1.0,
			PreferredWeight:   0.3,
			StrengthThreshold: 0.8,
			SkillAliases: map[string]string{
				"google cloud platform": "GCP",
				"microsoft azure":       "Azure",
				"kube":                  "Kubernetes",
				"ml":                    "Machine Learning",
				"rest":                  "REST APIs",
				"restful apis":          "REST APIs",
			},
		},
		Service: ServiceConfig{
			Port:    8080,
			Workers: 4,
			RateLimit: RateLimitConfig{
				Enabled:                true,
				DefaultPerMinute:       1000,
				CleanupIntervalSeconds: 300,
				Endpoints: []EndpointLimit{
					{Route: "POST /api/v1/enrich/batch", PerMinute: 20, Burst: 2},
					{Route: "POST /api/v1/enrich", PerMinute: 120, Burst: 20},
					{Route: "POST /api/v1/validate", PerMinute: 300, Burst: 30},
					{Route: "GET /api/v1/enrichments/{id}", PerMinute: 300, Burst: 30},
					{Route: "DELETE /api/v1/enrichments/{id}", PerMinute: 60, Burst: 10},
					{Route: "GET /api/v1/candidates/{id}/enrichments", PerMinute: 300, Burst: 30},
					{Route: "GET /health", PerMinute: 0},
					{Route: "GET /metrics", PerMinute: 0},
				},
			},
		},
	}
}

// LoadConfig loads configuration from a JSON file and fills unset values
// from Default().
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Decoding over the defaults keeps explicit zeros from the file. Maps
	// merge key by key; slices given in the file replace the default.
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := checkUnit("resolver.resume_priority_floor", c.Resolver.ResumePriorityFloor); err != nil {
		return err
	}
	if len(c.Resolver.SourcePrecedence) != len(types.KnownSources) {
		return fmt.Errorf("config error: 'resolver.source_precedence' must list each source exactly once")
	}
	var seen types.SourceSet
	for _, tag := range c.Resolver.SourcePrecedence {
		if !tag.Valid() || seen.Has(tag) {
			return fmt.Errorf("config error: 'resolver.source_precedence' has invalid or repeated source %q", tag)
		}
		seen = seen.Add(tag)
	}

	units := []struct {
		name  string
		value float64
	}{
		{"skills.default_claim_confidence", c.Skills.DefaultClaimConfidence},
		{"skills.resume_mention_weight", c.Skills.ResumeMentionWeight},
		{"skills.usage_weight", c.Skills.UsageWeight},
		{"skills.recent_usage_factor", c.Skills.RecentUsageFactor},
		{"skills.framework_bonus", c.Skills.FrameworkBonus},
		{"integration.min_match_confidence", c.Integration.MinMatchConfidence},
		{"integration.default_resume_field_confidence", c.Integration.DefaultResumeFieldConfidence},
		{"scoring.strength_threshold", c.Scoring.StrengthThreshold},
	}
	for _, u := range units {
		if err := checkUnit(u.name, u.value); err != nil {
			return err
		}
	}

	if c.Skills.UsageSaturationPercent <= 0 || c.Skills.UsageSaturationPercent > 100 {
		return fmt.Errorf("config error: 'skills.usage_saturation_percent' must be in (0, 100]")
	}
	if c.Skills.MinLanguageUsagePercent < 0 || c.Skills.MinLanguageUsagePercent > 100 {
		return fmt.Errorf("config error: 'skills.min_language_usage_percent' must be in [0, 100]")
	}
	if c.Skills.MaxEstimatedYears <= 0 {
		return fmt.Errorf("config error: 'skills.max_estimated_years' must be positive")
	}
	if err := validateBands(c.Skills.ProficiencyBands); err != nil {
		return err
	}

	if c.Integration.TopNSkills <= 0 {
		return fmt.Errorf("config error: 'integration.top_n_skills' must be positive")
	}
	if c.Integration.RecentActivityDays <= 0 || c.Integration.RepositorySaturation <= 0 || c.Integration.GapThresholdDays <= 0 {
		return fmt.Errorf("config error: integration day and saturation limits must be positive")
	}
	fields := make([]string, 0, len(c.Integration.FieldStrategies))
	for field := range c.Integration.FieldStrategies {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if !c.Integration.FieldStrategies[field].Valid() {
			return fmt.Errorf("config error: unknown strategy %q for field %q", c.Integration.FieldStrategies[field], field)
		}
	}

	if c.Scoring.RequiredWeight <= 0 || c.Scoring.PreferredWeight < 0 {
		return fmt.Errorf("config error: scoring weights must be positive")
	}
	if c.Service.Workers < 0 {
		return fmt.Errorf("config error: 'service.workers' must be non-negative")
	}

	return c.Service.RateLimit.validate()
}

func (r *RateLimitConfig) validate() error {
	if r.DefaultPerMinute < 0 || r.CleanupIntervalSeconds < 0 {
		return fmt.Errorf("config error: 'service.rate_limit' limits must be non-negative")
	}
	seen := make(map[string]bool, len(r.Endpoints))
	for _, e := range r.Endpoints {
		if e.Route == "" {
			return fmt.Errorf("config error: 'service.rate_limit.endpoints' entry has no route")
		}
		if seen[e.Route] {
			return fmt.Errorf("config error: duplicate rate limit for route %q", e.Route)
		}
		seen[e.Route] = true
		if e.PerMinute < 0 || e.Burst < 0 {
			return fmt.Errorf("config error: rate limit for route %q must be non-negative", e.Route)
		}
	}
	return nil
}

func checkUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("config error: '%s' must be between 0 and 1, got %v", name, v)
	}
	return nil
}

func validateBands(bands []ProficiencyBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("config error: 'skills.proficiency_bands' is empty")
	}
	if bands[0].Min != 0 {
		return fmt.Errorf("config error: first proficiency band must start at 0")
	}
	for i, b := range bands {
		if b.Level.Rank() == 0 {
			return fmt.Errorf("config error: unknown proficiency level %q", b.Level)
		}
		if i > 0 && b.Min <= bands[i-1].Min {
			return fmt.Errorf("config error: proficiency bands must be strictly ascending")
		}
		if b.Min > 1 {
			return fmt.Errorf("config error: proficiency band %q starts above 1", b.Level)
		}
	}
	return nil
}
