package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/candidate-enrichment/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.3, cfg.Resolver.ResumePriorityFloor)
	assert.Equal(t, 0.3, cfg.Integration.MinMatchConfidence)
	assert.Equal(t, 0.7, cfg.Skills.RecentUsageFactor)
	assert.Equal(t, types.StrategyResumePriority, cfg.Integration.FieldStrategies[FieldEmail])
	assert.Equal(t, types.StrategyHighestConfidence, cfg.Integration.FieldStrategies[FieldLocation])
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"resolver": {"resume_priority_floor": 0.5},
		"skills": {"framework_bonus": 0.25},
		"integration": {"top_n_skills": 5, "field_strategies": {"location": "source_priority"}},
		"service": {"workers": 8, "log_json": true}
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 0.5, cfg.Resolver.ResumePriorityFloor)
	assert.Equal(t, 0.25, cfg.Skills.FrameworkBonus)
	assert.Equal(t, 5, cfg.Integration.TopNSkills)
	assert.Equal(t, 8, cfg.Service.Workers)
	assert.True(t, cfg.Service.LogJSON)
	assert.Equal(t, types.StrategySourcePriority, cfg.Integration.FieldStrategies[FieldLocation])

	// untouched values come from defaults
	assert.Equal(t, types.StrategyResumePriority, cfg.Integration.FieldStrategies[FieldName])
	assert.Equal(t, 0.6, cfg.Skills.UsageWeight)
	assert.Len(t, cfg.Skills.ProficiencyBands, 4)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"floor above one", func(c *Config) { c.Resolver.ResumePriorityFloor = 1.5 }, "resume_priority_floor"},
		{"duplicate precedence", func(c *Config) {
			c.Resolver.SourcePrecedence = []types.SourceTag{types.SourceResume, types.SourceResume, types.SourceCodeProfile}
		}, "source_precedence"},
		{"short precedence", func(c *Config) {
			c.Resolver.SourcePrecedence = []types.SourceTag{types.SourceResume}
		}, "source_precedence"},
		{"bad strategy", func(c *Config) { c.Integration.FieldStrategies["name"] = "coin_flip" }, "unknown strategy"},
		{"bands not ascending", func(c *Config) {
			c.Skills.ProficiencyBands = []ProficiencyBand{
				{Level: types.ProficiencyBeginner, Min: 0},
				{Level: types.ProficiencyExpert, Min: 0.5},
				{Level: types.ProficiencyAdvanced, Min: 0.5},
			}
		}, "strictly ascending"},
		{"bands not from zero", func(c *Config) {
			c.Skills.ProficiencyBands = []ProficiencyBand{{Level: types.ProficiencyBeginner, Min: 0.1}}
		}, "start at 0"},
		{"negative top n", func(c *Config) { c.Integration.TopNSkills = -1 }, "top_n_skills"},
		{"saturation zero", func(c *Config) { c.Skills.UsageSaturationPercent = 0 }, "usage_saturation_percent"},
		{"negative rate limit", func(c *Config) { c.Service.RateLimit.DefaultPerMinute = -1 }, "rate_limit"},
		{"duplicate route limit", func(c *Config) {
			c.Service.RateLimit.Endpoints = []EndpointLimit{
				{Route: "GET /health"}, {Route: "GET /health"},
			}
		}, "duplicate rate limit"},
		{"route limit without route", func(c *Config) {
			c.Service.RateLimit.Endpoints = []EndpointLimit{{PerMinute: 1}}
		}, "no route"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_ExplicitZerosKept(t *testing.T) {
	content := `{
		"skills": {"recent_usage_factor": 0, "framework_bonus": 0},
		"integration": {"min_match_confidence": 0},
		"service": {"rate_limit": {"enabled": false}}
	}`
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Skills.RecentUsageFactor)
	assert.Equal(t, 0.0, cfg.Skills.FrameworkBonus)
	assert.Equal(t, 0.0, cfg.Integration.MinMatchConfidence)
	assert.False(t, cfg.Service.RateLimit.Enabled)
	assert.Equal(t, 1000, cfg.Service.RateLimit.DefaultPerMinute, "sibling keys keep defaults")
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MapsMergeSlicesReplace(t *testing.T) {
	content := `{
		"scoring": {"skill_aliases": {"golang dev": "Go"}},
		"service": {"rate_limit": {"endpoints": [{"route": "POST /api/v1/enrich", "per_minute": 5}]}}
	}`
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "Go", cfg.Scoring.SkillAliases["golang dev"])
	assert.Equal(t, "Kubernetes", cfg.Scoring.SkillAliases["kube"])
	require.Len(t, cfg.Service.RateLimit.Endpoints, 1)
	assert.Equal(t, 5, cfg.Service.RateLimit.Endpoints[0].PerMinute)

	// loading never mutates the built-in defaults
	assert.NotContains(t, Default().Scoring.SkillAliases, "golang dev")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MIN_CONFIDENCE_THRESHOLD", "0.45")
	t.Setenv("SKILL_WEIGHTING_FACTOR", "0.6")
	t.Setenv("TOP_N_SKILLS", "not-a-number")
	t.Setenv("ENRICH_WORKERS", "2")
	t.Setenv("LOG_JSON", "true")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, 0.45, cfg.Integration.MinMatchConfidence)
	assert.Equal(t, 0.6, cfg.Skills.RecentUsageFactor)
	assert.Equal(t, 10, cfg.Integration.TopNSkills)
	assert.Equal(t, 2, cfg.Service.Workers)
	assert.True(t, cfg.Service.LogJSON)
}

func TestApplyEnv_RateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_WHITELIST", "1.2.3.4, 5.6.7.8,")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := Default()
	cfg.ApplyEnv()

	rl := cfg.Service.RateLimit
	assert.False(t, rl.Enabled)
	assert.Equal(t, 42, rl.DefaultPerMinute)
	assert.Equal(t, []string{"1.2.3.4", "5.6.7.8"}, rl.Whitelist)
	assert.Empty(t, rl.Blacklist)
	assert.Equal(t, 300, rl.CleanupIntervalSeconds)
}
