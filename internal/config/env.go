package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnv overrides configuration values from environment variables.
// Unset or unparsable variables leave the current value in place.
func (c *Config) ApplyEnv() {
	c.Integration.MinMatchConfidence = getEnvFloat("MIN_CONFIDENCE_THRESHOLD", c.Integration.MinMatchConfidence)
	c.Skills.RecentUsageFactor = getEnvFloat("SKILL_WEIGHTING_FACTOR", c.Skills.RecentUsageFactor)
	c.Resolver.ResumePriorityFloor = getEnvFloat("RESUME_PRIORITY_FLOOR", c.Resolver.ResumePriorityFloor)
	c.Scoring.StrengthThreshold = getEnvFloat("STRENGTH_THRESHOLD", c.Scoring.StrengthThreshold)
	c.Integration.TopNSkills = getEnvInt("TOP_N_SKILLS", c.Integration.TopNSkills)
	c.Integration.RecentActivityDays = getEnvInt("RECENT_ACTIVITY_DAYS", c.Integration.RecentActivityDays)
	c.Service.Port = getEnvInt("PORT", c.Service.Port)
	c.Service.Workers = getEnvInt("ENRICH_WORKERS", c.Service.Workers)
	c.Service.DatabaseURL = getEnvString("DATABASE_URL", c.Service.DatabaseURL)
	c.Service.LogJSON = getEnvBool("LOG_JSON", c.Service.LogJSON)
	c.Service.Debug = getEnvBool("DEBUG", c.Service.Debug)

	rl := &c.Service.RateLimit
	rl.Enabled = getEnvBool("RATE_LIMIT_ENABLED", rl.Enabled)
	rl.DefaultPerMinute = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", rl.DefaultPerMinute)
	rl.CleanupIntervalSeconds = getEnvInt("RATE_LIMIT_CLEANUP_SECONDS", rl.CleanupIntervalSeconds)
	rl.Whitelist = getEnvList("RATE_LIMIT_WHITELIST", rl.Whitelist)
	rl.Blacklist = getEnvList("RATE_LIMIT_BLACKLIST", rl.Blacklist)
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as a float with a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList gets a comma-separated environment variable as a list. Empty
// items are dropped.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
