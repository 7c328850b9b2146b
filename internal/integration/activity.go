package integration

import (
	"math"

	"github.com/jonathan/candidate-enrichment/internal/types"
)

// summarizeActivity aggregates repository statistics and language usage.
// The language distribution and activity score are weighted by each
// profile's match confidence.
func (i *Integrator) summarizeActivity(accepted []acceptedProfile) types.ActivitySummary {
	summary := types.ActivitySummary{LanguageDistribution: map[string]float64{}}

	weighted := make(map[string]float64)
	usageWeight := 0.0
	activity, activityWeight := 0.0, 0.0

	for _, p := range accepted {
		attrs := p.Attributes
		hasStats := attrs.RepositoryCount > 0 || attrs.TotalStars > 0 || len(p.LanguageUsage) > 0
		if !hasStats && p.recency == nil {
			continue
		}
		summary.ProfilesConsidered++
		summary.TotalRepositories += attrs.RepositoryCount
		summary.TotalStars += attrs.TotalStars

		if len(p.LanguageUsage) > 0 {
			usageWeight += p.MatchConfidence
			for _, lang := range sortedKeys(p.LanguageUsage) {
				weighted[lang] += p.MatchConfidence * p.LanguageUsage[lang]
			}
		}

		if p.recency != nil {
			volume := math.Min(1, float64(attrs.RepositoryCount)/float64(i.cfg.RepositorySaturation))
			activity += p.MatchConfidence * *p.recency * (0.5 + 0.5*volume)
			activityWeight += p.MatchConfidence
		}
	}

	if usageWeight > 0 {
		for _, lang := range sortedKeys(weighted) {
			summary.LanguageDistribution[lang] = math.Round(weighted[lang]/usageWeight*100) / 100
		}
	}
	if activityWeight > 0 {
		summary.ActivityScore = types.ClampConfidence(activity / activityWeight)
	}

	return summary
}
