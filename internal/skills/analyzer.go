// Package skills derives skill assessments (confidence, proficiency,
// estimated years) from resume claims and external profile evidence.
package skills

import (
	"math"
	"sort"
	"time"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/parsing"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

// neutralRecency is used when a profile's last activity is unknown.
const neutralRecency = 0.5

// LanguageUsage is one profile's share of code in a language.
type LanguageUsage struct {
	Source          types.SourceTag
	Language        string
	Percent         float64  // 0-100
	MatchConfidence float64  // confidence the profile belongs to the candidate
	Recency         *float64 // 0 (stale) to 1 (active now); nil when unknown
}

// FrameworkSignal is a framework detected on one profile.
type FrameworkSignal struct {
	Source          types.SourceTag
	Name            string
	MatchConfidence float64
}

// EvidenceInput is everything the analyzer considers for one candidate.
type EvidenceInput struct {
	Claims     []types.SkillClaim
	Usage      []LanguageUsage
	Frameworks []FrameworkSignal
	Experience []types.ExperienceEntry
}

// Analyzer turns evidence into skill assessments. It holds only
// configuration and is safe for concurrent use.
type Analyzer struct {
	cfg config.SkillsConfig
	now func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock sets the reference time used to resolve ongoing experience.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(cfg config.SkillsConfig, opts ...Option) *Analyzer {
	a := &Analyzer{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// skillEvidence accumulates evidence for one skill during analysis.
type skillEvidence struct {
	name       string
	category   types.SkillCategory
	fromUsage  bool
	fromFrame  bool
	resume     float64 // strongest resume claim, 0 when not claimed
	claimed    bool
	components []float64
	sources    types.SourceSet
}

// Analyze merges all evidence into one assessment per skill, ordered by
// confidence (descending) then name.
func (a *Analyzer) Analyze(in EvidenceInput) []types.SkillAssessment {
	byKey := make(map[string]*skillEvidence)
	get := func(name string) *skillEvidence {
		canonical := parsing.NormalizeSkillName(name)
		if canonical == "" {
			return nil
		}
		key := parsing.SkillKey(canonical)
		ev, ok := byKey[key]
		if !ok {
			ev = &skillEvidence{name: canonical}
			byKey[key] = ev
		}
		return ev
	}

	// Resume claims: one source, so repeated claims keep the strongest
	for _, claim := range in.Claims {
		ev := get(claim.Name)
		if ev == nil {
			continue
		}
		conf := a.cfg.DefaultClaimConfidence
		if claim.Confidence != nil {
			conf = types.ClampConfidence(*claim.Confidence)
		}
		ev.resume = max(ev.resume, a.cfg.ResumeMentionWeight*conf)
		ev.claimed = true
		ev.sources = ev.sources.Add(types.SourceResume)
		if ev.category == "" && claim.Category.Valid() {
			ev.category = claim.Category
		}
	}

	for _, u := range in.Usage {
		if math.IsNaN(u.Percent) || u.Percent < a.cfg.MinLanguageUsagePercent {
			continue
		}
		ev := get(u.Language)
		if ev == nil {
			continue
		}
		ev.components = append(ev.components, a.usageComponent(u))
		ev.sources = ev.sources.Add(u.Source)
		ev.fromUsage = true
	}

	for _, f := range in.Frameworks {
		ev := get(f.Name)
		if ev == nil {
			continue
		}
		ev.components = append(ev.components, a.cfg.FrameworkBonus*types.ClampConfidence(f.MatchConfidence))
		ev.sources = ev.sources.Add(f.Source)
		ev.fromFrame = true
	}

	assessments := make([]types.SkillAssessment, 0, len(byKey))
	for key, ev := range byKey {
		evidence := ev.components
		if ev.claimed {
			evidence = append([]float64{ev.resume}, ev.components...)
		}
		confidence := types.CombineIndependent(evidence...)
		assessments = append(assessments, types.SkillAssessment{
			Name:            ev.name,
			Category:        a.categoryFor(ev),
			Proficiency:     a.Proficiency(confidence),
			Confidence:      confidence,
			EvidenceSources: ev.sources,
			EstimatedYears:  a.estimateYears(key, in.Experience),
		})
	}

	sort.Slice(assessments, func(i, j int) bool {
		if assessments[i].Confidence != assessments[j].Confidence {
			return assessments[i].Confidence > assessments[j].Confidence
		}
		return assessments[i].Name < assessments[j].Name
	})

	return assessments
}

// usageComponent scores one profile's usage of a language:
// weight x match x share x (f + (1-f) x recency).
func (a *Analyzer) usageComponent(u LanguageUsage) float64 {
	share := math.Min(1, u.Percent/a.cfg.UsageSaturationPercent)
	recency := neutralRecency
	if u.Recency != nil {
		recency = types.ClampConfidence(*u.Recency)
	}
	f := a.cfg.RecentUsageFactor
	c := a.cfg.UsageWeight * types.ClampConfidence(u.MatchConfidence) * share * (f + (1-f)*recency)
	return types.ClampConfidence(c)
}

// categoryFor prefers the claimed category, then the built-in tables,
// then the kind of evidence seen.
func (a *Analyzer) categoryFor(ev *skillEvidence) types.SkillCategory {
	if ev.category != "" {
		return ev.category
	}
	if c, ok := Categorize(ev.name); ok {
		return c
	}
	switch {
	case ev.fromUsage:
		return types.CategoryLanguage
	case ev.fromFrame:
		return types.CategoryFramework
	default:
		return types.CategoryTool
	}
}

// Proficiency maps a confidence onto the configured bands. A confidence
// exactly on a band boundary belongs to the higher band.
func (a *Analyzer) Proficiency(confidence float64) types.ProficiencyLevel {
	bands := a.cfg.ProficiencyBands
	if len(bands) == 0 {
		return types.ProficiencyBeginner
	}
	level := bands[0].Level
	for _, b := range bands {
		if confidence >= b.Min {
			level = b.Level
		}
	}
	return level
}
