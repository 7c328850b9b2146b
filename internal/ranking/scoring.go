// Package ranking scores unified candidate profiles against job skill requirements.
package ranking

import (
	"sort"
	"strings"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

// Scorer computes job relevance. It holds only configuration and is safe
// for concurrent use.
type Scorer struct {
	cfg config.ScoringConfig
}

// NewScorer creates a Scorer with the given weights and alias table.
func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// requirement is one deduplicated job skill.
type requirement struct {
	name     string
	weight   float64
	required bool
}

// Score compares the profile's merged skills against the job.
//
// The relevance score is Σ(weight × confidence) / Σ(weight) over required
// and preferred skills, where unmatched skills contribute zero. With no
// skills listed at all the job is fully satisfied.
func (s *Scorer) Score(profile *types.UnifiedCandidateProfile, job types.JobContext) types.JobRelevance {
	idx := newSkillIndex(profile.Skills, s.cfg.SkillAliases)
	reqs := s.requirements(idx, job)

	out := types.JobRelevance{
		Gaps:             []string{},
		Strengths:        []string{},
		MatchedRequired:  []string{},
		MatchedPreferred: []string{},
		ImprovementAreas: []string{},
	}

	requiredCount, requiredFound := 0, 0
	weighted, totalWeight := 0.0, 0.0
	strong := make(map[string]*types.SkillAssessment)

	for _, req := range reqs {
		totalWeight += req.weight
		if req.required {
			requiredCount++
		}

		match := idx.lookup(req.name)
		if match == nil {
			if req.required {
				out.Gaps = append(out.Gaps, req.name)
			}
			continue
		}

		weighted += req.weight * types.ClampConfidence(match.Confidence)
		if req.required {
			requiredFound++
			out.MatchedRequired = append(out.MatchedRequired, req.name)
			if match.Proficiency.Rank() < types.ProficiencyAdvanced.Rank() {
				out.ImprovementAreas = append(out.ImprovementAreas, match.Name)
			}
		} else {
			out.MatchedPreferred = append(out.MatchedPreferred, req.name)
		}
		if match.Confidence > s.cfg.StrengthThreshold {
			strong[match.Name] = match
		}
	}

	out.MatchPercentage = 1.0
	if requiredCount > 0 {
		out.MatchPercentage = float64(requiredFound) / float64(requiredCount)
	}

	out.RelevanceScore = 1.0
	if totalWeight > 0 {
		out.RelevanceScore = types.ClampConfidence(weighted / totalWeight)
	}

	out.Strengths = rankStrengths(strong)
	return out
}

// requirements flattens the job into weighted skills. Blank names are
// dropped, duplicates count once, and a skill in both lists is required.
func (s *Scorer) requirements(idx *skillIndex, job types.JobContext) []requirement {
	reqs := make([]requirement, 0, len(job.RequiredSkills)+len(job.PreferredSkills))
	seen := make(map[string]bool)

	add := func(names []string, weight float64, required bool) {
		for _, name := range names {
			name = strings.TrimSpace(name)
			key := idx.requirementKey(name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			reqs = append(reqs, requirement{name: name, weight: weight, required: required})
		}
	}
	add(job.RequiredSkills, s.cfg.RequiredWeight, true)
	add(job.PreferredSkills, s.cfg.PreferredWeight, false)
	return reqs
}

// rankStrengths orders strong matches by confidence, then name.
func rankStrengths(strong map[string]*types.SkillAssessment) []string {
	list := make([]*types.SkillAssessment, 0, len(strong))
	for _, skill := range strong {
		list = append(list, skill)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Confidence != list[j].Confidence {
			return list[i].Confidence > list[j].Confidence
		}
		return list[i].Name < list[j].Name
	})

	names := make([]string, 0, len(list))
	for _, skill := range list {
		names = append(names, skill.Name)
	}
	return names
}
