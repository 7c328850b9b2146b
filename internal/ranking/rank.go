package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/candidate-enrichment/internal/types"
)

// RankedCandidate is one entry of a candidate shortlist.
type RankedCandidate struct {
	Index             int     `json:"index"`
	CandidateID       string  `json:"candidate_id"`
	Name              string  `json:"name,omitempty"`
	RelevanceScore    float64 `json:"job_relevance_score"`
	MatchPercentage   float64 `json:"skill_match_percentage"`
	OverallConfidence float64 `json:"overall_confidence"`
	Notes             string  `json:"notes"`
}

// RankCandidates orders enriched results for the same job by relevance,
// then overall confidence. Results without a job match rank last. Index
// refers to the position in the input slice.
func RankCandidates(results []*types.EnrichedProfileResult) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(results))
	scored := make(map[int]bool, len(results))
	for i, r := range results {
		if r == nil {
			continue
		}
		rc := RankedCandidate{
			Index:             i,
			CandidateID:       r.Profile.CandidateID.String(),
			Name:              r.Profile.Name.OrZero(),
			OverallConfidence: r.Profile.OverallConfidence,
		}
		if r.JobMatch != nil {
			scored[i] = true
			rc.RelevanceScore = r.JobMatch.RelevanceScore
			rc.MatchPercentage = r.JobMatch.MatchPercentage
			rc.Notes = generateNotes(r.JobMatch)
		} else {
			rc.Notes = "No job context supplied"
		}
		ranked = append(ranked, rc)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if scored[a.Index] != scored[b.Index] {
			return scored[a.Index]
		}
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		return a.OverallConfidence > b.OverallConfidence
	})
	return ranked
}

// generateNotes creates a brief explanation of the ranking.
func generateNotes(m *types.JobRelevance) string {
	var parts []string

	switch {
	case m.MatchPercentage >= 1.0:
		parts = append(parts, "All required skills present")
	case m.MatchPercentage >= 0.5:
		parts = append(parts, fmt.Sprintf("Partial skill match, missing %s", strings.Join(m.Gaps, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Weak skill match, missing %s", strings.Join(m.Gaps, ", ")))
	}

	if len(m.Strengths) > 0 {
		parts = append(parts, fmt.Sprintf("Strong in %s", strings.Join(m.Strengths, ", ")))
	}
	if len(m.ImprovementAreas) > 0 {
		parts = append(parts, fmt.Sprintf("Limited evidence for %s", strings.Join(m.ImprovementAreas, ", ")))
	}

	return strings.Join(parts, ". ")
}
