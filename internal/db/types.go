package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-enrichment/internal/types"
)

// StoredResult is one archived enrichment result.
type StoredResult struct {
	ID                uuid.UUID                    `json:"id"`
	CandidateID       uuid.UUID                    `json:"candidate_id"`
	OverallConfidence float64                      `json:"overall_confidence"`
	JobRelevanceScore *float64                     `json:"job_relevance_score,omitempty"`
	Result            *types.EnrichedProfileResult `json:"result"`
	CreatedAt         time.Time                    `json:"created_at"`
}

// ResultSummary is a StoredResult without the result document, used in
// listings.
type ResultSummary struct {
	ID                uuid.UUID `json:"id"`
	CandidateID       uuid.UUID `json:"candidate_id"`
	OverallConfidence float64   `json:"overall_confidence"`
	JobRelevanceScore *float64  `json:"job_relevance_score,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// newStoredResult builds the row for a result with a fresh id.
func newStoredResult(result *types.EnrichedProfileResult) StoredResult {
	row := StoredResult{
		ID:                uuid.New(),
		CandidateID:       result.Profile.CandidateID,
		OverallConfidence: result.Profile.OverallConfidence,
		Result:            result,
	}
	if result.JobMatch != nil {
		score := result.JobMatch.RelevanceScore
		row.JobRelevanceScore = &score
	}
	return row
}
