package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-enrichment/internal/types"
)

// SaveResult archives an enrichment result and returns its id.
func (db *DB) SaveResult(ctx context.Context, result *types.EnrichedProfileResult) (uuid.UUID, error) {
	if result == nil {
		return uuid.Nil, fmt.Errorf("cannot save nil result")
	}
	row := newStoredResult(result)

	content, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO enrichment_results (id, candidate_id, overall_confidence, job_relevance_score, result)
		 VALUES ($1, $2, $3, $4, $5)`,
		row.ID, row.CandidateID, row.OverallConfidence, row.JobRelevanceScore, content,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save result: %w", err)
	}
	return row.ID, nil
}

// GetResult retrieves an archived result by id. It returns nil, nil when
// no such result exists.
func (db *DB) GetResult(ctx context.Context, id uuid.UUID) (*StoredResult, error) {
	var row StoredResult
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, candidate_id, overall_confidence, job_relevance_score, result, created_at
		 FROM enrichment_results WHERE id = $1`,
		id,
	).Scan(&row.ID, &row.CandidateID, &row.OverallConfidence, &row.JobRelevanceScore, &content, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result types.EnrichedProfileResult
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result %s: %w", id, err)
	}
	row.Result = &result
	return &row, nil
}

// ListByCandidate returns the most recent results for a candidate, newest
// first.
func (db *DB) ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit int) ([]ResultSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, candidate_id, overall_confidence, job_relevance_score, created_at
		 FROM enrichment_results WHERE candidate_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		candidateID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	summaries := []ResultSummary{}
	for rows.Next() {
		var s ResultSummary
		if err := rows.Scan(&s.ID, &s.CandidateID, &s.OverallConfidence, &s.JobRelevanceScore, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return summaries, nil
}

// DeleteResult removes an archived result and reports whether it existed.
func (db *DB) DeleteResult(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM enrichment_results WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete result: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
