package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/db"
	"github.com/jonathan/candidate-enrichment/internal/enrichment"
	"github.com/jonathan/candidate-enrichment/internal/observability"
	"github.com/jonathan/candidate-enrichment/internal/ranking"
	"github.com/jonathan/candidate-enrichment/internal/schemas"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

// maxBodyBytes bounds request bodies; a full batch of 100 requests fits.
const maxBodyBytes = 8 << 20

// Archive listing bounds for GET /api/v1/candidates/{id}/enrichments.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// serviceName is reported by GET /api/v1/capabilities.
const serviceName = "candidate-enrichment"

// EnrichResponse is the success body of POST /api/v1/enrich
type EnrichResponse struct {
	Success            bool                           `json:"success"`
	EnrichedProfile    *types.UnifiedCandidateProfile `json:"enriched_profile"`
	JobMatch           *types.JobRelevance            `json:"job_match,omitempty"`
	EnrichmentMetadata types.EnrichmentMetadata       `json:"enrichment_metadata"`
	ProcessingTimeMS   int64                          `json:"processing_time_ms"`
	ResultID           string                         `json:"result_id,omitempty"`
}

// ErrorResponse is the failure body of every endpoint
type ErrorResponse struct {
	Success      bool                 `json:"success"`
	ErrorCode    string               `json:"error_code"`
	ErrorMessage string               `json:"error_message"`
	Step         string               `json:"step,omitempty"`
	Details      []schemas.FieldError `json:"details,omitempty"`
}

// BatchItemResponse is one entry of a batch response, in request order
type BatchItemResponse struct {
	Index int `json:"index"`
	*EnrichResponse
	Error *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse is the body of POST /api/v1/enrich/batch
type BatchResponse struct {
	Success    bool                      `json:"success"`
	Results    []BatchItemResponse       `json:"results"`
	Succeeded  int                       `json:"succeeded"`
	Failed     int                       `json:"failed"`
	Ranking    []ranking.RankedCandidate `json:"ranking,omitempty"`
	DurationMS int64                     `json:"processing_time_ms"`
}

// ValidateResponse is the body of POST /api/v1/validate
type ValidateResponse struct {
	Valid      bool                 `json:"valid"`
	Errors     []schemas.FieldError `json:"errors"`
	ErrorCount int                  `json:"error_count"`
}

// ListResponse is the body of GET /api/v1/candidates/{id}/enrichments
type ListResponse struct {
	CandidateID string             `json:"candidate_id"`
	Results     []db.ResultSummary `json:"results"`
	Count       int                `json:"count"`
}

// Capabilities is the body of GET /api/v1/capabilities
type Capabilities struct {
	ServiceName                  string                   `json:"service_name"`
	Version                      string                   `json:"version"`
	SupportedDataSources         []types.SourceTag        `json:"supported_data_sources"`
	SupportedAlgorithms          []string                 `json:"supported_algorithms"`
	SupportedSkillCategories     []types.SkillCategory    `json:"supported_skill_categories"`
	SupportedProficiencyLevels   []types.ProficiencyLevel `json:"supported_proficiency_levels"`
	ConflictResolutionStrategies []types.Strategy         `json:"conflict_resolution_strategies"`
	JobMatchingFeatures          []string                 `json:"job_matching_features"`
	MaxBatchSize                 int                      `json:"max_batch_size"`
}

// handleEnrich enriches a single candidate
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := schemas.ValidateRequest(body); err != nil {
		s.errorResponse(w, err)
		return
	}

	var req types.EnrichRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorResponse(w, &ErrBadRequest{Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, err)
		return
	}

	result, err := s.enrich(s.enricher.NewRequest(&req))
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	resp := newEnrichResponse(result)
	resp.ResultID = s.archive(r.Context(), result)
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleEnrichBatch enriches up to 100 candidates on the worker pool and
// ranks those scored against a job.
func (s *Server) handleEnrichBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	body, err := readBody(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := schemas.ValidateBatch(body); err != nil {
		s.errorResponse(w, err)
		return
	}

	var batch types.BatchEnrichRequest
	if err := json.Unmarshal(body, &batch); err != nil {
		s.errorResponse(w, &ErrBadRequest{Message: err.Error()})
		return
	}
	if err := batch.Validate(); err != nil {
		s.errorResponse(w, err)
		return
	}

	reqs := make([]enrichment.Request, len(batch.Requests))
	for i := range batch.Requests {
		reqs[i] = s.enricher.NewRequest(&batch.Requests[i])
	}

	items, err := s.enricher.EnrichBatch(r.Context(), reqs, s.workers)
	if err != nil {
		s.errorResponse(w, &ErrCancelled{Err: err})
		return
	}

	resp := BatchResponse{Success: true, Results: make([]BatchItemResponse, len(items))}
	results := make([]*types.EnrichedProfileResult, len(items))
	ranked := false
	for i, item := range items {
		elapsed := time.Duration(0)
		if item.Result != nil {
			elapsed = time.Duration(item.Result.Metadata.ProcessingTimeMS) * time.Millisecond
		}
		s.stats.record(item.Result, item.Err, elapsed)
		observability.RecordEnrichment(item.Result, item.Err, elapsed)

		resp.Results[i].Index = i
		if item.Err != nil {
			resp.Failed++
			resp.Results[i].Error = newErrorResponse(item.Err)
			continue
		}
		resp.Succeeded++
		results[i] = item.Result
		ranked = ranked || item.Result.JobMatch != nil
		resp.Results[i].EnrichResponse = newEnrichResponse(item.Result)
		resp.Results[i].ResultID = s.archive(r.Context(), item.Result)
	}
	if ranked {
		resp.Ranking = ranking.RankCandidates(results)
	}
	resp.DurationMS = time.Since(start).Milliseconds()

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleValidate runs the schema, field and request checks of
// POST /api/v1/enrich without enriching. Invalid requests answer 200 with
// valid=false; only an unreadable body is an error.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	resp := ValidateResponse{Valid: true, Errors: []schemas.FieldError{}}
	if err := s.validate(body); err != nil {
		resp.Valid = false
		resp.Errors = fieldErrors(err)
	}
	resp.ErrorCount = len(resp.Errors)
	s.jsonResponse(w, http.StatusOK, resp)
}

// validate applies the checks handleEnrich runs before enriching.
func (s *Server) validate(body []byte) error {
	if err := schemas.ValidateRequest(body); err != nil {
		return err
	}
	var req types.EnrichRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return &ErrBadRequest{Message: err.Error()}
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return s.enricher.Validate(s.enricher.NewRequest(&req))
}

// fieldErrors flattens a validation failure into per-field messages.
func fieldErrors(err error) []schemas.FieldError {
	var (
		schemaErr *schemas.ValidationError
		fieldErrs validator.ValidationErrors
		engineErr *enrichment.ValidationError
	)
	switch {
	case errors.As(err, &schemaErr):
		return schemaErr.Errors
	case errors.As(err, &fieldErrs):
		out := make([]schemas.FieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			// drop the root struct name from "EnrichRequest.Resume.Name"
			field := fe.Namespace()
			if _, rest, ok := strings.Cut(field, "."); ok {
				field = rest
			}
			out = append(out, schemas.FieldError{Field: field, Message: fe.Error()})
		}
		return out
	case errors.As(err, &engineErr):
		return []schemas.FieldError{{Field: engineErr.Field, Message: engineErr.Message}}
	default:
		return []schemas.FieldError{{Message: err.Error()}}
	}
}

// handleGetEnrichment returns an archived result
func (s *Server) handleGetEnrichment(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, &ErrStoreUnavailable{})
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, &ErrBadRequest{Message: "invalid result ID"})
		return
	}

	stored, err := s.store.GetResult(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if stored == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "enrichment result", ID: idStr})
		return
	}

	s.jsonResponse(w, http.StatusOK, stored)
}

// handleDeleteEnrichment removes an archived result
func (s *Server) handleDeleteEnrichment(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, &ErrStoreUnavailable{})
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, &ErrBadRequest{Message: "invalid result ID"})
		return
	}

	deleted, err := s.store.DeleteResult(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, &ErrNotFound{Resource: "enrichment result", ID: idStr})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListEnrichments lists a candidate's archived results, newest first
func (s *Server) handleListEnrichments(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, &ErrStoreUnavailable{})
		return
	}

	candidateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, &ErrBadRequest{Message: "invalid candidate ID"})
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			s.errorResponse(w, &ErrBadRequest{Message: "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	results, err := s.store.ListByCandidate(r.Context(), candidateID, limit)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if results == nil {
		results = []db.ResultSummary{}
	}

	s.jsonResponse(w, http.StatusOK, ListResponse{
		CandidateID: candidateID.String(),
		Results:     results,
		Count:       len(results),
	})
}

// handleConfig returns the configuration in force. The database URL may
// carry credentials and is never returned.
func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	cfg := s.enricher.Config()
	cfg.Service.DatabaseURL = ""
	s.jsonResponse(w, http.StatusOK, cfg)
}

// handleCapabilities lists the sources, algorithms, categories, levels and
// strategies this engine supports
func (s *Server) handleCapabilities(w http.ResponseWriter, _ *http.Request) {
	cfg := s.enricher.Config()
	levels := make([]types.ProficiencyLevel, 0, len(cfg.Skills.ProficiencyBands))
	for _, band := range cfg.Skills.ProficiencyBands {
		levels = append(levels, band.Level)
	}

	s.jsonResponse(w, http.StatusOK, Capabilities{
		ServiceName:                  serviceName,
		Version:                      config.Version,
		SupportedDataSources:         types.KnownSources,
		SupportedAlgorithms:          enrichment.Algorithms,
		SupportedSkillCategories:     types.KnownCategories,
		SupportedProficiencyLevels:   levels,
		ConflictResolutionStrategies: types.KnownStrategies,
		JobMatchingFeatures: []string{
			"job_relevance_score",
			"skill_match_percentage",
			"skill_gaps",
			"skill_strengths",
			"improvement_areas",
		},
		MaxBatchSize: types.MaxBatchSize,
	})
}

// handleStatistics returns per-process counters
func (s *Server) handleStatistics(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.stats.snapshot())
}

// enrich runs one request and records statistics and metrics.
func (s *Server) enrich(req enrichment.Request) (*types.EnrichedProfileResult, error) {
	start := time.Now()
	result, err := s.enricher.Enrich(req)
	elapsed := time.Since(start)

	s.stats.record(result, err, elapsed)
	observability.RecordEnrichment(result, err, elapsed)
	return result, err
}

// archive stores result when a store is configured and returns its ID.
// Archive failures are logged and do not fail the request.
func (s *Server) archive(ctx context.Context, result *types.EnrichedProfileResult) string {
	if s.store == nil {
		return ""
	}
	id, err := s.store.SaveResult(ctx, result)
	if err != nil {
		s.logger.Warn("failed to archive enrichment result",
			zap.String("candidate_id", result.Profile.CandidateID.String()),
			zap.Error(err),
		)
		return ""
	}
	return id.String()
}

// readBody reads a size-limited request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &ErrBadRequest{Message: "body too large"}
		}
		return nil, &ErrBadRequest{Message: err.Error()}
	}
	return body, nil
}

func newEnrichResponse(result *types.EnrichedProfileResult) *EnrichResponse {
	return &EnrichResponse{
		Success:            true,
		EnrichedProfile:    &result.Profile,
		JobMatch:           result.JobMatch,
		EnrichmentMetadata: result.Metadata,
		ProcessingTimeMS:   result.Metadata.ProcessingTimeMS,
	}
}

func newErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{
		ErrorCode:    ErrorCode(err),
		ErrorMessage: err.Error(),
		Step:         failedStep(err),
	}
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		resp.ErrorMessage = "request does not match the enrichment schema"
		resp.Details = schemaErr.Errors
	}
	return resp
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.jsonResponse(w, status, newErrorResponse(err))
}
