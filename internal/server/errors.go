package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/candidate-enrichment/internal/enrichment"
	"github.com/jonathan/candidate-enrichment/internal/schemas"
)

// Error codes returned in failure bodies.
const (
	CodeInvalidBody      = "invalid_request_body"
	CodeSchemaValidation = "schema_validation_failed"
	CodeValidation       = "validation_error"
	CodeComputation      = "computation_error"
	CodeNotFound         = "not_found"
	CodeStoreUnavailable = "storage_unavailable"
	CodeCancelled        = "request_cancelled"
	CodeInternal         = "internal_error"
)

// ErrBadRequest indicates a body that could not be read or decoded
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("invalid request body: %s", e.Message)
}

// ErrNotFound indicates an archived result was not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrStoreUnavailable indicates the result archive is not configured
type ErrStoreUnavailable struct{}

func (e *ErrStoreUnavailable) Error() string {
	return "result storage is not configured"
}

// ErrCancelled indicates the client went away before a batch finished
type ErrCancelled struct {
	Err error
}

func (e *ErrCancelled) Error() string {
	return fmt.Sprintf("request cancelled: %v", e.Err)
}

func (e *ErrCancelled) Unwrap() error {
	return e.Err
}

// classify returns the HTTP status and error code for an error.
func classify(err error) (int, string) {
	var (
		badReq       *ErrBadRequest
		schemaErr    *schemas.ValidationError
		fieldErrs    validator.ValidationErrors
		engineErr    *enrichment.ValidationError
		computeErr   *enrichment.ComputationError
		notFound     *ErrNotFound
		unavailable  *ErrStoreUnavailable
		cancelledErr *ErrCancelled
	)
	switch {
	case errors.As(err, &badReq):
		return http.StatusBadRequest, CodeInvalidBody
	case errors.As(err, &schemaErr):
		return http.StatusBadRequest, CodeSchemaValidation
	case errors.As(err, &fieldErrs), errors.As(err, &engineErr):
		return http.StatusBadRequest, CodeValidation
	case errors.As(err, &computeErr):
		return http.StatusInternalServerError, CodeComputation
	case errors.As(err, &notFound):
		return http.StatusNotFound, CodeNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable, CodeStoreUnavailable
	case errors.As(err, &cancelledErr):
		return http.StatusServiceUnavailable, CodeCancelled
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	status, _ := classify(err)
	return status
}

// ErrorCode returns the machine-readable code for an error
func ErrorCode(err error) string {
	_, code := classify(err)
	return code
}

// failedStep returns the enrichment step named by err, if any.
func failedStep(err error) string {
	var stepErr *enrichment.StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}
