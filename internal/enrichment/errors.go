package enrichment

import "fmt"

// Step names reported by StepError and progress events.
const (
	StepValidate  = "validate"
	StepIntegrate = "integrate"
	StepScore     = "score"
	StepVerify    = "verify"
)

// ValidationError reports unusable input. No partial result accompanies it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ComputationError reports a broken internal invariant, such as a
// confidence outside [0,1]. It indicates a defect, not bad input.
type ComputationError struct {
	Field string
	Value float64
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation error: %s has invalid confidence %v", e.Field, e.Value)
}

// StepError names the enrichment step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("enrichment step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
