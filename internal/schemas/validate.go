// Package schemas validates JSON documents against the embedded JSON Schemas.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	embedded "github.com/jonathan/candidate-enrichment/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	compiledMu sync.Mutex
	compiled   = map[string]*gojsonschema.Schema{}
)

// load compiles an embedded schema once and caches it.
func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}
	data, err := embedded.Read(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema not embedded", Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema failed to compile", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// Validate checks a JSON document against the named embedded schema.
func Validate(name string, document []byte) error {
	schema, err := load(name)
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "document is not valid JSON: " + err.Error()}}}
	}
	return toValidationError(result, "")
}

// ValidateFile reads a JSON file and validates it against the named schema.
func ValidateFile(name, jsonPath string) error {
	absPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", absPath)
		}
		return fmt.Errorf("failed to read %s: %w", absPath, err)
	}
	return Validate(name, data)
}

// ValidateRequest validates a single enrichment request body.
func ValidateRequest(document []byte) error {
	return Validate(embedded.EnrichRequest, document)
}

// ValidateBatch validates the batch envelope, then each request in it.
// Field paths of item errors are prefixed with "requests.<index>".
func ValidateBatch(document []byte) error {
	if err := Validate(embedded.EnrichBatch, document); err != nil {
		return err
	}

	var envelope struct {
		Requests []json.RawMessage `json:"requests"`
	}
	if err := json.Unmarshal(document, &envelope); err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}

	schema, err := load(embedded.EnrichRequest)
	if err != nil {
		return err
	}
	all := &ValidationError{}
	for i, raw := range envelope.Requests {
		result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return &ValidationError{Errors: []FieldError{{Field: fmt.Sprintf("requests.%d", i), Message: err.Error()}}}
		}
		if verr := toValidationError(result, fmt.Sprintf("requests.%d", i)); verr != nil {
			all.Errors = append(all.Errors, verr.(*ValidationError).Errors...)
		}
	}
	if len(all.Errors) > 0 {
		return all
	}
	return nil
}

// toValidationError builds a structured error from a result, or returns
// nil when the document is valid.
func toValidationError(result *gojsonschema.Result, prefix string) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		switch {
		case prefix != "" && field == "(root)":
			field = prefix
		case prefix != "":
			field = prefix + "." + field
		case field == "":
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
