// Package schemas provides JSON Schema validation for the model's structured output.
// The embedded schema is the single definition of that output: it validates responses
// and is rendered into the prompt so the model is asked for exactly what is parsed.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed feedback_output.schema.json
var feedbackOutputSchema string

const feedbackOutputSchemaName = "feedback_output.schema.json"

var (
	compiledOnce sync.Once
	compiled     *gojsonschema.Schema
	compileErr   error
)

// FeedbackOutputSchema returns the raw JSON Schema for the model's structured output
func FeedbackOutputSchema() string {
	return feedbackOutputSchema
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
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

func feedbackSchema() (*gojsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(feedbackOutputSchema))
		if compileErr != nil {
			compileErr = &SchemaLoadError{
				Path:    feedbackOutputSchemaName,
				Message: "schema compilation failed",
				Cause:   compileErr,
			}
		}
	})
	return compiled, compileErr
}

// ValidateFeedbackOutput validates raw model output against the structured output schema.
// Text that is not JSON at all is reported as a root-level ValidationError.
func ValidateFeedbackOutput(raw string) error {
	schema, err := feedbackSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return &ValidationError{
			Errors: []FieldError{{Field: "(root)", Message: "document is not valid JSON: " + err.Error()}},
		}
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
