package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/devlog-feedback/internal/schemas"
	"github.com/jonathan/devlog-feedback/internal/types"
)

// OutputError means the model answered with text that is not a valid structured output
type OutputError struct {
	Err error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("LLM output failed validation: %v", e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// ParseOutput strictly parses raw model text into a StructuredOutput.
// Missing fields, wrong types, out-of-range scores and trailing text are all rejected.
func ParseOutput(raw string) (*types.StructuredOutput, error) {
	if err := schemas.ValidateFeedbackOutput(raw); err != nil {
		return nil, &OutputError{Err: err}
	}

	var out types.StructuredOutput
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&out); err != nil {
		return nil, &OutputError{Err: fmt.Errorf("decoding output: %w", err)}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &OutputError{Err: errors.New("unexpected data after JSON object")}
	}

	if err := out.Validate(); err != nil {
		return nil, &OutputError{Err: err}
	}

	return &out, nil
}
