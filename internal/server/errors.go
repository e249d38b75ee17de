package server

import (
	"errors"

	"github.com/jonathan/devlog-feedback/internal/feedback"
	"github.com/jonathan/devlog-feedback/internal/llm"
	"github.com/jonathan/devlog-feedback/internal/types"
)

// genericLLMMessage is the only message callers see for provider or pipeline failures
const genericLLMMessage = "Feedback analysis failed due to an internal error."

// Internal causes logged alongside llm_error; never sent to callers
const (
	causeOutput   = "invalid_output"
	causeInternal = "internal"
)

// requestValidationError returns the validation error caused by the caller's input.
// Validation failures of the model's own output are not the caller's fault and are excluded.
func requestValidationError(err error) (*types.ValidationError, bool) {
	var outErr *feedback.OutputError
	if errors.As(err, &outErr) {
		return nil, false
	}
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// ErrorType returns the public error type for an analysis failure
func ErrorType(err error) string {
	if _, ok := requestValidationError(err); ok {
		return types.ErrorTypeValidation
	}
	return types.ErrorTypeLLM
}

// ErrorMessage returns the public message for an analysis failure.
// Validation messages are passed through; everything else is generic.
func ErrorMessage(err error) string {
	if verr, ok := requestValidationError(err); ok {
		return verr.Message
	}
	return genericLLMMessage
}

// invalidFields lists the request fields named by a validation failure, for operator logs
func invalidFields(err error) []string {
	verr, ok := requestValidationError(err)
	if !ok {
		return nil
	}
	fields := make([]string, 0, len(verr.Fields))
	for _, fe := range verr.Fields {
		fields = append(fields, fe.Field)
	}
	return fields
}

// errorCause returns the internal subcode for an llm_error, for operator logs
func errorCause(err error) string {
	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		return string(llmErr.Code)
	}
	var outErr *feedback.OutputError
	if errors.As(err, &outErr) {
		return causeOutput
	}
	return causeInternal
}

// newErrorResponse maps any failure to the public error contract
func newErrorResponse(requestID string, err error) *types.ErrorResponse {
	return types.NewErrorResponse(requestID, ErrorType(err), ErrorMessage(err))
}
