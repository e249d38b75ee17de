package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validation: %v", err))
	}
	return v
}

// notBlank rejects strings made only of whitespace
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidationError is a caller-correctable failure: bad request shape, blank content,
// or content outside the accepted length bounds.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

// FieldError represents a single violated constraint on a named field
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a single message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Validate checks the request against its field constraints.
func (r *FeedbackRequest) Validate() error {
	return validateStruct(r)
}

// Validate checks ranges and enum values of the parsed model output.
func (o *StructuredOutput) Validate() error {
	return validateStruct(o)
}

// ParseFeedbackRequest decodes and validates a request body.
// The returned request is non-nil whenever any of the body could be decoded, so callers
// can echo request_id even when validation fails.
func ParseFeedbackRequest(data []byte) (*FeedbackRequest, error) {
	var req FeedbackRequest
	dec := json.NewDecoder(bytes.NewReader(exactKeys(data)))
	if err := dec.Decode(&req); err != nil {
		return &req, decodeError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return &req, NewValidationError("request body must contain a single JSON object")
	}
	if err := req.Validate(); err != nil {
		return &req, err
	}
	return &req, nil
}

var (
	requestKeys  = jsonNames(reflect.TypeOf(FeedbackRequest{}))
	metadataKeys = jsonNames(reflect.TypeOf(FeedbackMetadata{}))
)

// jsonNames lists the json tag names of a struct's fields
func jsonNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}

// exactKeys drops object keys that match a field name only case-insensitively,
// so "REQUEST_ID" is treated like any other unknown key instead of filling request_id.
// Bodies that are not a JSON object are returned untouched for the decoder to report.
func exactKeys(data []byte) []byte {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return data
	}

	changed := dropCaseVariants(top, requestKeys)
	if raw, ok := top["metadata"]; ok {
		var meta map[string]json.RawMessage
		if err := json.Unmarshal(raw, &meta); err == nil && dropCaseVariants(meta, metadataKeys) {
			encoded, err := json.Marshal(meta)
			if err != nil {
				return data
			}
			top["metadata"] = encoded
			changed = true
		}
	}
	if !changed {
		return data
	}

	encoded, err := json.Marshal(top)
	if err != nil {
		return data
	}
	return encoded
}

func dropCaseVariants(obj map[string]json.RawMessage, names []string) bool {
	changed := false
	for key := range obj {
		for _, name := range names {
			if key != name && strings.EqualFold(key, name) {
				delete(obj, key)
				changed = true
				break
			}
		}
	}
	return changed
}

func decodeError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "(root)"
		}
		return &ValidationError{
			Message: fmt.Sprintf("%s: expected %s", field, typeErr.Type.Kind()),
			Fields:  []FieldError{{Field: field, Message: "expected " + typeErr.Type.Kind().String()}},
		}
	}
	return NewValidationError("request body is not valid JSON")
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate %T: %w", s, err)
	}

	result := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		msg := describe(fe)
		result.Fields = append(result.Fields, FieldError{Field: field, Message: msg})
		messages = append(messages, field+" "+msg)
	}
	result.Message = strings.Join(messages, "; ")
	return result
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s character(s)", fe.Param())
	case "notblank":
		return "must not be blank"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "failed " + fe.Tag() + " constraint"
	}
}
