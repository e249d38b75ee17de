package llm

import "fmt"

// Code classifies why a completion failed. It is for operator logs only;
// callers of the HTTP API always see a generic llm_error.
type Code string

// Failure codes reported by the live client
const (
	CodeTransport     Code = "transport"
	CodeTimeout       Code = "timeout"
	CodeStatus        Code = "status"
	CodeResponseShape Code = "response_shape"
	CodeRequest       Code = "request"
)

// Error is returned by clients when a completion cannot be obtained
type Error struct {
	Code       Code
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm %s error (status %d): %v", e.Code, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("llm %s error: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
