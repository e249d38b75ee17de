// Package feedback implements the blog-post review pipeline: length gate,
// schema-constrained prompt, model call, strict output parsing and response assembly.
package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/jonathan/devlog-feedback/internal/llm"
	"github.com/jonathan/devlog-feedback/internal/types"
)

// Content length policy, in characters, inclusive on both ends
const (
	MinContentLength = 120
	MaxContentLength = 12000
)

// Agent runs one analysis against a model client. Agents hold no per-request state
// and are cheap to construct.
type Agent struct {
	client llm.Client
	logger *slog.Logger
}

// AgentOption customizes an Agent
type AgentOption func(*Agent)

// WithLogger sets the agent's logger
func WithLogger(l *slog.Logger) AgentOption {
	return func(a *Agent) {
		a.logger = l
	}
}

// NewAgent creates an agent backed by the given client
func NewAgent(client llm.Client, opts ...AgentOption) *Agent {
	a := &Agent{client: client, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ValidateContentLength enforces the [MinContentLength, MaxContentLength] policy
func ValidateContentLength(content string) error {
	length := utf8.RuneCountInString(content)
	if length < MinContentLength {
		return types.NewValidationError(fmt.Sprintf(
			"content is too short for meaningful feedback; minimum length is %d characters", MinContentLength))
	}
	if length > MaxContentLength {
		return types.NewValidationError(fmt.Sprintf(
			"content is too long for analysis; maximum length is %d characters", MaxContentLength))
	}
	return nil
}

// Analyze reviews a validated request and returns the assembled response.
// Length violations return *types.ValidationError; client failures are returned as is
// and unusable model output returns *OutputError.
func (a *Agent) Analyze(ctx context.Context, req *types.FeedbackRequest) (*types.FeedbackResponse, error) {
	if err := ValidateContentLength(req.Content); err != nil {
		return nil, err
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	a.logger.DebugContext(ctx, "requesting feedback from model",
		"request_id", req.RequestID,
		"post_type", req.PostType,
		"prompt_chars", utf8.RuneCountInString(prompt))

	raw, err := a.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("model completion failed: %w", err)
	}

	out, err := ParseOutput(raw)
	if err != nil {
		return nil, err
	}

	return types.NewFeedbackResponse(req.RequestID, out), nil
}
