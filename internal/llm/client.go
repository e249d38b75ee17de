package llm

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jonathan/devlog-feedback/internal/prompts"
)

// Client is an abstraction over model backends
type Client interface {
	// Complete sends a prompt and returns the model's raw text answer
	Complete(ctx context.Context, prompt string) (string, error)
}

type options struct {
	httpClient   *http.Client
	logger       *slog.Logger
	systemPrompt string
}

// Option customizes a client built by NewClient
type Option func(*options)

// WithHTTPClient replaces the transport used by the live client
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// NewClient creates a client for the given configuration.
// A complete live configuration yields an OpenAIClient; anything else yields a StubClient.
func NewClient(cfg Config, opts ...Option) Client {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	switch cfg.Provider() {
	case ProviderOpenAI:
		if o.systemPrompt == "" {
			o.systemPrompt = prompts.MustGet("feedback.json", "reviewer-persona")
		}
		return newOpenAIClient(cfg, o)
	default:
		o.logger.Debug("live model configuration incomplete, using stub client")
		return NewStubClient()
	}
}
