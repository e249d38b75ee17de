// Package llm provides the model-client abstraction used by the feedback pipeline.
// A Client turns a prompt into raw model text; NewClient picks the live
// OpenAI-compatible client or the deterministic stub from an explicit Config.
package llm

import "time"

// DefaultTimeout bounds a single live completion call
const DefaultTimeout = 20 * time.Second

// Provider identifies which Client implementation a Config selects
type Provider string

// Provider constants define supported model backends
const (
	// ProviderOpenAI is any OpenAI-compatible /v1/chat/completions endpoint
	ProviderOpenAI Provider = "openai"
	// ProviderStub is the network-free fixed-response client
	ProviderStub Provider = "stub"
)

// Config holds the live-client settings. It is read once when a client is built.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// IsLive reports whether every value needed by the live client is present
func (c Config) IsLive() bool {
	return c.BaseURL != "" && c.APIKey != "" && c.Model != ""
}

// Provider returns the backend this configuration selects
func (c Config) Provider() Provider {
	if c.IsLive() {
		return ProviderOpenAI
	}
	return ProviderStub
}

// EffectiveTimeout returns the configured timeout, or DefaultTimeout when unset
func (c Config) EffectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}
