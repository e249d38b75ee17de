package llm

// WithSystemPrompt overrides the reviewer persona sent as the system message
func WithSystemPrompt(p string) Option {
	return func(o *options) {
		o.systemPrompt = p
	}
}

// NewStubClientWithResponse returns a stub that always answers with the given text
func NewStubClientWithResponse(response string) *StubClient {
	return &StubClient{response: response}
}

// Endpoint returns the full chat completions URL this client posts to
func (c *OpenAIClient) Endpoint() string {
	return c.endpoint
}
