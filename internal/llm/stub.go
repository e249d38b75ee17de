package llm

import "context"

// StubResponse is the fixed answer returned when no live model is configured.
// It satisfies the structured output schema.
const StubResponse = `{` +
	`"analysis": {` +
	`"writing_style": {` +
	`"tone": "NEUTRAL",` +
	`"clarity_score": 0.5,` +
	`"structure_score": 0.5,` +
	`"depth_score": 0.5` +
	`},` +
	`"strengths": ["Stubbed response; configure LLM env vars."],` +
	`"weaknesses": ["Stubbed response; configure LLM env vars."]` +
	`},` +
	`"guidelines": {` +
	`"next_article_focus": ["Stubbed response; configure LLM env vars."],` +
	`"questions_to_answer": ["Stubbed response; configure LLM env vars."],` +
	`"structural_advice": ["Stubbed response; configure LLM env vars."]` +
	`},` +
	`"agent_reasoning": {` +
	`"decision_summary": "Stubbed response; configure LLM env vars.",` +
	`"confidence": 0.2` +
	`}` +
	`}`

// StubClient is a deterministic, network-free Client
type StubClient struct {
	response string
}

// NewStubClient returns a stub that always answers with StubResponse
func NewStubClient() *StubClient {
	return &StubClient{response: StubResponse}
}

// Complete ignores the prompt and returns the fixed response
func (s *StubClient) Complete(_ context.Context, _ string) (string, error) {
	return s.response, nil
}
