// Package types provides the request, response and model-output shapes exchanged by the feedback agent.
//
//nolint:revive // types is a standard Go package name pattern
package types

// AgentName is the fixed agent tag carried by every response
const AgentName = "feedback"

// PostType classifies the kind of blog post being reviewed
type PostType string

// Supported post types
const (
	PostTypeTIL             PostType = "TIL"
	PostTypeRetrospective   PostType = "RETROSPECTIVE"
	PostTypeTroubleshooting PostType = "TROUBLESHOOTING"
	PostTypeDesign          PostType = "DESIGN"
)

// ExperienceLevel is the author's self-reported seniority
type ExperienceLevel string

// Supported experience levels
const (
	ExperienceBeginner     ExperienceLevel = "BEGINNER"
	ExperienceIntermediate ExperienceLevel = "INTERMEDIATE"
	ExperienceAdvanced     ExperienceLevel = "ADVANCED"
)

// Tone is both the author's preferred feedback tone and the tone detected in the draft
type Tone string

// Supported tones
const (
	ToneCasual    Tone = "CASUAL"
	ToneNeutral   Tone = "NEUTRAL"
	ToneTechnical Tone = "TECHNICAL"
)

// FeedbackMetadata carries the author context used to calibrate the review
type FeedbackMetadata struct {
	ExperienceLevel ExperienceLevel `json:"experience_level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	PreferredTone   Tone            `json:"preferred_tone" validate:"required,oneof=CASUAL NEUTRAL TECHNICAL"`
}

// FeedbackRequest is the inbound body of POST /agents/feedback/analyze
type FeedbackRequest struct {
	RequestID string           `json:"request_id" validate:"required,min=1"`
	UserID    string           `json:"user_id" validate:"required,min=1"`
	PostType  PostType         `json:"post_type" validate:"required,oneof=TIL RETROSPECTIVE TROUBLESHOOTING DESIGN"`
	Content   string           `json:"content" validate:"required,min=1,notblank"`
	Metadata  FeedbackMetadata `json:"metadata"`
}

// WritingStyle describes the detected tone and quality scores of the draft
type WritingStyle struct {
	Tone           Tone    `json:"tone" validate:"required,oneof=CASUAL NEUTRAL TECHNICAL"`
	ClarityScore   float64 `json:"clarity_score" validate:"gte=0,lte=1"`
	StructureScore float64 `json:"structure_score" validate:"gte=0,lte=1"`
	DepthScore     float64 `json:"depth_score" validate:"gte=0,lte=1"`
}

// FeedbackAnalysis is the model's assessment of the current draft
type FeedbackAnalysis struct {
	WritingStyle WritingStyle `json:"writing_style"`
	Strengths    []string     `json:"strengths" validate:"required"`
	Weaknesses   []string     `json:"weaknesses" validate:"required"`
}

// FeedbackGuidelines is forward-looking guidance for the author's next article
type FeedbackGuidelines struct {
	NextArticleFocus  []string `json:"next_article_focus" validate:"required"`
	QuestionsToAnswer []string `json:"questions_to_answer" validate:"required"`
	StructuralAdvice  []string `json:"structural_advice" validate:"required"`
}

// AgentReasoning is the model's self-reported rationale and confidence
type AgentReasoning struct {
	DecisionSummary string  `json:"decision_summary"`
	Confidence      float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// StructuredOutput is the JSON document the model is instructed to return
type StructuredOutput struct {
	Analysis       FeedbackAnalysis   `json:"analysis"`
	Guidelines     FeedbackGuidelines `json:"guidelines"`
	AgentReasoning AgentReasoning     `json:"agent_reasoning"`
}

// FeedbackResponse is returned for a successful analysis
type FeedbackResponse struct {
	RequestID      string             `json:"request_id"`
	Agent          string             `json:"agent"`
	Analysis       FeedbackAnalysis   `json:"analysis"`
	Guidelines     FeedbackGuidelines `json:"guidelines"`
	AgentReasoning AgentReasoning     `json:"agent_reasoning"`
}

// NewFeedbackResponse assembles a response from the parsed model output
func NewFeedbackResponse(requestID string, out *StructuredOutput) *FeedbackResponse {
	return &FeedbackResponse{
		RequestID:      requestID,
		Agent:          AgentName,
		Analysis:       out.Analysis,
		Guidelines:     out.Guidelines,
		AgentReasoning: out.AgentReasoning,
	}
}

// Error types reported in ErrorDetails.Type
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeLLM        = "llm_error"
)

// ErrorDetails describes why an analysis failed
type ErrorDetails struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ErrorResponse is returned, with HTTP 200, for any failed analysis
type ErrorResponse struct {
	RequestID string       `json:"request_id"`
	Agent     string       `json:"agent"`
	Error     ErrorDetails `json:"error"`
}

// NewErrorResponse builds an error response echoing the request id
func NewErrorResponse(requestID, errType, message string) *ErrorResponse {
	return &ErrorResponse{
		RequestID: requestID,
		Agent:     AgentName,
		Error: ErrorDetails{
			Message: message,
			Type:    errType,
		},
	}
}
