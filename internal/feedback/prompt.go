package feedback

import (
	"fmt"

	"github.com/jonathan/devlog-feedback/internal/prompts"
	"github.com/jonathan/devlog-feedback/internal/schemas"
	"github.com/jonathan/devlog-feedback/internal/types"
)

const (
	promptFile = "feedback.json"
	promptKey  = "analyze-post"
)

// BuildPrompt renders the analysis prompt for a request. The embedded schema
// template comes from the same schema ParseOutput validates against.
func BuildPrompt(req *types.FeedbackRequest) (string, error) {
	template, err := prompts.Get(promptFile, promptKey)
	if err != nil {
		return "", err
	}

	schemaTemplate, err := schemas.FeedbackOutputTemplate()
	if err != nil {
		return "", fmt.Errorf("rendering output schema: %w", err)
	}

	return prompts.Format(template, map[string]string{
		"Schema":          schemaTemplate,
		"PostType":        string(req.PostType),
		"ExperienceLevel": string(req.Metadata.ExperienceLevel),
		"PreferredTone":   string(req.Metadata.PreferredTone),
		"Content":         req.Content,
	}), nil
}
