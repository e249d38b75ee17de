package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/devlog-feedback/internal/types"
	"github.com/spf13/cobra"
)

// requestFlags are the request fields shared by analyze and prompt
type requestFlags struct {
	file      string
	requestID string
	userID    string
	postType  string
	level     string
	tone      string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "-", "Path to the draft (markdown or plain text); - reads stdin")
	cmd.Flags().StringVar(&f.requestID, "request-id", "", "Request ID (default: random UUID)")
	cmd.Flags().StringVarP(&f.userID, "user-id", "u", "cli", "User ID")
	cmd.Flags().StringVarP(&f.postType, "post-type", "t", string(types.PostTypeTIL), "Post type: TIL, RETROSPECTIVE, TROUBLESHOOTING or DESIGN")
	cmd.Flags().StringVarP(&f.level, "level", "l", string(types.ExperienceIntermediate), "Experience level: BEGINNER, INTERMEDIATE or ADVANCED")
	cmd.Flags().StringVar(&f.tone, "tone", string(types.ToneNeutral), "Preferred tone: CASUAL, NEUTRAL or TECHNICAL")
}

// build reads the draft and returns a validated request
func (f *requestFlags) build(stdin io.Reader) (*types.FeedbackRequest, error) {
	var (
		content []byte
		err     error
	)
	if f.file == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(f.file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	requestID := f.requestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	req := &types.FeedbackRequest{
		RequestID: requestID,
		UserID:    f.userID,
		PostType:  types.PostType(f.postType),
		Content:   string(content),
		Metadata: types.FeedbackMetadata{
			ExperienceLevel: types.ExperienceLevel(f.level),
			PreferredTone:   types.Tone(f.tone),
		},
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
