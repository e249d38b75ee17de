package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jonathan/devlog-feedback/internal/feedback"
	"github.com/jonathan/devlog-feedback/internal/llm"
	"github.com/jonathan/devlog-feedback/internal/logger"
	"github.com/jonathan/devlog-feedback/internal/types"
)

// maxBodyBytes bounds the request body; the content limit is far below this
const maxBodyBytes = 1 << 20

// handleAnalyze runs one feedback analysis. Success and failure are both HTTP 200;
// the payload shape tells them apart.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	requestID := ""

	defer func() {
		if rec := recover(); rec != nil {
			log.ErrorContext(ctx, "analysis panicked", "request_id", requestID, "panic", fmt.Sprint(rec))
			s.jsonResponse(w, http.StatusOK, newErrorResponse(requestID, fmt.Errorf("panic: %v", rec)))
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = types.NewValidationError(fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes))
		} else {
			err = types.NewValidationError("request body could not be read")
		}
		s.writeFailure(w, r, log, requestID, err)
		return
	}

	req, err := types.ParseFeedbackRequest(body)
	if req != nil {
		requestID = req.RequestID
	}
	if err != nil {
		s.writeFailure(w, r, log, requestID, err)
		return
	}

	agent := feedback.NewAgent(s.newClient(log), feedback.WithLogger(log))
	resp, err := agent.Analyze(ctx, req)
	if err != nil {
		s.writeFailure(w, r, log, requestID, err)
		return
	}

	log.InfoContext(ctx, "feedback generated",
		"request_id", requestID,
		"user_id", req.UserID,
		"post_type", req.PostType,
		"confidence", resp.AgentReasoning.Confidence)
	s.jsonResponse(w, http.StatusOK, resp)
}

// newClient builds a fresh model client for a single request
func (s *Server) newClient(log *slog.Logger) llm.Client {
	opts := []llm.Option{llm.WithLogger(log)}
	if s.httpClient != nil {
		opts = append(opts, llm.WithHTTPClient(s.httpClient))
	}
	return llm.NewClient(s.llmConfig, opts...)
}

// writeFailure logs the internal cause and writes the public error response
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, log *slog.Logger, requestID string, err error) {
	resp := newErrorResponse(requestID, err)
	if resp.Error.Type == types.ErrorTypeValidation {
		args := []any{"request_id", requestID, "reason", resp.Error.Message}
		if fields := invalidFields(err); len(fields) > 0 {
			args = append(args, "fields", fields)
		}
		log.WarnContext(r.Context(), "request rejected", args...)
	} else {
		log.ErrorContext(r.Context(), "feedback analysis failed",
			"request_id", requestID,
			"cause", errorCause(err),
			"error", err)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
