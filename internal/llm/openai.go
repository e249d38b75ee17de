package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const chatCompletionsPath = "/v1/chat/completions"

// maxErrorBody caps how much of a failed response is kept for logs
const maxErrorBody = 512

// OpenAIClient implements Client against an OpenAI-compatible chat completions endpoint.
// Each call is a single request with no retries, and connections are not kept alive.
type OpenAIClient struct {
	endpoint     string
	apiKey       string
	model        string
	timeout      time.Duration
	systemPrompt string
	httpClient   *http.Client
	logger       *slog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func newOpenAIClient(cfg Config, o options) *OpenAIClient {
	timeout := cfg.EffectiveTimeout()
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
		}
	}

	return &OpenAIClient{
		endpoint:     strings.TrimRight(cfg.BaseURL, "/") + chatCompletionsPath,
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		timeout:      timeout,
		systemPrompt: o.systemPrompt,
		httpClient:   httpClient,
		logger:       o.logger,
	}
}

// Complete sends the persona and prompt to the provider and returns the first choice's content
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: 0.0,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", &Error{Code: CodeRequest, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Code: CodeRequest, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Code: transportCode(err), Err: err}
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "chat completion finished",
		"model", c.model,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &Error{
			Code:       CodeStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("provider returned %s: %s", resp.Status, strings.TrimSpace(string(detail))),
		}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return "", &Error{Code: CodeTimeout, Err: err}
		}
		return "", &Error{Code: CodeResponseShape, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if len(out.Choices) == 0 {
		return "", &Error{Code: CodeResponseShape, Err: errors.New("no choices in response")}
	}
	content := out.Choices[0].Message.Content
	if content == nil {
		return "", &Error{Code: CodeResponseShape, Err: errors.New("no message content in first choice")}
	}

	return *content, nil
}

func transportCode(err error) Code {
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}
	return CodeTransport
}
