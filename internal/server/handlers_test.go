package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jonathan/devlog-feedback/internal/llm"
	"github.com/jonathan/devlog-feedback/internal/logger"
	"github.com/jonathan/devlog-feedback/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const analyzePath = "/agents/feedback/analyze"

const validOutput = `{
  "analysis": {
    "writing_style": {"tone": "TECHNICAL", "clarity_score": 0.8, "structure_score": 0.7, "depth_score": 0.6},
    "strengths": ["Clear reproduction steps"],
    "weaknesses": ["No benchmark numbers"]
  },
  "guidelines": {
    "next_article_focus": ["Measure before and after"],
    "questions_to_answer": ["Why did the cache miss?"],
    "structural_advice": ["Lead with the symptom"]
  },
  "agent_reasoning": {"decision_summary": "Solid troubleshooting post", "confidence": 0.9}
}`

func requestBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"request_id": "req-42",
		"user_id":    "user-7",
		"post_type":  "TROUBLESHOOTING",
		"content":    content,
		"metadata": map[string]string{
			"experience_level": "INTERMEDIATE",
			"preferred_tone":   "TECHNICAL",
		},
	})
	require.NoError(t, err)
	return body
}

func postAnalyze(t *testing.T, s *Server, body []byte) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, analyzePath, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload), w.Body.String())
	return w, payload
}

func errorOf(t *testing.T, payload map[string]any) (string, string) {
	t.Helper()
	e, ok := payload["error"].(map[string]any)
	require.True(t, ok, "expected error object, got %v", payload)
	return e["type"].(string), e["message"].(string)
}

// fakeProvider serves an OpenAI-compatible chat completion with the given content
func fakeProvider(t *testing.T, status int, content string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded with key sk-secret"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// countingTransport counts outbound model calls made through an injected http.Client
type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func liveServer(t *testing.T, providerURL string) (*Server, *countingTransport) {
	t.Helper()
	transport := &countingTransport{}
	s, err := New(Config{
		LLM:        llm.Config{BaseURL: providerURL, APIKey: "sk-secret", Model: "test-model"},
		HTTPClient: &http.Client{Transport: transport},
		Logger:     logger.Discard(),
	})
	require.NoError(t, err)
	return s, transport
}

func TestHandleAnalyze_StubSuccess(t *testing.T) {
	s := newTestServer(t, llm.Config{})

	w, payload := postAnalyze(t, s, requestBody(t, strings.Repeat("a", 200)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "req-42", payload["request_id"])
	assert.Equal(t, "feedback", payload["agent"])
	assert.NotContains(t, payload, "error")

	reasoning := payload["agent_reasoning"].(map[string]any)
	assert.InDelta(t, 0.2, reasoning["confidence"], 1e-9)
}

func TestHandleAnalyze_LiveSuccess(t *testing.T) {
	provider, calls := fakeProvider(t, http.StatusOK, validOutput)
	s, transport := liveServer(t, provider.URL)

	_, payload := postAnalyze(t, s, requestBody(t, strings.Repeat("b", 500)))

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(1), transport.calls.Load(), "model call must go through the injected client")
	assert.Equal(t, "req-42", payload["request_id"])
	analysis := payload["analysis"].(map[string]any)
	style := analysis["writing_style"].(map[string]any)
	assert.Equal(t, "TECHNICAL", style["tone"])
	assert.Equal(t, []any{"Clear reproduction steps"}, analysis["strengths"])
}

func TestHandleAnalyze_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        []byte
		wantID      string
		wantMessage string
	}{
		{
			name:        "content below minimum",
			body:        requestBody(t, strings.Repeat("x", 119)),
			wantID:      "req-42",
			wantMessage: "content is too short for meaningful feedback; minimum length is 120 characters",
		},
		{
			name:        "content above maximum",
			body:        requestBody(t, strings.Repeat("x", 12001)),
			wantID:      "req-42",
			wantMessage: "content is too long for analysis; maximum length is 12000 characters",
		},
		{
			name:        "blank content",
			body:        requestBody(t, "   \n\t  "),
			wantID:      "req-42",
			wantMessage: "content must not be blank",
		},
		{
			name:        "malformed json",
			body:        []byte(`{"request_id": "req-9",`),
			wantID:      "",
			wantMessage: "request body is not valid JSON",
		},
		{
			name:        "lowercase enum",
			body:        bytes.Replace(requestBody(t, strings.Repeat("x", 200)), []byte(`"TROUBLESHOOTING"`), []byte(`"troubleshooting"`), 1),
			wantID:      "req-42",
			wantMessage: "post_type must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, llm.Config{})

			w, payload := postAnalyze(t, s, tt.body)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantID, payload["request_id"])
			assert.Equal(t, "feedback", payload["agent"])
			errType, msg := errorOf(t, payload)
			assert.Equal(t, types.ErrorTypeValidation, errType)
			assert.Contains(t, msg, tt.wantMessage)
		})
	}
}

func TestHandleAnalyze_LengthGateSkipsProvider(t *testing.T) {
	provider, calls := fakeProvider(t, http.StatusOK, validOutput)
	s, transport := liveServer(t, provider.URL)

	_, payload := postAnalyze(t, s, requestBody(t, strings.Repeat("x", 119)))

	errType, _ := errorOf(t, payload)
	assert.Equal(t, types.ErrorTypeValidation, errType)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, int32(0), transport.calls.Load())
}

func TestHandleAnalyze_LLMErrors(t *testing.T) {
	missingConfidence := strings.Replace(validOutput, `, "confidence": 0.9`, "", 1)
	outOfRange := strings.Replace(validOutput, `"clarity_score": 0.8`, `"clarity_score": 1.5`, 1)

	tests := []struct {
		name    string
		status  int
		content string
	}{
		{name: "non-json output", status: http.StatusOK, content: "Here is my feedback: great post!"},
		{name: "fenced output", status: http.StatusOK, content: "```json\n" + validOutput + "\n```"},
		{name: "missing confidence", status: http.StatusOK, content: missingConfidence},
		{name: "score out of range", status: http.StatusOK, content: outOfRange},
		{name: "provider 500", status: http.StatusInternalServerError},
		{name: "provider 401", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, _ := fakeProvider(t, tt.status, tt.content)
			s, _ := liveServer(t, provider.URL)

			w, payload := postAnalyze(t, s, requestBody(t, strings.Repeat("y", 300)))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "req-42", payload["request_id"])
			errType, msg := errorOf(t, payload)
			assert.Equal(t, types.ErrorTypeLLM, errType)
			assert.Equal(t, genericLLMMessage, msg)
			assert.NotContains(t, w.Body.String(), "sk-secret")
			assert.NotContains(t, payload, "analysis")
		})
	}
}

func TestHandleAnalyze_ProviderUnreachable(t *testing.T) {
	provider, _ := fakeProvider(t, http.StatusOK, validOutput)
	url := provider.URL
	provider.Close()
	s, _ := liveServer(t, url)

	_, payload := postAnalyze(t, s, requestBody(t, strings.Repeat("z", 300)))

	errType, msg := errorOf(t, payload)
	assert.Equal(t, types.ErrorTypeLLM, errType)
	assert.Equal(t, genericLLMMessage, msg)
}

func TestHandleAnalyze_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, llm.Config{})

	_, payload := postAnalyze(t, s, bytes.Repeat([]byte("a"), maxBodyBytes+1))

	errType, msg := errorOf(t, payload)
	assert.Equal(t, types.ErrorTypeValidation, errType)
	assert.Contains(t, msg, "request body exceeds")
}

func TestHandleAnalyze_SharedClientServesEachRequest(t *testing.T) {
	provider, calls := fakeProvider(t, http.StatusOK, validOutput)
	s, transport := liveServer(t, provider.URL)

	for i := 0; i < 3; i++ {
		_, payload := postAnalyze(t, s, requestBody(t, strings.Repeat("c", 200)))
		assert.NotContains(t, payload, "error")
	}

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int32(3), transport.calls.Load())
}

func TestHandleAnalyze_LogsRejectedFields(t *testing.T) {
	var logs bytes.Buffer
	s, err := New(Config{Logger: logger.New(&logs, slog.LevelDebug, logger.FormatJSON)})
	require.NoError(t, err)

	_, payload := postAnalyze(t, s, requestBody(t, "   "))

	errType, _ := errorOf(t, payload)
	assert.Equal(t, types.ErrorTypeValidation, errType)
	assert.Contains(t, logs.String(), `"msg":"request rejected"`)
	assert.Contains(t, logs.String(), `"fields":["content"]`)
}
