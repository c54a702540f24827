package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chat-summary-api/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anthropicResponse is the JSON shape returned by the Messages API.
type anthropicResponse struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Role       string             `json:"role"`
	Content    []anthropicContent `json:"content"`
	Model      string             `json:"model"`
	StopReason string             `json:"stop_reason"`
	Usage      anthropicUsage     `json:"usage"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func okResponse(text string) anthropicResponse {
	return anthropicResponse{
		ID:         "msg_test",
		Type:       "message",
		Role:       "assistant",
		Content:    []anthropicContent{{Type: "text", Text: text}},
		Model:      "claude-sonnet-4-20250514",
		StopReason: "end_turn",
		Usage:      anthropicUsage{InputTokens: 120, OutputTokens: 80},
	}
}

// newTestServer returns an httptest server that responds with body and
// statusCode, captures the request body and counts hits.
func newTestServer(t *testing.T, body interface{}, statusCode int, captured *map[string]interface{}, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if captured != nil {
			var req map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
				*captured = req
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newProvider(url string) *llm.AnthropicProvider {
	return llm.NewAnthropicProvider(
		llm.WithAPIKey("test-key"),
		llm.WithBaseURL(url),
	)
}

func TestAnthropicProvider_Name(t *testing.T) {
	p := llm.NewAnthropicProvider(llm.WithAPIKey("test-key"))
	assert.Equal(t, "anthropic", p.Name())
}

func TestAnthropicProvider_CustomModel(t *testing.T) {
	var captured map[string]interface{}
	srv := newTestServer(t, okResponse("ok"), http.StatusOK, &captured, nil)

	p := llm.NewAnthropicProvider(
		llm.WithAPIKey("test-key"),
		llm.WithBaseURL(srv.URL),
		llm.WithModel("claude-haiku-4-5"),
	)
	_, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5", captured["model"])
}

func TestComplete_MapsTextAndUsage(t *testing.T) {
	var captured map[string]interface{}
	srv := newTestServer(t, okResponse("📺 Сводка"), http.StatusOK, &captured, nil)

	resp, err := newProvider(srv.URL).Complete(context.Background(), llm.Request{
		Prompt:       "данные",
		SystemPrompt: "ты ведущий",
	})
	require.NoError(t, err)

	assert.Equal(t, "📺 Сводка", resp.Content)
	assert.Equal(t, "claude-sonnet-4-20250514", resp.Model)
	assert.Equal(t, 120, resp.Usage.InputTokens)
	assert.Equal(t, 80, resp.Usage.OutputTokens)
	assert.Equal(t, 200, resp.Usage.Total())

	// Verify defaults sent to API.
	assert.Equal(t, "claude-sonnet-4-20250514", captured["model"])
	assert.Equal(t, float64(2000), captured["max_tokens"])

	system, ok := captured["system"].([]interface{})
	require.True(t, ok, "system should be an array of text blocks")
	require.Len(t, system, 1)
	assert.Equal(t, "ты ведущий", system[0].(map[string]interface{})["text"])
}

func TestComplete_MaxTokensOverride(t *testing.T) {
	var captured map[string]interface{}
	srv := newTestServer(t, okResponse("ok"), http.StatusOK, &captured, nil)

	_, err := newProvider(srv.URL).Complete(context.Background(), llm.Request{
		Prompt:    "hi",
		MaxTokens: 1024,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1024), captured["max_tokens"])
}

func TestComplete_NoSystemPrompt(t *testing.T) {
	var captured map[string]interface{}
	srv := newTestServer(t, okResponse("ok"), http.StatusOK, &captured, nil)

	_, err := newProvider(srv.URL).Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.NoError(t, err)
	_, hasSystem := captured["system"]
	assert.False(t, hasSystem)
}

func TestComplete_MissingKeyFailsFast(t *testing.T) {
	var hits int32
	srv := newTestServer(t, okResponse("ok"), http.StatusOK, nil, &hits)

	p := llm.NewAnthropicProvider(llm.WithBaseURL(srv.URL))
	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrAuth))
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "no request should reach the API")
}

func TestComplete_UnauthorizedIsAuthError(t *testing.T) {
	body := map[string]interface{}{
		"type":  "error",
		"error": map[string]string{"type": "authentication_error", "message": "invalid x-api-key"},
	}
	srv := newTestServer(t, body, http.StatusUnauthorized, nil, nil)

	_, err := newProvider(srv.URL).Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrAuth))
	assert.False(t, errors.Is(err, llm.ErrUpstream))
	assert.NotContains(t, err.Error(), "test-key")
}

func TestComplete_ServerErrorIsUpstreamWithoutRetry(t *testing.T) {
	var hits int32
	body := map[string]interface{}{
		"type":  "error",
		"error": map[string]string{"type": "overloaded_error", "message": "Overloaded"},
	}
	srv := newTestServer(t, body, 529, nil, &hits)

	_, err := newProvider(srv.URL).Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrUpstream))

	var upErr *llm.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, 529, upErr.StatusCode)
	assert.Equal(t, "anthropic", upErr.Provider)
	assert.False(t, upErr.Timeout)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "provider must be called exactly once")
}

func TestComplete_DeadlineIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newProvider(srv.URL).Complete(ctx, llm.Request{Prompt: "hi"})
	require.Error(t, err)

	var upErr *llm.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.True(t, upErr.Timeout)
}
