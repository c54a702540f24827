package llm_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/chat-summary-api/internal/llm"
	"github.com/chat-summary-api/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		provider models.ProviderType
		wantName string
	}{
		{"anthropic", models.ProviderAnthropic, "anthropic"},
		{"gemini", models.ProviderGemini, "gemini"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &models.ServerConfig{
				LLMProvider:    tt.provider,
				AnthropicModel: llm.DefaultAnthropicModel,
				GeminiModel:    llm.DefaultGeminiModel,
				LLMMaxTokens:   llm.DefaultMaxTokens,
			}
			p, err := llm.NewFromConfig(cfg, zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNewFromConfig_UnknownProvider(t *testing.T) {
	p, err := llm.NewFromConfig(&models.ServerConfig{LLMProvider: "openai"}, zerolog.Nop())
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai")
}

func TestNewFromConfig_GeminiBaseURL(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK, geminiOK, nil, nil)
	cfg := &models.ServerConfig{
		LLMProvider:   models.ProviderGemini,
		GeminiAPIKey:  "test-key",
		GeminiModel:   llm.DefaultGeminiModel,
		GeminiBaseURL: srv.URL,
		LLMMaxTokens:  llm.DefaultMaxTokens,
	}

	p, err := llm.NewFromConfig(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer p.(*llm.GeminiProvider).Close()

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Сводка дня", resp.Content)
}
