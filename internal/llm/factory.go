package llm

import (
	"fmt"

	"github.com/chat-summary-api/internal/models"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// NewFromConfig builds the provider selected by cfg.LLMProvider
func NewFromConfig(cfg *models.ServerConfig, logger zerolog.Logger) (Provider, error) {
	switch cfg.LLMProvider {
	case models.ProviderAnthropic:
		opts := []AnthropicOption{
			WithAPIKey(cfg.AnthropicAPIKey),
			WithModel(cfg.AnthropicModel),
			WithMaxTokens(cfg.LLMMaxTokens),
		}
		if cfg.AnthropicBaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.AnthropicBaseURL))
		}
		return NewAnthropicProvider(opts...), nil
	case models.ProviderGemini:
		var opts []option.ClientOption
		if cfg.GeminiBaseURL != "" {
			opts = append(opts, option.WithEndpoint(cfg.GeminiBaseURL))
		}
		return NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMMaxTokens, logger, opts...), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
