package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chat-summary-api/internal/llm"
	"github.com/chat-summary-api/internal/models"
	"github.com/rs/zerolog"
)

// Generator handles chat summary generation using an LLM provider
type Generator struct {
	provider  llm.Provider
	maxTokens int
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewGenerator creates a new summary generator.
// timeout bounds the provider call on top of the caller's own deadline.
func NewGenerator(provider llm.Provider, maxTokens int, timeout time.Duration, logger zerolog.Logger) *Generator {
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	return &Generator{
		provider:  provider,
		maxTokens: maxTokens,
		timeout:   timeout,
		logger:    logger.With().Str("component", "summary_generator").Logger(),
	}
}

// GenerateSummary validates the request, renders the prompt and makes
// exactly one provider call
func (g *Generator) GenerateSummary(ctx context.Context, req *models.SummaryRequest) (*models.SummaryResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	applyDefaults(req)

	logger := g.requestLogger(ctx)
	logger.Info().
		Str("chat_title", req.ChatTitle).
		Int("hours", req.Hours).
		Int("total_messages", req.Statistics.TotalMessages).
		Msg("Starting summary generation")

	prompt := BuildUserPrompt(req)

	logger.Debug().
		Str("provider", g.provider.Name()).
		Int("prompt_length", len(prompt)).
		Msg("Sending request to LLM")

	// Create timeout context for LLM request
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	startTime := time.Now()
	resp, err := g.provider.Complete(ctx, llm.Request{
		Prompt:       prompt,
		SystemPrompt: SystemPrompt,
		MaxTokens:    g.maxTokens,
	})
	if err != nil {
		logger.Error().
			Err(err).
			Str("provider", g.provider.Name()).
			Dur("elapsed", time.Since(startTime)).
			Msg("LLM request failed")
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		err := &llm.UpstreamError{
			Provider: g.provider.Name(),
			Err:      errors.New("provider returned an empty summary"),
		}
		logger.Error().Err(err).Msg("LLM returned no text")
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	tokensUsed := resp.Usage.Total()
	if tokensUsed < 0 {
		tokensUsed = 0
	}

	logger.Info().
		Str("provider", g.provider.Name()).
		Str("model", resp.Model).
		Int("summary_length", len([]rune(text))).
		Int("tokens_used", tokensUsed).
		Dur("elapsed", time.Since(startTime)).
		Msg("Summary generation completed")

	return &models.SummaryResponse{
		Summary:    text,
		TokensUsed: tokensUsed,
	}, nil
}

// requestLogger prefers the request-scoped logger carried by ctx
func (g *Generator) requestLogger(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l.With().Str("component", "summary_generator").Logger()
	}
	return g.logger
}

// applyDefaults fills optional fields the prompt needs
func applyDefaults(req *models.SummaryRequest) {
	if strings.TrimSpace(req.ChatTitle) == "" {
		req.ChatTitle = models.DefaultChatTitle
	}
	if req.Hours <= 0 {
		req.Hours = models.DefaultHours
	}
}
