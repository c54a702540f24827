package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

const geminiProviderName = "gemini"

// GeminiProvider implements Provider on top of the Gemini API
type GeminiProvider struct {
	apiKey      string
	model       string
	maxTokens   int
	clientOpts  []option.ClientOption
	logger      zerolog.Logger
	genaiClient *genai.Client
	mu          sync.Mutex
}

// Compile-time check that GeminiProvider satisfies the Provider interface.
var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider.
// The underlying client is created on first use and reused afterwards.
// opts are passed to the client after the API key, e.g. option.WithEndpoint.
func NewGeminiProvider(apiKey, model string, maxTokens int, logger zerolog.Logger, opts ...option.ClientOption) *GeminiProvider {
	if model == "" {
		model = DefaultGeminiModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &GeminiProvider{
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		clientOpts: opts,
		logger:     logger.With().Str("component", "llm").Str("provider", geminiProviderName).Logger(),
	}
}

// getClient returns or creates a genai client (thread-safe)
func (p *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.genaiClient != nil {
		return p.genaiClient, nil
	}

	opts := append([]option.ClientOption{option.WithAPIKey(p.apiKey)}, p.clientOpts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	p.genaiClient = client
	p.logger.Info().Msg("Gemini client created and cached")
	return p.genaiClient, nil
}

// Close closes the Gemini client and releases resources
func (p *GeminiProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.genaiClient != nil {
		err := p.genaiClient.Close()
		p.genaiClient = nil
		if err != nil {
			p.logger.Error().Err(err).Msg("Failed to close Gemini client")
			return err
		}
		p.logger.Info().Msg("Gemini client closed")
	}
	return nil
}

// Complete makes a single GenerateContent call to Gemini
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return nil, missingKeyError("GEMINI_API_KEY")
	}

	client, err := p.getClient(ctx)
	if err != nil {
		return nil, newUpstreamError(geminiProviderName, 0, err)
	}

	modelName := p.model
	if req.Model != "" {
		modelName = req.Model
	}
	maxTokens := p.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	model := client.GenerativeModel(modelName)
	model.SetMaxOutputTokens(int32(maxTokens))
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}

	p.logger.Debug().
		Str("model", modelName).
		Int("prompt_length", len(req.Prompt)).
		Msg("Sending request to LLM")

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	// Extract text from response
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, newUpstreamError(geminiProviderName, 0, errors.New("no response candidates from LLM"))
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, newUpstreamError(geminiProviderName, 0, errors.New("no content parts in response"))
	}

	// Extract text from all parts
	var responseText strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	var usage Usage
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &Response{
		Content: responseText.String(),
		Model:   modelName,
		Usage:   usage,
	}, nil
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string {
	return geminiProviderName
}

// classifyGeminiError maps Google API errors onto ErrAuth or *UpstreamError.
// An invalid key comes back as INVALID_ARGUMENT with reason API_KEY_INVALID.
func classifyGeminiError(err error) error {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		return newUpstreamError(geminiProviderName, 0, err)
	}

	httpCode := apiErr.HTTPCode()
	grpcCode := apiErr.GRPCStatus().Code()

	if httpCode == http.StatusUnauthorized || httpCode == http.StatusForbidden ||
		grpcCode == codes.Unauthenticated || grpcCode == codes.PermissionDenied ||
		apiErr.Reason() == "API_KEY_INVALID" {
		return fmt.Errorf("%w: gemini rejected the API key", ErrAuth)
	}

	if httpCode == -1 {
		httpCode = 0
	}
	return newUpstreamError(geminiProviderName, httpCode, err)
}
