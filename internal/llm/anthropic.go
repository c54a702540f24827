package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicProviderName = "anthropic"

// AnthropicProvider implements Provider using the official Anthropic SDK.
type AnthropicProvider struct {
	client    anthropic.Client
	apiKey    string
	model     string
	maxTokens int
}

// Compile-time check that AnthropicProvider satisfies the Provider interface.
var _ Provider = (*AnthropicProvider)(nil)

// AnthropicOption configures an AnthropicProvider.
type AnthropicOption func(*anthropicConfig)

type anthropicConfig struct {
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) AnthropicOption {
	return func(c *anthropicConfig) {
		c.apiKey = key
	}
}

// WithModel overrides the default model for all requests.
func WithModel(model string) AnthropicOption {
	return func(c *anthropicConfig) {
		c.model = model
	}
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) AnthropicOption {
	return func(c *anthropicConfig) {
		c.baseURL = url
	}
}

// WithMaxTokens sets the default output token budget.
func WithMaxTokens(n int) AnthropicOption {
	return func(c *anthropicConfig) {
		c.maxTokens = n
	}
}

// NewAnthropicProvider creates a new Anthropic provider.
// A missing API key is not an error here; Complete reports it as ErrAuth
// without touching the network.
func NewAnthropicProvider(opts ...AnthropicOption) *AnthropicProvider {
	cfg := anthropicConfig{
		model:     DefaultAnthropicModel,
		maxTokens: DefaultMaxTokens,
	}
	for _, o := range opts {
		o(&cfg)
	}

	// The SDK retries 429 and 5xx by default; failures go straight to the caller.
	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &AnthropicProvider{
		client:    anthropic.NewClient(clientOpts...),
		apiKey:    cfg.apiKey,
		model:     cfg.model,
		maxTokens: cfg.maxTokens,
	}
}

// Complete sends a completion request to the Anthropic Messages API.
func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return nil, missingKeyError("ANTHROPIC_API_KEY")
	}

	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	maxTokens := int64(p.maxTokens)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyAnthropicError(err)
	}

	// Extract text from content blocks.
	var content strings.Builder
	for _, block := range msg.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(variant.Text)
		}
	}

	return &Response{
		Content: content.String(),
		Model:   string(msg.Model),
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}

// Name returns the provider identifier.
func (p *AnthropicProvider) Name() string {
	return anthropicProviderName
}

// classifyAnthropicError maps SDK errors onto ErrAuth or *UpstreamError.
func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: anthropic rejected the API key (status %d)", ErrAuth, apiErr.StatusCode)
		}
		return newUpstreamError(anthropicProviderName, apiErr.StatusCode, err)
	}
	return newUpstreamError(anthropicProviderName, 0, err)
}
