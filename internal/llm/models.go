package llm

import "time"

const (
	// DefaultAnthropicModel is the Claude model used when no override is provided
	DefaultAnthropicModel = "claude-sonnet-4-20250514"

	// DefaultGeminiModel is the Gemini model used when no override is provided
	DefaultGeminiModel = "gemini-2.0-flash"

	// DefaultMaxTokens is the output token budget of a summary.
	// A summary is 300-600 words, 2000 tokens leaves room for Cyrillic text.
	DefaultMaxTokens = 2000

	// DefaultTimeout bounds a provider call when the caller sets no deadline
	DefaultTimeout = 55 * time.Second
)
