package models

import "time"

// ProviderType identifies the completion API backing the summary endpoint
type ProviderType string

const (
	// ProviderAnthropic uses the Anthropic Messages API
	ProviderAnthropic ProviderType = "anthropic"

	// ProviderGemini uses the Google Gemini API
	ProviderGemini ProviderType = "gemini"
)

// String returns string representation of ProviderType
func (p ProviderType) String() string {
	return string(p)
}

// ServerConfig represents server configuration
type ServerConfig struct {
	// HTTP settings
	ListenAddr        string        `env:"LISTEN_ADDR" envDefault:":8080"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	MaxBodyBytes      int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	CORSAllowedOrigin string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	MetricsEnabled    bool          `env:"METRICS_ENABLED" envDefault:"true"`

	// LLM settings
	LLMProvider     ProviderType  `env:"LLM_PROVIDER" envDefault:"anthropic"`
	LLMMaxTokens    int           `env:"LLM_MAX_TOKENS" envDefault:"2000"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"55s"`

	// Anthropic API settings
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel   string `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-20250514"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL"`

	// Gemini API settings
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`

	// App settings
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Environment string `env:"ENVIRONMENT" envDefault:"production"`
}

// ProviderAPIKey returns the credential of the configured provider
func (c *ServerConfig) ProviderAPIKey() string {
	switch c.LLMProvider {
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.AnthropicAPIKey
	}
}

// ProviderModel returns the model identifier of the configured provider
func (c *ServerConfig) ProviderModel() string {
	switch c.LLMProvider {
	case ProviderGemini:
		return c.GeminiModel
	default:
		return c.AnthropicModel
	}
}
