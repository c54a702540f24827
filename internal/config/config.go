package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/chat-summary-api/internal/models"
	"github.com/joho/godotenv"
)

// Load loads configuration from environment variables
// It first attempts to load from .env file, then reads environment variables
func Load() (*models.ServerConfig, error) {
	// Try to load .env file (optional, ignore error if not found)
	_ = godotenv.Load()

	config := &models.ServerConfig{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Validate configuration
	if err := validate(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate checks if configuration values are usable.
// A missing provider API key is not an error here: every summary request
// fails with an auth error instead, so health checks keep working.
func validate(cfg *models.ServerConfig) error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required")
	}

	switch cfg.LLMProvider {
	case models.ProviderAnthropic, models.ProviderGemini:
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of: anthropic, gemini; got %s", cfg.LLMProvider)
	}

	if cfg.ProviderModel() == "" {
		return fmt.Errorf("model for provider %s must not be empty", cfg.LLMProvider)
	}

	// Validate positive values
	if cfg.LLMMaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", cfg.LLMMaxTokens)
	}
	if cfg.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", cfg.UpstreamTimeout)
	}
	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("READ_TIMEOUT must be positive, got %s", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= cfg.UpstreamTimeout {
		return fmt.Errorf("WRITE_TIMEOUT (%s) must exceed UPSTREAM_TIMEOUT (%s)", cfg.WriteTimeout, cfg.UpstreamTimeout)
	}
	if cfg.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %s", cfg.LogLevel)
	}

	return nil
}
