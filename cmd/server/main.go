package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chat-summary-api/internal/api"
	"github.com/chat-summary-api/internal/config"
	"github.com/chat-summary-api/internal/llm"
	"github.com/chat-summary-api/internal/metrics"
	"github.com/chat-summary-api/internal/summary"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.Environment)
	logger.Info().
		Str("environment", cfg.Environment).
		Str("provider", cfg.LLMProvider.String()).
		Str("model", cfg.ProviderModel()).
		Int("max_tokens", cfg.LLMMaxTokens).
		Dur("upstream_timeout", cfg.UpstreamTimeout).
		Msg("Starting chat summary API")

	// A missing key is reported per request, the server still starts
	if cfg.ProviderAPIKey() == "" {
		logger.Warn().
			Str("provider", cfg.LLMProvider.String()).
			Msg("LLM API key is not configured, summary requests will fail with auth_error")
	}

	// Initialize LLM provider
	logger.Info().Msg("Initializing LLM provider...")
	provider, err := llm.NewFromConfig(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create LLM provider")
	}
	if closer, ok := provider.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close LLM provider")
			}
		}()
	}

	generator := summary.NewGenerator(provider, cfg.LLMMaxTokens, cfg.UpstreamTimeout, logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	server := api.New(cfg, generator, provider.Name(), m, registry, logger)

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for termination signal or server error
	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received termination signal")
	case err := <-serverErrChan:
		logger.Error().Err(err).Msg("Server stopped with error")
	}

	// Graceful shutdown
	logger.Info().Msg("Initiating graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Shutdown timeout exceeded, some requests may be lost")
	} else {
		logger.Info().Msg("Graceful shutdown completed")
	}

	logger.Info().Msg("Server stopped")
}

// setupLogger configures and returns a zerolog logger
func setupLogger(level, environment string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	var logger zerolog.Logger
	if environment == "development" {
		// Pretty console output for development
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Caller().Logger()
	} else {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	return logger
}
