package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chat-summary-api/internal/config"
	"github.com/chat-summary-api/internal/llm"
	"github.com/chat-summary-api/internal/models"
	"github.com/chat-summary-api/internal/summary"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Flag values.
var (
	providerFlag string
	jsonOutput   bool
	verbose      bool
)

// rootCmd generates a single summary and prints it.
var rootCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Generate one chat summary with the configured LLM provider",
	Long: `Read a summary request (the POST /api/generate-summary body) and print
the generated summary.

Pass a file path as an argument, or pipe JSON via stdin:
  summarize request.json
  cat request.json | summarize --json`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSummarize,
}

func init() {
	rootCmd.Flags().StringVar(&providerFlag, "provider", "", "override LLM_PROVIDER (anthropic or gemini)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full response as JSON")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), verbose)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if providerFlag != "" {
		cfg.LLMProvider = models.ProviderType(providerFlag)
	}

	req, err := readRequest(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	provider, err := llm.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	if closer, ok := provider.(io.Closer); ok {
		defer closer.Close() //nolint:errcheck // best-effort close on exit
	}

	logger.Info().
		Str("provider", provider.Name()).
		Str("model", cfg.ProviderModel()).
		Msg("Generating summary...")

	generator := summary.NewGenerator(provider, cfg.LLMMaxTokens, cfg.UpstreamTimeout, logger)
	resp, err := generator.GenerateSummary(cmd.Context(), req)
	if err != nil {
		return err
	}

	logger.Info().Int("tokens_used", resp.TokensUsed).Msg("Summary generation completed successfully")
	return writeResponse(cmd.OutOrStdout(), resp, jsonOutput)
}

// readRequest decodes the request from the file argument or from stdin
func readRequest(stdin io.Reader, args []string) (*models.SummaryRequest, error) {
	r := stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("cannot open %q: %w", args[0], err)
		}
		defer f.Close() //nolint:errcheck // read-only file
		r = f
	}

	var req models.SummaryRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	return &req, nil
}

func writeResponse(w io.Writer, resp *models.SummaryResponse, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, resp.Summary)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// newLogger writes human-readable logs so stdout stays clean for the summary
func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}).Level(level).With().Timestamp().Logger()
}
