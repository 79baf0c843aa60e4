// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/audit-miner/internal/analyze"
	"github.com/pdiddy/audit-miner/internal/extract"
	"github.com/pdiddy/audit-miner/internal/resultsheet"
	"github.com/pdiddy/audit-miner/pkg/types"
)

const (
	defaultModel   = "qwen/qwen3-32b"
	defaultTimeout = 60 * time.Second
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract report metadata into the results workbook",
	Long: `Extract walks the input folder for .docx inspection reports, sends each
one to the AI backend, and appends a metadata row to the results workbook.
The workbook is rewritten after every document so an interrupted run loses
at most the report in flight. Documents that cannot be read or analyzed
still get a row with placeholder values.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("input", "input", "folder of .docx inspection reports")
	extractCmd.Flags().String("results", "results.xlsx", "path of the results workbook")
	extractCmd.Flags().String("model", "", "AI model identifier")
	extractCmd.Flags().Int("max-text-len", 0, "max characters of document text sent to the model")
	extractCmd.Flags().Int("max-retries", 0, "retry attempts for rate-limited API calls")
	extractCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(extractCmd)
}

// apiKey resolves the Groq API key from the environment or .secrets/.
func apiKey() (string, error) {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		return v, nil
	}
	if v, ok := loadedSecrets["groq-api-key"]; ok {
		return v, nil
	}
	return "", fmt.Errorf("no Groq API key: set GROQ_API_KEY or create .secrets/groq-api-key")
}

func runExtract(cmd *cobra.Command, args []string) error {
	key, err := apiKey()
	if err != nil {
		return err
	}

	cfg := extractionConfig(cmd)
	cfg.APIKey = key

	backend := &analyze.GroqBackend{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Client:     &http.Client{Timeout: cfg.Timeout},
	}

	runner := &extract.Runner{
		Backend:    backend,
		MaxTextLen: cfg.MaxTextLen,
		Out:        os.Stdout,
	}

	summary, err := runner.Run(context.Background(), cfg.InputDir, cfg.ResultsFile)
	if err != nil {
		// Leave an existing workbook alone; only seed a fresh one so
		// downstream stages have something to open.
		if _, statErr := os.Stat(cfg.ResultsFile); os.IsNotExist(statErr) {
			if phErr := resultsheet.WritePlaceholder(cfg.ResultsFile); phErr != nil {
				fmt.Fprintf(os.Stderr, "warning: placeholder write failed: %v\n", phErr)
			}
		}
		return err
	}

	if summary.Failed > 0 {
		fmt.Fprintf(os.Stderr, "%d report(s) recorded with placeholder values\n", summary.Failed)
	}
	return nil
}

func extractionConfig(cmd *cobra.Command) types.ExtractionConfig {
	maxTextLen, _ := cmd.Flags().GetInt("max-text-len")
	if maxTextLen == 0 {
		maxTextLen = viper.GetInt("extraction.max_text_len")
	}
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	if maxRetries == 0 {
		maxRetries = viper.GetInt("extraction.max_retries")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return types.ExtractionConfig{
		AIConfig: types.AIConfig{
			Model:      setting(cmd, "model", "extraction.model", defaultModel),
			MaxRetries: maxRetries,
		},
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "audit-miner/0.1",
		},
		InputDir:    setting(cmd, "input", "extraction.input_dir", "input"),
		ResultsFile: setting(cmd, "results", "extraction.results_file", "results.xlsx"),
		MaxTextLen:  maxTextLen,
	}
}
