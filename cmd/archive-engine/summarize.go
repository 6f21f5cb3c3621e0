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

	"github.com/pdiddy/archive-engine/internal/secrets"
	"github.com/pdiddy/archive-engine/internal/summarize"
	"github.com/pdiddy/archive-engine/pkg/types"
)

const (
	defaultTimeout = 120 * time.Second
	defaultDelay   = 1 * time.Second
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [folders...]",
	Short: "Summarize archive documents through a chat-completion API",
	Long: `Summarize extracts text from the PDF, DOCX, and TXT documents in the
named subfolders of the documents directory and sends each to a
chat-completion API, accumulating one structured Markdown section per
document in the report file. Without arguments the fixed priority folders
are processed in order.

Files that cannot be read appear in the report as inline entries instead of
aborting the batch. Requires an API key in the environment or the
credentials file.`,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("documents-dir", "archive/documents", "directory containing the priority subfolders")
	summarizeCmd.Flags().String("report", "archive/report.md", "aggregated Markdown report file")
	summarizeCmd.Flags().String("summaries-dir", "archive/summaries", "directory for per-document YAML summary records")
	summarizeCmd.Flags().String("model", "", "chat-completion model (default gpt-4o-mini)")
	summarizeCmd.Flags().Int("max-tokens", 0, "completion token cap (default 1500)")
	summarizeCmd.Flags().Float64("temperature", 0, "sampling temperature (default 0.3)")
	summarizeCmd.Flags().Duration("delay", 0, "delay between API calls (default 1s)")
	summarizeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 120s)")

	rootCmd.AddCommand(summarizeCmd)
}

// buildSummarizeConfig resolves the summarize stage settings: an explicitly
// set flag wins, then the config file / environment, then the built-in
// default. Zero-valued AI settings are left for the backend to default.
func buildSummarizeConfig(cmd *cobra.Command, apiKey string) types.SummarizeConfig {
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = viper.GetDuration("summarize.request_delay")
	}
	if delay == 0 {
		delay = defaultDelay
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("summarize.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	if maxTokens == 0 {
		maxTokens = viper.GetInt("summarize.max_tokens")
	}

	temperature, _ := cmd.Flags().GetFloat64("temperature")
	if temperature == 0 {
		temperature = viper.GetFloat64("summarize.temperature")
	}

	return types.SummarizeConfig{
		AIConfig: types.AIConfig{
			Model:       setting(cmd, "model", "summarize.model", "gpt-4o-mini"),
			APIKey:      apiKey,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			MaxRetries:  viper.GetInt("summarize.max_retries"),
		},
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: viper.GetString("summarize.user_agent"),
		},
		DocumentsDir: setting(cmd, "documents-dir", "summarize.documents_dir", "archive/documents"),
		ReportPath:   setting(cmd, "report", "summarize.report_path", "archive/report.md"),
		SummariesDir: setting(cmd, "summaries-dir", "summarize.summaries_dir", "archive/summaries"),
		RequestDelay: delay,
		MaxRunes:     viper.GetInt("summarize.max_runes"),
	}
}

func runSummarize(cmd *cobra.Command, args []string) error {
	apiKey, err := secrets.APIKey(loadedSecrets)
	if err != nil {
		return err
	}

	cfg := buildSummarizeConfig(cmd, apiKey)

	folders := args
	if len(folders) == 0 {
		folders = summarize.DefaultFolders
	}

	backend := summarize.NewOpenAIBackend(cfg, &http.Client{Timeout: cfg.Timeout})

	fmt.Printf("summarizing %d folder(s) with %s\n\n", len(folders), backend.Model)

	summary, err := summarize.Run(context.Background(), backend, folders, cfg, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("\ndone: %d summarized, %d skipped, %d failed\nreport: %s\n",
		summary.Summarized, summary.Skipped, summary.Failed, cfg.ReportPath)

	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed summarization", summary.Failed)
	}
	return nil
}
