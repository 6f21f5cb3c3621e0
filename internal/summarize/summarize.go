// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize runs archival documents through a chat-completion API
// and accumulates one structured Markdown section per document in a report.
package summarize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pdiddy/archive-engine/internal/doctext"
	"github.com/pdiddy/archive-engine/pkg/types"
)

// DefaultFolders is the fixed priority order used when no folders are named
// on the command line.
var DefaultFolders = []string{
	"1_conference_papers",
	"2_personal_accounts",
	"3_commentary_drafts",
	"4_journal_details",
	"5_starlight_healing",
	"6_cd_book_materials",
	"7_media_coverage",
	"8_vibroacoustic",
	"9_nature_sound_evidence",
	"10_misc",
}

const defaultRequestDelay = time.Second

// BatchSummary holds counts from a summarization run.
type BatchSummary struct {
	Summarized int // documents summarized via the API
	Skipped    int // documents with no usable text (placeholder entries)
	Failed     int // API or report errors
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Summarized + s.Skipped + s.Failed
}

// HasFailures reports whether any documents failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Run processes the named subfolders of cfg.DocumentsDir in order,
// summarizing every supported document into the report at cfg.ReportPath
// and writing one YAML summary record per successful document. Progress
// goes to w. Missing folders are reported and skipped. A fixed delay
// separates consecutive API calls.
func Run(ctx context.Context, backend TextBackend, folders []string, cfg types.SummarizeConfig, w io.Writer) (BatchSummary, error) {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	report, err := NewReport(cfg.ReportPath, model, time.Now())
	if err != nil {
		return BatchSummary{}, err
	}
	defer report.Close()

	var summary BatchSummary

	for _, folder := range folders {
		folderPath := filepath.Join(cfg.DocumentsDir, folder)
		if _, err := os.Stat(folderPath); err != nil {
			fmt.Fprintf(w, "skipped folder: %s (not found)\n", folder)
			continue
		}

		files, err := listDocuments(folderPath)
		if err != nil {
			fmt.Fprintf(w, "skipped folder: %s (%v)\n", folder, err)
			continue
		}

		fmt.Fprintf(w, "folder: %s (%d file(s))\n", folder, len(files))
		if len(files) == 0 {
			continue
		}

		if err := report.Folder(folder); err != nil {
			return summary, fmt.Errorf("writing report: %w", err)
		}

		for i, path := range files {
			name := filepath.Base(path)
			fmt.Fprintf(w, "  [%d/%d] %s ... ", i+1, len(files), name)

			res := doctext.Extract(path, cfg.MaxRunes)
			if !res.OK() {
				fmt.Fprintf(w, "skipped (%s)\n", res.Placeholder)
				if err := report.ErrorSection(name, "Skipped", res.Placeholder); err != nil {
					return summary, fmt.Errorf("writing report: %w", err)
				}
				summary.Skipped++
				continue
			}

			body, err := backend.Summarize(ctx, name, res.Text)
			if err != nil {
				fmt.Fprintf(w, "API error (%v)\n", err)
				if err := report.ErrorSection(name, "API error", err.Error()); err != nil {
					return summary, fmt.Errorf("writing report: %w", err)
				}
				summary.Failed++
				continue
			}

			if err := report.Section(name, body); err != nil {
				return summary, fmt.Errorf("writing report: %w", err)
			}

			record := types.DocumentSummary{
				Name:        name,
				Folder:      folder,
				Model:       model,
				GeneratedAt: time.Now().UTC(),
				Body:        body,
			}
			if err := writeSummaryRecord(cfg.SummariesDir, record); err != nil {
				fmt.Fprintf(w, "done (warning: %v)\n", err)
			} else {
				fmt.Fprintln(w, "done")
			}
			summary.Summarized++

			// Crude rate-limit accommodation between API calls.
			if err := pause(ctx, cfg.RequestDelay); err != nil {
				return summary, err
			}
		}
	}

	return summary, nil
}

// listDocuments returns the supported documents directly under dir, sorted
// by file name.
func listDocuments(dir string) ([]string, error) {
	var files []string
	for _, pattern := range doctext.SupportedPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i]) < filepath.Base(files[j])
	})
	return files, nil
}

// pause sleeps for the configured inter-request delay, honoring context
// cancellation.
func pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		delay = defaultRequestDelay
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
