// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/archive-engine/pkg/types"
)

// sectionDivider separates document sections in the report.
const sectionDivider = "\n---\n\n"

// invalidRecordChars mirrors the image-tree filename sanitizer for summary
// record names.
var invalidRecordChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// Report accumulates the Markdown summary report for one run. The file is
// truncated and re-initialized when the report is opened; sections within
// the run are appended.
type Report struct {
	f *os.File
}

// NewReport creates (or truncates) the report file and writes the run header.
func NewReport(path, model string, now time.Time) (*Report, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating report %s: %w", path, err)
	}

	header := fmt.Sprintf("# Document summaries\n\nGenerated by %s\nProcessed: %s\n\n",
		model, now.Format("2006-01-02 15:04:05"))
	if _, err := f.WriteString(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing report header: %w", err)
	}

	return &Report{f: f}, nil
}

// Folder writes a banner introducing one priority folder.
func (r *Report) Folder(name string) error {
	banner := fmt.Sprintf("\n%s\n# %s\n%s\n\n", strings.Repeat("=", 60), name, strings.Repeat("=", 60))
	_, err := r.f.WriteString(banner)
	return err
}

// Section appends one document's summary. The model is instructed to open
// its answer with "## <name>"; when it does not, the heading is added so the
// report always carries exactly one section per document.
func (r *Report) Section(name, body string) error {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "## ") {
		body = fmt.Sprintf("## %s\n\n%s", name, body)
	}
	_, err := r.f.WriteString(body + "\n" + sectionDivider)
	return err
}

// ErrorSection appends an inline failure entry for one document, so a bad
// file shows up in the report instead of aborting the batch.
func (r *Report) ErrorSection(name, label, msg string) error {
	_, err := fmt.Fprintf(r.f, "## %s\n\n**%s**: %s\n%s", name, label, msg, sectionDivider)
	return err
}

// Close flushes and closes the report file.
func (r *Report) Close() error {
	return r.f.Close()
}

// writeSummaryRecord marshals one document summary to
// summariesDir/<name>.yaml for later catalog ingestion.
func writeSummaryRecord(summariesDir string, s types.DocumentSummary) error {
	if err := os.MkdirAll(summariesDir, 0o755); err != nil {
		return fmt.Errorf("creating summaries directory: %w", err)
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling summary record: %w", err)
	}

	name := invalidRecordChars.ReplaceAllString(s.Name, "_") + ".yaml"
	if err := os.WriteFile(filepath.Join(summariesDir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing summary record: %w", err)
	}
	return nil
}
