// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doctext extracts plain text from archival documents, dispatching
// on file extension. Extraction never fails hard: files that cannot be used
// produce a Result with a human-readable placeholder instead of text, so
// batch callers can render the problem inline and keep going.
package doctext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxRunes caps extracted text to keep prompts inside the
// chat-completion token budget.
const DefaultMaxRunes = 15000

// truncationMarker is appended when extracted text is cut at the rune cap.
const truncationMarker = "\n...[truncated]..."

// SupportedPatterns lists the glob patterns the summarization stage scans for.
var SupportedPatterns = []string{"*.pdf", "*.docx", "*.doc", "*.txt"}

// Result is the outcome of extracting text from one document.
type Result struct {
	// Text is the extracted (possibly truncated) text. Empty when the
	// document could not be used.
	Text string

	// Placeholder describes why no text is available: an unsupported
	// format, a read error, or an empty document. Empty on success.
	Placeholder string
}

// OK reports whether usable text was extracted.
func (r Result) OK() bool {
	return r.Placeholder == ""
}

// Extract pulls plain text from the document at path. maxRunes caps the
// returned text (DefaultMaxRunes when <= 0).
func Extract(path string, maxRunes int) Result {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxRunes
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path, maxRunes)
	case ".docx":
		return extractDocx(path, maxRunes)
	case ".doc":
		return Result{Placeholder: "legacy .doc format not supported; convert to .docx"}
	case ".txt":
		return extractTxt(path, maxRunes)
	default:
		return Result{Placeholder: fmt.Sprintf("unsupported file format: %s", filepath.Ext(path))}
	}
}

func extractTxt(path string, maxRunes int) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Placeholder: fmt.Sprintf("text read error: %v", err)}
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return Result{Placeholder: "document contains no text"}
	}
	return Result{Text: truncate(text, maxRunes)}
}

// truncate cuts s at maxRunes runes, appending the truncation marker when
// anything was dropped.
func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + truncationMarker
}
