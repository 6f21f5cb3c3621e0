// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doctext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF pulls the plain text layer out of a PDF. Scanned PDFs carry no
// text layer and yield the scanned-PDF placeholder.
func extractPDF(path string, maxRunes int) Result {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Result{Placeholder: fmt.Sprintf("PDF read error: %v", err)}
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return Result{Placeholder: fmt.Sprintf("PDF read error: %v", err)}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return Result{Placeholder: fmt.Sprintf("PDF read error: %v", err)}
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return Result{Placeholder: "no extractable text (possibly a scanned PDF)"}
	}
	return Result{Text: truncate(text, maxRunes)}
}
