// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/archive-engine/pkg/types"
)

const (
	// logFile is the human-readable listing of every extracted image.
	logFile = "extraction-log.txt"
	// manifestDir holds one YAML manifest per processed PDF.
	manifestDir = "manifest"
)

// WriteLog writes the aggregated extraction log: one block per image with
// filename, source PDF, dimensions, size, and path.
func WriteLog(path string, records []types.ImageRecord) error {
	var b strings.Builder
	b.WriteString("# Extracted images\n\n")

	for _, r := range records {
		fmt.Fprintf(&b, "filename: %s\n", r.Filename)
		fmt.Fprintf(&b, "  source: %s\n", r.SourcePDF)
		fmt.Fprintf(&b, "  size: %dx%d (%.1fKB)\n", r.Width, r.Height, float64(r.SizeBytes)/1024)
		fmt.Fprintf(&b, "  path: %s\n", r.Path)
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing extraction log: %w", err)
	}
	return nil
}

// writeManifest marshals the manifest of one PDF to
// outputDir/manifest/<source>.yaml.
func writeManifest(outputDir string, m *types.Manifest) error {
	dir := filepath.Join(outputDir, manifestDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	path := filepath.Join(dir, SanitizeFilename(m.SourcePDF)+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ListSourcePDFs returns every *.pdf in dir, sorted by name. Used when no
// PDFs are named on the command line.
func ListSourcePDFs(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("listing PDFs in %s: %w", dir, err)
	}
	return matches, nil
}
