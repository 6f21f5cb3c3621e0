// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/archive-engine/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string, string) {
	t.Helper()
	tmpDir := t.TempDir()
	manifestDir := filepath.Join(tmpDir, "manifest")
	summariesDir := filepath.Join(tmpDir, "summaries")
	for _, dir := range []string{manifestDir, summariesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	store, err := NewStore(types.CatalogConfig{
		CatalogDir: filepath.Join(tmpDir, "catalog"),
		MaxResults: 20,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, manifestDir, summariesDir
}

func writeManifestFile(t *testing.T, dir string, m types.Manifest) {
	t.Helper()
	data, err := yaml.Marshal(&m)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, m.SourcePDF+".yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeSummaryFile(t *testing.T, dir string, s types.DocumentSummary) {
	t.Helper()
	data, err := yaml.Marshal(&s)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, s.Name+".yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func testManifest() types.Manifest {
	return types.Manifest{
		SourcePDF: "2023_p2-p3_journal",
		Year:      "2023",
		Pages:     "p2-p3",
		Images: []types.ImageRecord{
			{
				Filename: "2023_p2-p3_img01.jpg", SourcePDF: "2023_p2-p3_journal",
				Year: "2023", Pages: "p2-p3", Width: 640, Height: 480,
				SizeBytes: 2048, Path: "/out/2023/2023_p2-p3_img01.jpg",
			},
			{
				Filename: "2023_p2-p3_img02.png", SourcePDF: "2023_p2-p3_journal",
				Year: "2023", Pages: "p2-p3", Width: 300, Height: 200,
				SizeBytes: 1024, Path: "/out/2023/2023_p2-p3_img02.png",
			},
		},
	}
}

func testSummary(name, folder, body string) types.DocumentSummary {
	return types.DocumentSummary{
		Name:        name,
		Folder:      folder,
		Model:       "gpt-4o-mini",
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Body:        body,
	}
}

// --- tests ---

func TestIngestAndRetrieveImages(t *testing.T) {
	store, manifestDir, summariesDir := testSetup(t)
	writeManifestFile(t, manifestDir, testManifest())

	summary, err := store.Ingest(context.Background(), manifestDir, summariesDir, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Indexed != 1 {
		t.Errorf("indexed = %d, want 1", summary.Indexed)
	}

	images, err := store.RetrieveImages(context.Background(), "2023", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}
	if images[0].Filename != "2023_p2-p3_img01.jpg" {
		t.Errorf("first image = %s", images[0].Filename)
	}

	// Year filter excludes everything else.
	none, err := store.RetrieveImages(context.Background(), "1999", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("expected no 1999 images, got %d", len(none))
	}
}

func TestIngestSkipsUnchangedFiles(t *testing.T) {
	store, manifestDir, summariesDir := testSetup(t)
	writeManifestFile(t, manifestDir, testManifest())

	ctx := context.Background()
	if _, err := store.Ingest(ctx, manifestDir, summariesDir, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	second, err := store.Ingest(ctx, manifestDir, summariesDir, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if second.Skipped != 1 || second.Indexed != 0 {
		t.Errorf("second ingest = %+v, want 1 skipped", second)
	}
}

func TestIngestUpdatesChangedFiles(t *testing.T) {
	store, manifestDir, summariesDir := testSetup(t)
	m := testManifest()
	writeManifestFile(t, manifestDir, m)

	ctx := context.Background()
	if _, err := store.Ingest(ctx, manifestDir, summariesDir, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	// Rewrite the manifest with one image and a future mod time.
	m.Images = m.Images[:1]
	writeManifestFile(t, manifestDir, m)
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(filepath.Join(manifestDir, m.SourcePDF+".yaml"), future, future); err != nil {
		t.Fatal(err)
	}

	second, err := store.Ingest(ctx, manifestDir, summariesDir, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if second.Updated != 1 {
		t.Errorf("second ingest = %+v, want 1 updated", second)
	}

	images, err := store.RetrieveImages(ctx, "", "2023_p2-p3_journal", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 1 {
		t.Errorf("got %d images after update, want 1 (old rows must be replaced)", len(images))
	}
}

func TestRetrieveDocumentsFullText(t *testing.T) {
	store, manifestDir, summariesDir := testSetup(t)
	writeSummaryFile(t, summariesDir, testSummary("lecture.pdf", "1_conference_papers",
		"## lecture.pdf\n\nA study of vibroacoustic therapy outcomes."))
	writeSummaryFile(t, summariesDir, testSummary("interview.txt", "7_media_coverage",
		"## interview.txt\n\nA magazine interview about nature sounds."))

	ctx := context.Background()
	if _, err := store.Ingest(ctx, manifestDir, summariesDir, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	results, err := store.RetrieveDocuments(ctx, QueryOptions{Query: "vibroacoustic"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "lecture.pdf" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if results[0].Model != "gpt-4o-mini" {
		t.Errorf("model = %q", results[0].Model)
	}
}

func TestRetrieveDocumentsFolderFilter(t *testing.T) {
	store, manifestDir, summariesDir := testSetup(t)
	writeSummaryFile(t, summariesDir, testSummary("a.txt", "10_misc", "## a.txt\n\nBody A."))
	writeSummaryFile(t, summariesDir, testSummary("b.txt", "7_media_coverage", "## b.txt\n\nBody B."))

	ctx := context.Background()
	if _, err := store.Ingest(ctx, manifestDir, summariesDir, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	results, err := store.RetrieveDocuments(ctx, QueryOptions{Folder: "10_misc"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "a.txt" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestIngestBadYAMLIsIsolated(t *testing.T) {
	store, manifestDir, summariesDir := testSetup(t)
	if err := os.WriteFile(filepath.Join(manifestDir, "broken.yaml"), []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeManifestFile(t, manifestDir, testManifest())

	summary, err := store.Ingest(context.Background(), manifestDir, summariesDir, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Failed != 1 || summary.Indexed != 1 {
		t.Errorf("summary = %+v, want 1 failed and 1 indexed", summary)
	}
}

func TestIngestMissingDirsIsNoop(t *testing.T) {
	store, _, _ := testSetup(t)

	summary, err := store.Ingest(context.Background(),
		"/nonexistent/manifest", "/nonexistent/summaries", &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total() != 0 {
		t.Errorf("summary = %+v, want zero totals", summary)
	}
}
