// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/archive-engine/internal/catalog"
	"github.com/pdiddy/archive-engine/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the archive catalog (store, retrieve)",
	Long: `Catalog maintains a local SQLite index over the extraction manifests and
document summary records produced by the images and summarize stages. Use
subcommands to ingest records or query them.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest image manifests and summary records into the catalog",
	Long: `Store reads the YAML manifests under the image output tree and the
per-document summary records, and ingests both into a SQLite database with
an FTS5 index over summary bodies. Unchanged files are skipped on
subsequent runs.`,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	outputDir := setting(cmd, "images-dir", "images.output_dir", "archive/images")
	summariesDir := setting(cmd, "summaries-dir", "summarize.summaries_dir", "archive/summaries")

	summary, err := store.Ingest(context.Background(),
		filepath.Join(outputDir, "manifest"), summariesDir, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed ingestion", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var catalogRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the archive catalog",
	Long: `Retrieve searches indexed document summaries with FTS5 full-text search
and a folder filter, or lists indexed images with --images (optionally
filtered by --year or --source).`,
	RunE: runCatalogRetrieve,
}

func runCatalogRetrieve(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	maxResults, _ := cmd.Flags().GetInt("limit")
	listImages, _ := cmd.Flags().GetBool("images")

	if listImages {
		year, _ := cmd.Flags().GetString("year")
		source, _ := cmd.Flags().GetString("source")
		results, err := store.RetrieveImages(context.Background(), year, source, maxResults)
		if err != nil {
			return err
		}
		return formatImageResults(results, jsonOutput)
	}

	opts := catalog.QueryOptions{MaxResults: maxResults}
	if len(args) > 0 {
		opts.Query = strings.Join(args, " ")
	}
	opts.Folder, _ = cmd.Flags().GetString("folder")

	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --folder, or --images")
	}

	results, err := store.RetrieveDocuments(context.Background(), opts)
	if err != nil {
		return err
	}
	return formatDocumentResults(results, jsonOutput)
}

func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	return catalog.NewStore(types.CatalogConfig{
		CatalogDir: setting(cmd, "catalog-dir", "catalog.catalog_dir", "archive/catalog"),
	})
}

func formatDocumentResults(results []catalog.DocumentResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-30s  %-24s  %s\n", "Rank", "Document", "Folder", "Summary")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-30s  %-24s  %s\n",
			i+1, clip(r.Name, 30), clip(r.Folder, 24), clip(firstLine(r.Body), 60))
	}
	return nil
}

func formatImageResults(results []types.ImageRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-28s  %-8s  %-10s  %-12s  %s\n", "Image", "Year", "Pages", "Dimensions", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-28s  %-8s  %-10s  %4dx%-7d  %s\n",
			clip(r.Filename, 28), r.Year, r.Pages, r.Width, r.Height, r.SourcePDF)
	}
	return nil
}

// firstLine returns the first non-heading, non-empty line of a summary body.
func firstLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "**") {
			continue
		}
		return line
	}
	return ""
}

// clip shortens s to at most n runes for table output. Document names can
// carry non-ASCII, so the cut must not split a multibyte rune.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	for _, c := range []*cobra.Command{catalogStoreCmd, catalogRetrieveCmd} {
		c.Flags().String("catalog-dir", "archive/catalog", "base directory for the catalog database")
	}
	catalogStoreCmd.Flags().String("images-dir", "archive/images", "image output tree holding manifest/")
	catalogStoreCmd.Flags().String("summaries-dir", "archive/summaries", "directory of summary records")

	catalogRetrieveCmd.Flags().String("folder", "", "filter documents by priority folder")
	catalogRetrieveCmd.Flags().Bool("images", false, "list indexed images instead of documents")
	catalogRetrieveCmd.Flags().String("year", "", "filter images by year")
	catalogRetrieveCmd.Flags().String("source", "", "filter images by source PDF")
	catalogRetrieveCmd.Flags().Int("limit", 0, "maximum number of results (default 20)")
	catalogRetrieveCmd.Flags().Bool("json", false, "emit results as JSON")

	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogRetrieveCmd)
	rootCmd.AddCommand(catalogCmd)
}
