// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/archive-engine/internal/images"
	"github.com/pdiddy/archive-engine/pkg/types"
)

var imagesCmd = &cobra.Command{
	Use:   "images [pdfs...]",
	Short: "Extract embedded images from journal PDFs into a per-year tree",
	Long: `Images extracts embedded raster images from journal PDFs. Output files
are named from the year and page range inferred from each PDF's file name
and organized into per-year subdirectories. Images smaller than the minimum
dimensions (icons, decorations) are skipped.

With no arguments every *.pdf in the source directory is processed. The run
finishes with a plain-text extraction log and one YAML manifest per PDF.`,
	RunE: runImages,
}

func init() {
	imagesCmd.Flags().String("source-dir", "archive/journals", "directory scanned for PDFs when none are named")
	imagesCmd.Flags().String("output-dir", "archive/images", "root of the extracted image tree")
	imagesCmd.Flags().Int("min-width", 50, "minimum image width in pixels")
	imagesCmd.Flags().Int("min-height", 50, "minimum image height in pixels")

	rootCmd.AddCommand(imagesCmd)
}

func runImages(cmd *cobra.Command, args []string) error {
	sourceDir := setting(cmd, "source-dir", "images.source_dir", "archive/journals")
	minWidth, _ := cmd.Flags().GetInt("min-width")
	minHeight, _ := cmd.Flags().GetInt("min-height")

	cfg := types.ImagesConfig{
		SourceDir: sourceDir,
		OutputDir: setting(cmd, "output-dir", "images.output_dir", "archive/images"),
		MinWidth:  minWidth,
		MinHeight: minHeight,
	}

	var pdfPaths []string
	if len(args) > 0 {
		for _, arg := range args {
			// Bare file names refer to the source directory.
			if filepath.Dir(arg) == "." {
				pdfPaths = append(pdfPaths, filepath.Join(sourceDir, arg))
			} else {
				pdfPaths = append(pdfPaths, arg)
			}
		}
	} else {
		var err error
		pdfPaths, err = images.ListSourcePDFs(sourceDir)
		if err != nil {
			return err
		}
	}

	if len(pdfPaths) == 0 {
		fmt.Fprintf(os.Stderr, "no PDFs found in %s\n", sourceDir)
		return nil
	}

	fmt.Printf("extracting images from %d PDF(s) into %s\n\n", len(pdfPaths), cfg.OutputDir)

	result := images.ExtractBatch(pdfPaths, cfg, os.Stdout)

	fmt.Printf("\ndone: %d image(s) from %d PDF(s), %d skipped, %d failed\n",
		len(result.Records), result.Extracted, result.Skipped, result.Failed)

	if result.HasFailures() {
		return fmt.Errorf("%d PDF(s) failed extraction", result.Failed)
	}
	return nil
}
