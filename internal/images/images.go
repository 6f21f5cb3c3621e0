// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/archive-engine/pkg/types"
)

const (
	defaultMinWidth  = 50
	defaultMinHeight = 50
)

// BatchResult holds the outcome of a batch extraction run.
type BatchResult struct {
	Extracted int // PDFs that yielded at least one image
	Skipped   int // missing inputs and PDFs with no usable images
	Failed    int // PDFs that could not be processed

	// Records lists every image written during the run, in input order.
	Records []types.ImageRecord
}

// Total returns the total number of PDFs processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Skipped + r.Failed
}

// HasFailures reports whether any PDFs failed extraction.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ExtractBatch extracts images from each PDF in pdfPaths into the output
// tree, writes one manifest per PDF that yielded images, and finishes with
// the aggregated human-readable log. Progress goes to w. A failing PDF is
// reported and counted but never aborts the batch.
func ExtractBatch(pdfPaths []string, cfg types.ImagesConfig, w io.Writer) BatchResult {
	var result BatchResult

	for _, pdfPath := range pdfPaths {
		base := filepath.Base(pdfPath)

		if _, err := os.Stat(pdfPath); err != nil {
			fmt.Fprintf(w, "skipped: %s (file not found)\n", base)
			result.Skipped++
			continue
		}

		fmt.Fprintf(w, "processing: %s\n", base)

		manifest, err := ExtractPDF(pdfPath, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}

		if len(manifest.Images) == 0 {
			fmt.Fprintf(w, "  no images\n")
			result.Skipped++
			continue
		}

		if err := writeManifest(cfg.OutputDir, manifest); err != nil {
			fmt.Fprintf(w, "failed:  %s (writing manifest: %v)\n", base, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "  extracted %d image(s)\n", len(manifest.Images))
		result.Extracted++
		result.Records = append(result.Records, manifest.Images...)
	}

	if len(result.Records) > 0 {
		logPath := filepath.Join(cfg.OutputDir, logFile)
		if err := WriteLog(logPath, result.Records); err != nil {
			fmt.Fprintf(w, "warning: could not write extraction log: %v\n", err)
		} else {
			fmt.Fprintf(w, "log written: %s\n", logPath)
		}
	}

	return result
}

// ExtractPDF extracts the embedded images of a single PDF into the per-year
// output tree and returns the manifest of written images. Images below the
// configured minimum dimensions are skipped; images whose dimensions cannot
// be decoded are kept and recorded as 0x0. Per-image extraction problems
// are warnings on w, not errors.
func ExtractPDF(pdfPath string, cfg types.ImagesConfig, w io.Writer) (*types.Manifest, error) {
	minW, minH := cfg.MinWidth, cfg.MinHeight
	if minW <= 0 {
		minW = defaultMinWidth
	}
	if minH <= 0 {
		minH = defaultMinHeight
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	year := Year(stem)
	pages := PageRange(stem)

	raw, err := readEmbeddedImages(pdfPath)
	if err != nil {
		return nil, err
	}

	manifest := &types.Manifest{
		SourcePDF: stem,
		Year:      year,
		Pages:     pages,
	}
	if len(raw) == 0 {
		return manifest, nil
	}

	yearDir := filepath.Join(cfg.OutputDir, year)
	if err := os.MkdirAll(yearDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", yearDir, err)
	}

	kept := 0
	for _, img := range raw {
		data, err := io.ReadAll(img)
		if err != nil {
			fmt.Fprintf(w, "  warning: reading image object %d: %v\n", img.ObjNr, err)
			continue
		}

		width, height := decodeDims(data)
		if !keepImage(width, height, minW, minH) {
			continue // icons and decorations
		}

		kept++
		filename := imageFilename(year, pages, kept, img.FileType)
		imgPath := filepath.Join(yearDir, filename)

		if err := os.WriteFile(imgPath, data, 0o644); err != nil {
			fmt.Fprintf(w, "  warning: writing %s: %v\n", filename, err)
			kept--
			continue
		}

		manifest.Images = append(manifest.Images, types.ImageRecord{
			Filename:  filename,
			SourcePDF: stem,
			Year:      year,
			Pages:     pages,
			Width:     width,
			Height:    height,
			SizeBytes: int64(len(data)),
			Path:      imgPath,
		})
	}

	return manifest, nil
}

// readEmbeddedImages pulls every embedded image resource out of the PDF,
// ordered by page then object number.
func readEmbeddedImages(pdfPath string) ([]model.Image, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	pages, err := api.ExtractImagesRaw(f, nil, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("extracting images from %s: %w", pdfPath, err)
	}

	var flat []model.Image
	for _, page := range pages {
		objNrs := make([]int, 0, len(page))
		for objNr := range page {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)
		for _, objNr := range objNrs {
			flat = append(flat, page[objNr])
		}
	}

	sort.SliceStable(flat, func(i, j int) bool {
		if flat[i].PageNr != flat[j].PageNr {
			return flat[i].PageNr < flat[j].PageNr
		}
		return flat[i].ObjNr < flat[j].ObjNr
	})

	return flat, nil
}

// keepImage reports whether an image passes the minimum-dimension filter.
// Images with unknown (zero) dimensions are kept, since the filter exists
// only to drop icons that are provably small.
func keepImage(width, height, minW, minH int) bool {
	if width <= 0 || height <= 0 {
		return true
	}
	return width >= minW && height >= minH
}

// decodeDims returns the pixel dimensions of an encoded image, or (0, 0)
// when the format cannot be decoded (e.g. TIFF output from CCITT streams).
func decodeDims(data []byte) (int, int) {
	conf, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return conf.Width, conf.Height
}
