// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package images extracts embedded raster images from journal PDFs and
// organizes them into a per-year folder tree.
package images

import (
	"fmt"
	"regexp"
)

// yearPattern matches a four-digit publication year (1900-2099) anywhere in
// a PDF base name.
var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// pagePattern matches page-range tokens like "p2-p3", "P4_P5", or "p10-11".
var pagePattern = regexp.MustCompile(`[pP](\d+)[-_][pP]?(\d+)`)

// invalidFilenameChars are characters not portable across filesystems.
var invalidFilenameChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// Year returns the publication year inferred from a PDF base name, or
// "unknown" when the name carries no four-digit year.
func Year(pdfName string) string {
	if m := yearPattern.FindString(pdfName); m != "" {
		return m
	}
	return "unknown"
}

// PageRange returns the normalized page range ("p2-p3") inferred from a PDF
// base name, or "full" when the name carries no page token.
func PageRange(pdfName string) string {
	m := pagePattern.FindStringSubmatch(pdfName)
	if m == nil {
		return "full"
	}
	return fmt.Sprintf("p%s-p%s", m[1], m[2])
}

// SanitizeFilename replaces characters that are not portable in file names
// with underscores.
func SanitizeFilename(name string) string {
	return invalidFilenameChars.ReplaceAllString(name, "_")
}

// imageFilename builds the output name for the n-th kept image of a PDF,
// e.g. "2023_p2-p3_img01.jpg". Numbering is sequential across the whole
// document so images from different pages cannot collide.
func imageFilename(year, pages string, n int, ext string) string {
	return SanitizeFilename(fmt.Sprintf("%s_%s_img%02d.%s", year, pages, n, ext))
}
