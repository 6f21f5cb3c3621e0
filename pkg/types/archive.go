// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the archive pipeline.
package types

import "time"

// ImageRecord describes one raster image extracted from a journal PDF.
type ImageRecord struct {
	// Filename is the generated image file name, e.g. "2023_p2-p3_img01.jpg".
	Filename string `json:"filename" yaml:"filename"`

	// SourcePDF is the base name of the PDF the image came from.
	SourcePDF string `json:"source_pdf" yaml:"source_pdf"`

	// Year is the publication year inferred from the PDF name, or "unknown".
	Year string `json:"year" yaml:"year"`

	// Pages is the page range inferred from the PDF name ("p2-p3"), or "full".
	Pages string `json:"pages" yaml:"pages"`

	// Width and Height are the decoded pixel dimensions. Zero means the
	// dimensions could not be decoded.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// SizeBytes is the size of the written image file.
	SizeBytes int64 `json:"size_bytes" yaml:"size_bytes"`

	// Path is the location of the written image file.
	Path string `json:"path" yaml:"path"`
}

// Manifest lists the images extracted from a single PDF. One manifest YAML
// file is written per processed PDF and later ingested by the catalog.
type Manifest struct {
	SourcePDF string        `json:"source_pdf" yaml:"source_pdf"`
	Year      string        `json:"year" yaml:"year"`
	Pages     string        `json:"pages" yaml:"pages"`
	Images    []ImageRecord `json:"images" yaml:"images"`
}

// DocumentSummary is the structured summary of one archival document as
// returned by the chat-completion API.
type DocumentSummary struct {
	// Name is the source document file name.
	Name string `json:"name" yaml:"name"`

	// Folder is the priority subfolder the document was found in.
	Folder string `json:"folder" yaml:"folder"`

	// Model is the chat-completion model that produced the summary.
	Model string `json:"model" yaml:"model"`

	// GeneratedAt is when the summary was produced.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Body is the structured Markdown section for the document.
	Body string `json:"body" yaml:"body"`
}
