// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "archive-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a chat-completion API.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the chat-completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the length of each completion (default 1500).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxRetries is the number of retry attempts for rate-limited API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ImagesConfig holds settings for the image extraction stage.
type ImagesConfig struct {
	// SourceDir is the directory scanned for journal PDFs when no files
	// are named on the command line.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// OutputDir is the root of the extracted image tree. Images land in
	// per-year subdirectories; manifests land in OutputDir/manifest/.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MinWidth and MinHeight filter out icons and decorations. Images
	// smaller than either bound are skipped (default 50x50).
	MinWidth  int `json:"min_width" yaml:"min_width"`
	MinHeight int `json:"min_height" yaml:"min_height"`
}

// SummarizeConfig holds settings for the document summarization stage.
type SummarizeConfig struct {
	AIConfig   `yaml:",inline"`
	HTTPConfig `yaml:",inline"`

	// DocumentsDir is the directory containing the priority subfolders of
	// documents to summarize.
	DocumentsDir string `json:"documents_dir" yaml:"documents_dir"`

	// ReportPath is the aggregated Markdown report file.
	ReportPath string `json:"report_path" yaml:"report_path"`

	// SummariesDir receives one YAML record per summarized document
	// (consumed by the catalog).
	SummariesDir string `json:"summaries_dir" yaml:"summaries_dir"`

	// RequestDelay is the pause between consecutive API calls (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// MaxRunes caps the extracted text sent to the API (default 15000).
	MaxRunes int `json:"max_runes" yaml:"max_runes"`
}

// CatalogConfig holds settings for the archive catalog.
type CatalogConfig struct {
	// CatalogDir is the base directory for the catalog (contains index/).
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Images    ImagesConfig    `json:"images" yaml:"images"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize"`
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
}
