package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "audit-miner/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call the model API.
type AIConfig struct {
	// Model is the model identifier (e.g. "qwen/qwen3-32b").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited API
	// calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	AIConfig   `yaml:",inline"`
	HTTPConfig `yaml:",inline"`

	// InputDir is the folder of inspection reports, walked recursively.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// ResultsFile is the path of the results workbook.
	ResultsFile string `json:"results_file" yaml:"results_file"`

	// MaxTextLen caps the extracted text per document (default 5000).
	MaxTextLen int `json:"max_text_len" yaml:"max_text_len"`
}

// ReconcileConfig holds settings for the reconciliation stage.
type ReconcileConfig struct {
	// InputDir is the folder of inspection reports.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// ResultsFile is the path of the results workbook produced by extraction.
	ResultsFile string `json:"results_file" yaml:"results_file"`

	// OutputDir receives the comparison workbook and the Unprocessed/
	// quarantine folder.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// CatalogConfig holds settings for the report catalog.
type CatalogConfig struct {
	// CatalogDir is the base directory for the catalog (contains index/).
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ConversionConfig holds settings for legacy .doc conversion.
type ConversionConfig struct {
	// InputDir is the folder scanned for .doc files, walked recursively.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// Image is the LibreOffice container image used for conversion.
	Image string `json:"image" yaml:"image"`
}
