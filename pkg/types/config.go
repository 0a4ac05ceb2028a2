// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by collaborators that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-tools/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ConversionBackend identifies the PDF-to-Markdown tool.
type ConversionBackend string

const (
	BackendMistral    ConversionBackend = "mistral"
	BackendMarkitdown ConversionBackend = "markitdown"
)

// OCRConfig holds settings for the cloud OCR collaborator.
type OCRConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the OCR service (env key mistral_api_key).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the OCR model identifier (default "mistral-ocr-latest").
	Model string `json:"model" yaml:"model"`

	// BaseURL overrides the OCR service endpoint. Empty means the public API.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries bounds retries on HTTP 429. Zero disables retrying.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ConversionConfig holds settings for a single convert invocation.
type ConversionConfig struct {
	// Backend selects the conversion tool: mistral or markitdown.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// InputPath is the source PDF.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the Markdown file to write. Images go to a sibling images/ directory.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Pages is the page selection expression ("1-5" or "1,3,5"). Empty selects all pages.
	Pages string `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Frontmatter prepends a YAML header describing the conversion.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter"`
}

// LibraryType distinguishes personal and group Zotero libraries.
type LibraryType string

const (
	LibraryUser  LibraryType = "user"
	LibraryGroup LibraryType = "group"
)

// ZoteroConfig holds credentials and library identity for the Zotero Web API.
type ZoteroConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the Zotero API key (env key ZOTERO_API_KEY).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// LibraryID is the numeric user or group ID (env key ZOTERO_LIBRARY_ID).
	LibraryID string `json:"library_id" yaml:"library_id"`

	// LibraryType is "user" (default) or "group" (env key ZOTERO_LIBRARY_TYPE).
	LibraryType LibraryType `json:"library_type" yaml:"library_type"`

	// BaseURL overrides the Zotero API endpoint. Empty means the public API.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// ResolverConfig holds the filesystem conventions used by attachment resolution.
type ResolverConfig struct {
	// StorageDir is the local Zotero storage root (default ~/Zotero/storage).
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// DownloadDir receives remote downloads (default the system temp dir).
	DownloadDir string `json:"download_dir" yaml:"download_dir"`

	// MinSize is the smallest accepted download in bytes (default 1024).
	MinSize int64 `json:"min_size" yaml:"min_size"`
}
