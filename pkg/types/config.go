// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used when inputs are fetched
// from remote URLs.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "xhtml2html/0.1"). Filing hosts such as SEC EDGAR reject
	// requests without one.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Backend identifies the parsing strategy for input documents.
type Backend string

const (
	// BackendStrict parses input as XML only; malformed input is an error.
	BackendStrict Backend = "strict"

	// BackendLenient parses input as XML, falling back to a recovering
	// HTML parse when the XML parse fails.
	BackendLenient Backend = "lenient"
)

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// Backend selects the parsing strategy: strict or lenient.
	Backend Backend `json:"backend" yaml:"backend"`

	// OutDir is the output directory for batch conversions.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// DisableDefaultCSS suppresses the built-in table layout stylesheet.
	DisableDefaultCSS bool `json:"disable_default_css" yaml:"disable_default_css"`

	// KeepXBRL preserves inline-XBRL elements with their namespace
	// prefixes instead of stripping them like ordinary markup.
	KeepXBRL bool `json:"keep_xbrl" yaml:"keep_xbrl"`

	// Indent enables two-space indented output. Off by default because
	// indentation inside preformatted or inline content is not
	// whitespace-neutral.
	Indent bool `json:"indent" yaml:"indent"`
}

// FetchConfig holds settings for retrieving remote XHTML inputs.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ManifestConfig holds settings for the batch conversion manifest.
type ManifestConfig struct {
	// Dir is the directory holding the manifest database (default ".xhtml2html").
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Manifest   ManifestConfig   `json:"manifest" yaml:"manifest"`
}

// DefaultConversionConfig returns the conversion defaults: lenient
// parsing, XBRL preservation on, default CSS on.
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		Backend:  BackendLenient,
		KeepXBRL: true,
	}
}
