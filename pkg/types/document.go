// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the state of XHTML-to-HTML conversion for
// a document.
type ConversionStatus string

const (
	ConversionNone   ConversionStatus = "none"
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// Document holds paths and provenance for one converted document.
type Document struct {
	// ID is a slug derived from the input filename (e.g. "report-2025").
	ID string `json:"id" yaml:"id"`

	// SourceURL is set when the input was fetched from a remote URL.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// InputPath is the local filesystem path to the XHTML input.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the local filesystem path to the HTML output.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// SHA256 is the hex digest of the input bytes at conversion time.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// ConvertedAt is when the conversion completed.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`

	// ConversionStatus tracks whether the document has been converted.
	ConversionStatus ConversionStatus `json:"conversion_status" yaml:"conversion_status"`
}
