// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements XHTML-to-HTML conversion with layout
// preservation. The pipeline parses the input into an XML document
// tree, extracts stylesheet and inline styles, tags tables for layout
// preservation, strips namespace prefixes (keeping the inline-XBRL
// family), and serializes the result as HTML.
// See docs/ARCHITECTURE § Conversion.
package convert

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pdiddy/xhtml2html/internal/manifest"
	"github.com/pdiddy/xhtml2html/pkg/types"
)

// Options controls a single document conversion.
type Options struct {
	// Backend selects strict (XML only) or lenient (XML with HTML
	// fallback) parsing.
	Backend types.Backend

	// DisableDefaultCSS suppresses the built-in table layout stylesheet.
	DisableDefaultCSS bool

	// KeepXBRL preserves inline-XBRL elements with their namespace
	// prefixes instead of stripping them like ordinary markup.
	KeepXBRL bool

	// Indent enables two-space indented output between block elements.
	Indent bool
}

// OptionsFromConfig maps a ConversionConfig onto per-document Options.
func OptionsFromConfig(cfg types.ConversionConfig) Options {
	backend := cfg.Backend
	if backend == "" {
		backend = types.BackendLenient
	}
	return Options{
		Backend:           backend,
		DisableDefaultCSS: cfg.DisableDefaultCSS,
		KeepXBRL:          cfg.KeepXBRL,
		Indent:            cfg.Indent,
	}
}

// ConvertDocument runs the full conversion pipeline on raw XHTML bytes
// and returns the HTML output.
func ConvertDocument(data []byte, opts Options) ([]byte, error) {
	doc, err := parseDocument(data, opts.Backend)
	if err != nil {
		return nil, err
	}

	// Styles are collected before table enhancement so the injected
	// layout classes never leak into generated selectors.
	styles := ExtractStyles(doc)
	EnhanceTables(doc)

	node, err := buildHTML(doc, styles, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ConvertFile converts the XHTML file at inputPath and writes the HTML
// result to outputPath. The output is written to a temp file in the
// destination directory and renamed into place on success. Progress is
// reported on w.
func ConvertFile(inputPath, outputPath string, opts Options, w io.Writer) error {
	fmt.Fprintf(w, "converting: %s\n", inputPath)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	out, err := ConvertDocument(data, opts)
	if err != nil {
		return fmt.Errorf("converting %s: %w", inputPath, err)
	}

	if err := writeFileAtomic(outputPath, out); err != nil {
		return err
	}

	fmt.Fprintf(w, "converted: %s\n", outputPath)
	return nil
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of inputs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any inputs failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts each input file into cfg.OutDir, printing
// per-file status to w and returning a summary. When store is non-nil,
// inputs whose content hash matches the manifest record and whose
// output still exists are skipped.
func ConvertBatch(inputs []string, cfg types.ConversionConfig, store *manifest.Store, w io.Writer) BatchResult {
	var result BatchResult
	opts := OptionsFromConfig(cfg)

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "."
	}

	for _, input := range inputs {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		outPath := filepath.Join(outDir, base+".html")

		data, err := os.ReadFile(input)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}
		sum := hashBytes(data)

		if store != nil {
			rec, err := store.Lookup(input)
			if err == nil && rec != nil && rec.SHA256 == sum {
				if _, err := os.Stat(rec.OutputPath); err == nil {
					fmt.Fprintf(w, "skipped: %s (unchanged)\n", base)
					result.Skipped++
					continue
				}
			}
		}

		out, err := ConvertDocument(data, opts)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}
		if err := writeFileAtomic(outPath, out); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			result.Failed++
			continue
		}

		if store != nil {
			doc := types.Document{
				ID:               base,
				InputPath:        input,
				OutputPath:       outPath,
				SHA256:           sum,
				ConvertedAt:      time.Now().UTC(),
				ConversionStatus: types.ConversionDone,
			}
			if err := store.Record(doc); err != nil {
				fmt.Fprintf(w, "  warning: manifest update failed for %s: %v\n", base, err)
			}
		}

		fmt.Fprintf(w, "converted: %s\n", outPath)
		result.Converted++
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// writeFileAtomic writes data to a temp file next to path and renames
// it into place, so a failed conversion never leaves a truncated output.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".xhtml2html-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
