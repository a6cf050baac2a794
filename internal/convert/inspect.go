// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/xhtml2html/pkg/types"
)

// Report summarizes an input document before conversion: what the
// rewrite pass would encounter and rewrite.
type Report struct {
	// Root is the full tag of the root element (e.g. "html").
	Root string `json:"root" yaml:"root"`

	// Doctype is the input DOCTYPE directive, empty when absent.
	Doctype string `json:"doctype,omitempty" yaml:"doctype,omitempty"`

	// DeclaredEncoding is the encoding named in the XML declaration or
	// a meta charset, empty when the document declares none.
	DeclaredEncoding string `json:"declared_encoding,omitempty" yaml:"declared_encoding,omitempty"`

	// Namespaces maps declared prefixes to their URIs; the default
	// namespace appears under the empty prefix.
	Namespaces map[string]string `json:"namespaces,omitempty" yaml:"namespaces,omitempty"`

	// Tables counts table elements; MergedCells counts td/th cells
	// carrying colspan or rowspan.
	Tables      int `json:"tables" yaml:"tables"`
	MergedCells int `json:"merged_cells" yaml:"merged_cells"`

	// StyleElements counts style tags; InlineStyles counts elements
	// with a style attribute.
	StyleElements int `json:"style_elements" yaml:"style_elements"`
	InlineStyles  int `json:"inline_styles" yaml:"inline_styles"`
}

var encodingRe = regexp.MustCompile(`encoding=["']([^"']+)["']`)
var charsetRe = regexp.MustCompile(`charset=([^\s;"']+)`)

// Inspect parses data and reports its structure without converting it.
func Inspect(data []byte, backend types.Backend) (Report, error) {
	doc, err := parseDocument(data, backend)
	if err != nil {
		return Report{}, err
	}

	root := doc.Root()
	report := Report{
		Root:       root.FullTag(),
		Namespaces: make(map[string]string),
	}

	for _, tok := range doc.Child {
		switch tk := tok.(type) {
		case *etree.Directive:
			if report.Doctype == "" && strings.HasPrefix(strings.TrimSpace(tk.Data), "DOCTYPE") {
				report.Doctype = "<!" + tk.Data + ">"
			}
		case *etree.ProcInst:
			if tk.Target == "xml" && report.DeclaredEncoding == "" {
				if m := encodingRe.FindStringSubmatch(tk.Inst); m != nil {
					report.DeclaredEncoding = m[1]
				}
			}
		}
	}

	walk(root, func(el *etree.Element) {
		for _, a := range el.Attr {
			switch {
			case a.Space == "xmlns":
				report.Namespaces[a.Key] = a.Value
			case a.Space == "" && a.Key == "xmlns":
				report.Namespaces[""] = a.Value
			}
		}

		switch el.Tag {
		case "table":
			report.Tables++
		case "td", "th":
			if attrValue(el, "colspan") != "" || attrValue(el, "rowspan") != "" {
				report.MergedCells++
			}
		case "style":
			report.StyleElements++
		case "meta":
			if report.DeclaredEncoding == "" {
				if cs := attrValue(el, "charset"); cs != "" {
					report.DeclaredEncoding = cs
				} else if m := charsetRe.FindStringSubmatch(attrValue(el, "content")); m != nil {
					report.DeclaredEncoding = m[1]
				}
			}
		}

		if attrValue(el, "style") != "" {
			report.InlineStyles++
		}
	})

	if len(report.Namespaces) == 0 {
		report.Namespaces = nil
	}
	return report, nil
}
