// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/xhtml2html/pkg/types"
)

const basicXHTML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en">
<head><title>Report</title></head>
<body><p>Hello</p></body>
</html>`

func defaultOptions() Options {
	return OptionsFromConfig(types.DefaultConversionConfig())
}

// query parses converter output with an HTML parser, which doubles as a
// well-formedness check on everything we emit.
func query(t *testing.T, out []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not parseable HTML: %v", err)
	}
	return doc
}

func TestConvertDocument_NamespaceStripping(t *testing.T) {
	out, err := ConvertDocument([]byte(basicXHTML), defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)

	if strings.Contains(html, "xmlns=") {
		t.Errorf("default namespace declaration survived: %s", html)
	}
	if strings.Contains(html, "xml:lang") {
		t.Errorf("xml:lang not rewritten: %s", html)
	}

	doc := query(t, out)
	if lang, _ := doc.Find("html").Attr("lang"); lang != "en" {
		t.Errorf("lang = %q, want %q", lang, "en")
	}
	if doc.Find("body p").Text() != "Hello" {
		t.Errorf("paragraph text lost: %s", html)
	}
}

func TestConvertDocument_DoctypePassthrough(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "public doctype preserved",
			input: basicXHTML,
			want:  `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">`,
		},
		{
			name:  "missing doctype defaults to html5",
			input: `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>x</p></body></html>`,
			want:  `<!DOCTYPE html>`,
		},
		{
			name:  "system doctype preserved",
			input: `<!DOCTYPE html SYSTEM "about:legacy-compat"><html xmlns="http://www.w3.org/1999/xhtml"><body/></html>`,
			want:  `<!DOCTYPE html SYSTEM "about:legacy-compat">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ConvertDocument([]byte(tt.input), defaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(out), tt.want) {
				t.Errorf("output starts with %q, want prefix %q", firstLine(out), tt.want)
			}
		})
	}
}

func TestConvertDocument_XBRLPreservation(t *testing.T) {
	input := `<html xmlns="http://www.w3.org/1999/xhtml"
  xmlns:ix="http://www.xbrl.org/2013/inlineXBRL"
  xmlns:iso4217="http://www.xbrl.org/2003/iso4217">
<body>
<div style="display:none">
  <ix:header><ix:references/></ix:header>
</div>
<p><ix:nonFraction name="ifrs-full:Revenue" contextRef="c1" unitRef="EUR">100</ix:nonFraction></p>
</body>
</html>`

	out, err := ConvertDocument([]byte(input), defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)

	for _, want := range []string{
		"<ix:nonFraction",
		"<ix:header>",
		`contextRef="c1"`,
		`xmlns:ix="http://www.xbrl.org/2013/inlineXBRL"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q:\n%s", want, html)
		}
	}

	// iso4217 is declared in the input but tags no elements, so its
	// declaration must not be re-emitted.
	if strings.Contains(html, "xmlns:iso4217") {
		t.Errorf("unused namespace declaration re-emitted:\n%s", html)
	}
}

func TestConvertDocument_XBRLStrippedWhenDisabled(t *testing.T) {
	input := `<html xmlns="http://www.w3.org/1999/xhtml" xmlns:ix="http://www.xbrl.org/2013/inlineXBRL">
<body><p><ix:nonFraction contextRef="c1">100</ix:nonFraction></p></body></html>`

	opts := defaultOptions()
	opts.KeepXBRL = false
	out, err := ConvertDocument([]byte(input), opts)
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)

	if strings.Contains(html, "ix:") || strings.Contains(html, "xmlns") {
		t.Errorf("XBRL markup survived with KeepXBRL off:\n%s", html)
	}
	if !strings.Contains(html, "<nonFraction") {
		t.Errorf("element not stripped to local name:\n%s", html)
	}
}

func TestConvertDocument_StyleInjection(t *testing.T) {
	input := `<html xmlns="http://www.w3.org/1999/xhtml">
<head><style>p { color: red; }</style></head>
<body><p style="font-weight:bold" id="lead">x</p></body>
</html>`

	out, err := ConvertDocument([]byte(input), defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)

	for _, want := range []string{
		"border-collapse: collapse", // built-in table CSS
		"p { color: red; }",         // stylesheet text collected
		"#lead { font-weight:bold }", // inline style under unique selector
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q:\n%s", want, html)
		}
	}
}

func TestConvertDocument_NoDefaultCSS(t *testing.T) {
	out, err := ConvertDocument([]byte(basicXHTML), Options{
		Backend:           types.BackendLenient,
		DisableDefaultCSS: true,
		KeepXBRL:          true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "border-collapse") {
		t.Errorf("built-in CSS emitted despite DisableDefaultCSS:\n%s", out)
	}
}

func TestConvertDocument_HeadCreatedWhenMissing(t *testing.T) {
	input := `<html xmlns="http://www.w3.org/1999/xhtml"><body><p>x</p></body></html>`

	out, err := ConvertDocument([]byte(input), defaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	doc := query(t, out)
	if doc.Find("head meta[charset]").Length() != 1 {
		t.Errorf("head missing charset meta:\n%s", out)
	}
	if doc.Find("head style").Length() != 1 {
		t.Errorf("head missing injected style:\n%s", out)
	}
}

func TestConvertDocument_CharsetMetaNormalized(t *testing.T) {
	tests := []struct {
		name  string
		head  string
		want  string
		avoid string
	}{
		{
			name: "charset meta rewritten",
			head: `<meta charset="iso-8859-1"/>`,
			want: `charset="UTF-8"`,
		},
		{
			name:  "content-type meta rewritten",
			head:  `<meta http-equiv="Content-Type" content="text/html; charset=iso-8859-1"/>`,
			want:  "text/html; charset=UTF-8",
			avoid: "iso-8859-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `<html xmlns="http://www.w3.org/1999/xhtml"><head>` + tt.head + `</head><body/></html>`
			out, err := ConvertDocument([]byte(input), defaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(out), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
			if tt.avoid != "" && strings.Contains(string(out), tt.avoid) {
				t.Errorf("stale charset %q survived:\n%s", tt.avoid, out)
			}
		})
	}
}

func TestConvertDocument_CommentsPreserved(t *testing.T) {
	input := `<html xmlns="http://www.w3.org/1999/xhtml"><body><!-- generated 2025 --><p>x</p></body></html>`

	out, err := ConvertDocument([]byte(input), defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "<!-- generated 2025 -->") {
		t.Errorf("comment dropped:\n%s", out)
	}
}

func TestConvertDocument_Idempotent(t *testing.T) {
	first, err := ConvertDocument([]byte(basicXHTML), defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	second, err := ConvertDocument([]byte(basicXHTML), defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("conversion output differs between runs on identical input")
	}
}

func TestConvertDocument_Indent(t *testing.T) {
	input := `<html xmlns="http://www.w3.org/1999/xhtml"><head><title>T</title></head><body><pre>a  b</pre></body></html>`

	opts := defaultOptions()
	opts.Indent = true
	out, err := ConvertDocument([]byte(input), opts)
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)

	if !strings.Contains(html, "\n  <body>") {
		t.Errorf("body not indented:\n%s", html)
	}
	if !strings.Contains(html, "<pre>a  b</pre>") {
		t.Errorf("preformatted text reflowed:\n%s", html)
	}
}

func TestParseDoctype(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantName   string
		wantPublic string
		wantSystem string
		wantNil    bool
	}{
		{
			name:     "bare html",
			data:     "DOCTYPE html",
			wantName: "html",
		},
		{
			name:       "public and system",
			data:       `DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1.dtd"`,
			wantName:   "html",
			wantPublic: "-//W3C//DTD XHTML 1.0//EN",
			wantSystem: "http://www.w3.org/TR/xhtml1/DTD/xhtml1.dtd",
		},
		{
			name:       "system only",
			data:       `DOCTYPE html SYSTEM "about:legacy-compat"`,
			wantName:   "html",
			wantSystem: "about:legacy-compat",
		},
		{
			name:    "non-doctype directive",
			data:    `ENTITY foo "bar"`,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := parseDoctype(tt.data)
			if tt.wantNil {
				if node != nil {
					t.Fatalf("parseDoctype(%q) = %v, want nil", tt.data, node)
				}
				return
			}
			if node == nil {
				t.Fatalf("parseDoctype(%q) = nil", tt.data)
			}
			if node.Data != tt.wantName {
				t.Errorf("name = %q, want %q", node.Data, tt.wantName)
			}
			var public, system string
			for _, a := range node.Attr {
				switch a.Key {
				case "public":
					public = a.Val
				case "system":
					system = a.Val
				}
			}
			if public != tt.wantPublic {
				t.Errorf("public = %q, want %q", public, tt.wantPublic)
			}
			if system != tt.wantSystem {
				t.Errorf("system = %q, want %q", system, tt.wantSystem)
			}
		})
	}
}

func firstLine(b []byte) string {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
