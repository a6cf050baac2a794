// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// xbrlNamespaces maps the inline-XBRL family prefixes to their
// canonical namespace URIs. Elements under these prefixes keep their
// prefixed names so tagged facts stay machine-readable after
// conversion; everything else is stripped to plain HTML.
var xbrlNamespaces = map[string]string{
	"ix":        "http://www.xbrl.org/2013/inlineXBRL",
	"xbrli":     "http://www.xbrl.org/2003/instance",
	"link":      "http://www.xbrl.org/2003/linkbase",
	"xlink":     "http://www.w3.org/1999/xlink",
	"ifrs-full": "https://xbrl.ifrs.org/taxonomy/2022-03-24/ifrs-full",
	"iso4217":   "http://www.xbrl.org/2003/iso4217",
	"xbrldi":    "http://xbrl.org/2006/xbrldi",
}

// transformer carries per-conversion state for the tree rewrite.
type transformer struct {
	opts Options

	// nsDecl holds XBRL namespace declarations found in the input,
	// keyed by prefix.
	nsDecl map[string]string

	// used records which XBRL prefixes actually appear on elements, so
	// only needed declarations are re-emitted on the root.
	used map[string]bool
}

// buildHTML rewrites the parsed document as an HTML node tree: the
// root becomes <html>, namespace prefixes are stripped (XBRL-family
// elements excepted), xml:lang becomes lang, and the collected styles
// are injected into <head>.
func buildHTML(doc *etree.Document, styles []string, opts Options) (*html.Node, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}

	t := &transformer{
		opts:   opts,
		nsDecl: collectXBRLDecls(root),
		used:   make(map[string]bool),
	}

	out := &html.Node{Type: html.DocumentNode}
	out.AppendChild(doctypeNode(doc))
	out.AppendChild(&html.Node{Type: html.TextNode, Data: "\n"})

	htmlEl := newElement("html")
	t.copyAttrs(root, htmlEl)
	out.AppendChild(htmlEl)

	for _, tok := range root.Child {
		t.appendToken(htmlEl, tok)
	}

	injectHead(htmlEl, styles, opts)

	// Re-declare the XBRL namespaces that survived, in stable order.
	prefixes := make([]string, 0, len(t.used))
	for p := range t.used {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		uri := t.nsDecl[p]
		if uri == "" {
			uri = xbrlNamespaces[p]
		}
		setNodeAttr(htmlEl, "xmlns:"+p, uri)
	}

	if opts.Indent {
		indentNode(htmlEl, 0)
	}
	return out, nil
}

// appendToken converts one parsed token into an HTML node under parent.
// Processing instructions and nested directives are dropped; text and
// comments pass through.
func (t *transformer) appendToken(parent *html.Node, tok etree.Token) {
	switch tk := tok.(type) {
	case *etree.Element:
		name := tk.Tag
		if t.opts.KeepXBRL && xbrlNamespaces[tk.Space] != "" {
			name = tk.Space + ":" + tk.Tag
			t.used[tk.Space] = true
		}
		node := newElement(name)
		t.copyAttrs(tk, node)
		parent.AppendChild(node)
		for _, c := range tk.Child {
			t.appendToken(node, c)
		}
	case *etree.CharData:
		parent.AppendChild(&html.Node{Type: html.TextNode, Data: tk.Data})
	case *etree.Comment:
		parent.AppendChild(&html.Node{Type: html.CommentNode, Data: tk.Data})
	}
}

// copyAttrs copies attributes by local name: xmlns declarations are
// dropped (surviving XBRL prefixes are re-declared on the root),
// xml:lang maps to lang, everything else keeps its value verbatim.
func (t *transformer) copyAttrs(el *etree.Element, node *html.Node) {
	for _, a := range el.Attr {
		switch {
		case a.Space == "xmlns", a.Space == "" && a.Key == "xmlns":
			// Declarations handled at the root.
		case a.Space == "xml" && a.Key == "lang":
			setNodeAttr(node, "lang", a.Value)
		default:
			setNodeAttr(node, a.Key, a.Value)
		}
	}
}

// collectXBRLDecls walks the input tree and records xmlns declarations
// for XBRL-family prefixes wherever they appear.
func collectXBRLDecls(root *etree.Element) map[string]string {
	decls := make(map[string]string)
	walk(root, func(el *etree.Element) {
		for _, a := range el.Attr {
			if a.Space == "xmlns" && xbrlNamespaces[a.Key] != "" {
				decls[a.Key] = a.Value
			}
		}
	})
	return decls
}

// doctypeNode returns the input document's DOCTYPE when one was
// declared, and the HTML5 doctype otherwise.
func doctypeNode(doc *etree.Document) *html.Node {
	for _, tok := range doc.Child {
		d, ok := tok.(*etree.Directive)
		if !ok {
			continue
		}
		if node := parseDoctype(d.Data); node != nil {
			return node
		}
	}
	return &html.Node{Type: html.DoctypeNode, Data: "html"}
}

// parseDoctype parses a DOCTYPE directive body ("DOCTYPE html PUBLIC
// ...") into a doctype node. Returns nil for non-DOCTYPE directives.
func parseDoctype(data string) *html.Node {
	fields := quotedFields(data)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "DOCTYPE") {
		return nil
	}

	node := &html.Node{Type: html.DoctypeNode, Data: fields[1]}
	rest := fields[2:]
	switch {
	case len(rest) >= 2 && strings.EqualFold(rest[0], "PUBLIC"):
		node.Attr = append(node.Attr, html.Attribute{Key: "public", Val: rest[1]})
		if len(rest) >= 3 {
			node.Attr = append(node.Attr, html.Attribute{Key: "system", Val: rest[2]})
		}
	case len(rest) >= 2 && strings.EqualFold(rest[0], "SYSTEM"):
		node.Attr = append(node.Attr, html.Attribute{Key: "system", Val: rest[1]})
	}
	return node
}

// quotedFields splits a directive into whitespace-separated fields,
// treating single- or double-quoted runs as single fields without
// their quotes.
func quotedFields(s string) []string {
	var fields []string
	var cur strings.Builder
	var quote rune
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				fields = append(fields, cur.String())
				cur.Reset()
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			flush()
			quote = r
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return fields
}

// injectHead ensures the output has a <head> carrying a UTF-8 charset
// declaration and a combined <style> block: the built-in table CSS
// (unless disabled) followed by every style collected from the input.
func injectHead(htmlEl *html.Node, styles []string, opts Options) {
	head := findChildElement(htmlEl, "head")
	if head == nil {
		head = newElement("head")
		htmlEl.InsertBefore(head, htmlEl.FirstChild)
	}

	ensureCharsetMeta(head)

	var combined []string
	if !opts.DisableDefaultCSS {
		combined = append(combined, TableCSS)
	}
	combined = append(combined, styles...)
	if len(combined) == 0 {
		return
	}

	style := newElement("style")
	style.AppendChild(&html.Node{Type: html.TextNode, Data: strings.Join(combined, "\n")})
	head.AppendChild(style)
}

// ensureCharsetMeta normalizes the head's charset declaration to UTF-8,
// since the output is always serialized as UTF-8. An existing
// <meta charset> or Content-Type meta is rewritten in place.
func ensureCharsetMeta(head *html.Node) {
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "meta" {
			continue
		}
		if getNodeAttr(c, "charset") != "" {
			setNodeAttr(c, "charset", "UTF-8")
			return
		}
		if strings.EqualFold(getNodeAttr(c, "http-equiv"), "content-type") {
			setNodeAttr(c, "content", "text/html; charset=UTF-8")
			return
		}
	}

	meta := newElement("meta")
	setNodeAttr(meta, "charset", "UTF-8")
	head.InsertBefore(meta, head.FirstChild)
}

// noIndent lists elements whose contents are whitespace-sensitive.
var noIndent = map[string]bool{
	"pre":      true,
	"textarea": true,
	"style":    true,
	"script":   true,
}

// indentNode pretty-prints the tree by inserting newline-and-indent
// text between children, but only where every child is an element or
// comment, so mixed text content is never reflowed.
func indentNode(n *html.Node, depth int) {
	if n.Type == html.ElementNode && noIndent[n.Data] {
		return
	}

	if n.Type == html.ElementNode && n.FirstChild != nil {
		structural := true
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode && c.Type != html.CommentNode {
				structural = false
				break
			}
		}
		if structural {
			var children []*html.Node
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				children = append(children, c)
			}
			for _, c := range children {
				n.RemoveChild(c)
			}
			pad := "\n" + strings.Repeat("  ", depth+1)
			for _, c := range children {
				n.AppendChild(&html.Node{Type: html.TextNode, Data: pad})
				n.AppendChild(c)
			}
			n.AppendChild(&html.Node{Type: html.TextNode, Data: "\n" + strings.Repeat("  ", depth)})
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			indentNode(c, depth+1)
		}
	}
}

func newElement(name string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
	}
}

func findChildElement(n *html.Node, name string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

func getNodeAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setNodeAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
