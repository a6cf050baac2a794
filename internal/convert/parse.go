// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/pdiddy/xhtml2html/pkg/types"
)

// newReadSettings returns the XML read configuration: declared-charset
// decoding, HTML entity resolution, comments kept. Permissive mode
// tolerates common markup mistakes (bare ampersands, mismatched tags).
func newReadSettings(permissive bool) etree.ReadSettings {
	return etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    permissive,
		Entity:        xml.HTMLEntity,
	}
}

// parseDocument parses raw XHTML bytes into a document tree. The XML
// parse runs first; when it fails and the backend is lenient, a
// recovering HTML parse takes over and its tree is rebuilt as XML.
func parseDocument(data []byte, backend types.Backend) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = newReadSettings(backend != types.BackendStrict)

	xmlErr := doc.ReadFromBytes(data)
	if xmlErr == nil && doc.Root() != nil {
		return doc, nil
	}
	if xmlErr == nil {
		xmlErr = fmt.Errorf("document has no root element")
	}

	if backend == types.BackendStrict {
		return nil, fmt.Errorf("parsing XML: %w", xmlErr)
	}

	// Lenient fallback: the HTML5 parser recovers from almost anything.
	r, err := charset.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %v; HTML fallback: %w", xmlErr, err)
	}
	return htmlToEtree(node), nil
}

// htmlToEtree rebuilds a parsed HTML node tree as an etree document so
// the rest of the pipeline sees a single representation. Prefixed
// names ("ix:nonfraction", "xmlns:xbrli") are split back into
// space/key pairs.
func htmlToEtree(root *html.Node) *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings = newReadSettings(true)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		appendHTMLNode(&doc.Element, c)
	}
	return doc
}

func appendHTMLNode(parent *etree.Element, n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		space, tag := splitPrefixed(n.Data)
		el := parent.CreateElement(tag)
		el.Space = space
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			el.CreateAttr(key, a.Val)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendHTMLNode(el, c)
		}
	case html.TextNode:
		parent.CreateText(n.Data)
	case html.CommentNode:
		parent.CreateComment(n.Data)
	case html.DoctypeNode:
		parent.CreateDirective(doctypeDirective(n))
	}
}

// doctypeDirective reconstructs a DOCTYPE directive string from a
// parsed doctype node, including public/system identifiers when present.
func doctypeDirective(n *html.Node) string {
	var b strings.Builder
	b.WriteString("DOCTYPE ")
	b.WriteString(n.Data)
	var public, system string
	for _, a := range n.Attr {
		switch a.Key {
		case "public":
			public = a.Val
		case "system":
			system = a.Val
		}
	}
	if public != "" {
		fmt.Fprintf(&b, " PUBLIC %q", public)
		if system != "" {
			fmt.Fprintf(&b, " %q", system)
		}
	} else if system != "" {
		fmt.Fprintf(&b, " SYSTEM %q", system)
	}
	return b.String()
}

// splitPrefixed splits "prefix:name" into its prefix and local name.
func splitPrefixed(name string) (space, local string) {
	if i := strings.Index(name, ":"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
