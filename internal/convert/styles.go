// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// TableCSS is the built-in stylesheet keeping table layout intact when
// the document is rendered as HTML.
const TableCSS = `table {
    border-collapse: collapse;
    width: 100%;
    margin-bottom: 1em;
    page-break-inside: avoid;
}
td, th {
    border: 1px solid #ddd;
    padding: 8px;
    text-align: left;
}
th {
    background-color: #f8f9fa;
}`

// ExtractStyles collects all CSS from the document: the text of every
// <style> element, followed by each inline style attribute rewritten as
// a rule under a selector unique to its element.
func ExtractStyles(doc *etree.Document) []string {
	root := doc.Root()
	if root == nil {
		return nil
	}

	var styles []string
	for _, style := range findElements(root, "style") {
		if text := elementText(style); strings.TrimSpace(text) != "" {
			styles = append(styles, strings.TrimSpace(text))
		}
	}

	walk(root, func(el *etree.Element) {
		if style := attrValue(el, "style"); style != "" {
			styles = append(styles, fmt.Sprintf("%s { %s }", uniqueSelector(el), style))
		}
	})

	return styles
}

// uniqueSelector derives a CSS selector for an element: its id when it
// has one, its tag qualified by its classes otherwise, and failing
// both, a child-combinator path from the root using :nth-child for
// elements with same-tag siblings.
func uniqueSelector(el *etree.Element) string {
	if id := attrValue(el, "id"); id != "" {
		return "#" + id
	}

	if class := attrValue(el, "class"); class != "" {
		return el.Tag + "." + strings.Join(strings.Fields(class), ".")
	}

	var path []string
	for cur := el; cur != nil; cur = cur.Parent() {
		part := cur.Tag
		if parent := cur.Parent(); parent != nil {
			siblings := sameTagSiblings(parent, cur.Tag)
			if len(siblings) > 1 {
				for i, s := range siblings {
					if s == cur {
						part = fmt.Sprintf("%s:nth-child(%d)", cur.Tag, i+1)
						break
					}
				}
			}
		}
		path = append(path, part)
	}

	// Reverse into document order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return strings.Join(path, " > ")
}

func sameTagSiblings(parent *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range parent.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// walk visits el and every descendant element in document order.
func walk(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, c := range el.ChildElements() {
		walk(c, fn)
	}
}

// findElements returns all descendants of root (root included) whose
// local tag matches, ignoring namespace prefixes.
func findElements(root *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	walk(root, func(el *etree.Element) {
		if el.Tag == tag {
			out = append(out, el)
		}
	})
	return out
}

// attrValue returns the value of the named attribute, matching on the
// local key so prefixed duplicates do not hide it.
func attrValue(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// elementText concatenates the character data children of el.
func elementText(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			b.WriteString(cd.Data)
		}
	}
	return b.String()
}
