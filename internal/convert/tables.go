// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strings"

	"github.com/beevik/etree"
)

// Classes injected by EnhanceTables. The built-in stylesheet and any
// downstream tooling key off these.
const (
	classPreservedTable = "preserved-table"
	classMergedCell     = "merged-cell"
)

// EnhanceTables tags every table with a layout-preservation class and
// marks cells that span rows or columns, so spanned layouts survive
// styling and pagination.
func EnhanceTables(doc *etree.Document) {
	root := doc.Root()
	if root == nil {
		return
	}

	for _, table := range findElements(root, "table") {
		appendClass(table, classPreservedTable)

		walk(table, func(cell *etree.Element) {
			if cell.Tag != "td" && cell.Tag != "th" {
				return
			}
			if attrValue(cell, "colspan") != "" || attrValue(cell, "rowspan") != "" {
				appendClass(cell, classMergedCell)
			}
		})
	}
}

// appendClass adds name to the element's class attribute, preserving
// any existing classes.
func appendClass(el *etree.Element, name string) {
	classes := strings.Fields(attrValue(el, "class"))
	classes = append(classes, name)
	setAttr(el, "class", strings.Join(classes, " "))
}

// setAttr sets an unprefixed attribute, replacing an existing value
// stored under the same local key.
func setAttr(el *etree.Element, key, value string) {
	for i, a := range el.Attr {
		if a.Key == key {
			el.Attr[i].Value = value
			return
		}
	}
	el.CreateAttr(key, value)
}
