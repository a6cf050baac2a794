// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"

	"github.com/beevik/etree"
)

// ValidateInput checks that path names a readable, parseable XHTML
// file. It reports the first problem found: missing file, directory,
// unreadable file, or malformed XML.
func ValidateInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", path)
		}
		return fmt.Errorf("checking input file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	doc := etree.NewDocument()
	doc.ReadSettings = newReadSettings(true)
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("invalid XHTML in %s: %w", path, err)
	}
	if doc.Root() == nil {
		return fmt.Errorf("invalid XHTML in %s: no root element", path)
	}
	return nil
}
