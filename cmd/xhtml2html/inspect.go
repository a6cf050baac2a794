// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/xhtml2html/internal/convert"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Survey a document's namespaces, tables, and styles",
	Long: `Inspect parses an XHTML file and reports what conversion would
encounter: root element, DOCTYPE, declared encoding, namespace
declarations, table and spanned-cell counts, and style sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	inspectCmd.Flags().String("backend", "", "parsing backend: strict or lenient")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	cfg := conversionConfig(cmd)
	report, err := convert.Inspect(data, cfg.Backend)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(report)
	case "text":
		printReport(report)
		return nil
	default:
		return fmt.Errorf("unknown format %q: use text, json, or yaml", format)
	}
}

func printReport(r convert.Report) {
	fmt.Printf("Root:              %s\n", r.Root)
	if r.Doctype != "" {
		fmt.Printf("Doctype:           %s\n", r.Doctype)
	}
	if r.DeclaredEncoding != "" {
		fmt.Printf("Declared encoding: %s\n", r.DeclaredEncoding)
	}
	fmt.Printf("Tables:            %d (%d merged cells)\n", r.Tables, r.MergedCells)
	fmt.Printf("Styles:            %d style element(s), %d inline\n", r.StyleElements, r.InlineStyles)

	if len(r.Namespaces) > 0 {
		fmt.Println("Namespaces:")
		prefixes := make([]string, 0, len(r.Namespaces))
		for p := range r.Namespaces {
			prefixes = append(prefixes, p)
		}
		sort.Strings(prefixes)
		for _, p := range prefixes {
			name := p
			if name == "" {
				name = "(default)"
			}
			fmt.Printf("  %-12s %s\n", name, r.Namespaces[p])
		}
	}
}
