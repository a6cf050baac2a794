// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/xhtml2html/internal/manifest"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "List recorded batch conversions",
	Long: `Manifest lists the conversion records written by batch runs with
--skip-unchanged: input path, output path, content hash, and time.`,
	RunE: runManifest,
}

func init() {
	manifestCmd.Flags().Bool("yaml", false, "emit records as YAML")

	rootCmd.AddCommand(manifestCmd)
}

func runManifest(cmd *cobra.Command, args []string) error {
	store, err := manifest.Open(manifestConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return store.ExportYAML(os.Stdout)
	}

	docs, err := store.List()
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}

	for _, d := range docs {
		fmt.Printf("%s -> %s (%s, %s)\n",
			d.InputPath, d.OutputPath, d.SHA256[:12], d.ConvertedAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("\n%d record(s)\n", len(docs))
	return nil
}
