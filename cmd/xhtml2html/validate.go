// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/xhtml2html/internal/convert"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that an XHTML file exists and parses",
	Long: `Validate checks an input file the same way convert does before
converting: the file must exist, be readable, and parse as XML. The
command exits non-zero with a diagnostic when any check fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := convert.ValidateInput(args[0]); err != nil {
			return err
		}
		fmt.Printf("valid: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
