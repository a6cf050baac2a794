// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the xhtml2html CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/xhtml2html/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds per-host access tokens loaded from .secrets/ at
// startup, used when fetching remote inputs.
var loadedSecrets map[string]string

// rootCmd is the base command for the xhtml2html CLI.
var rootCmd = &cobra.Command{
	Use:   "xhtml2html",
	Short: "Convert XHTML documents to HTML with layout preservation",
	Long: `xhtml2html converts XHTML documents (including inline-XBRL filings) to
HTML while preserving table layout, inline styling, meaningful namespaces,
and document encoding.

Use convert for single-file or batch conversion, validate to check an
input parses, and inspect to survey a document's namespaces, tables,
and styles before converting.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			hosts := make([]string, 0, len(s))
			for k := range s {
				hosts = append(hosts, k)
			}
			sort.Strings(hosts)
			fmt.Fprintf(os.Stderr, "Loaded tokens for: %v\n", hosts)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./xhtml2html.yaml or ~/.config/xhtml2html/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("xhtml2html")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "xhtml2html"))
		}
	}

	viper.SetEnvPrefix("XHTML2HTML")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
