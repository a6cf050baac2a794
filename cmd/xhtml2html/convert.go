// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/xhtml2html/internal/convert"
	"github.com/pdiddy/xhtml2html/internal/fetch"
	"github.com/pdiddy/xhtml2html/internal/manifest"
	"github.com/pdiddy/xhtml2html/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert XHTML files to HTML",
	Long: `Convert transforms XHTML documents into HTML with layout preservation:
table structure is tagged for styling, stylesheet and inline styles are
collected into the output head, and namespace prefixes are stripped
(inline-XBRL elements keep theirs).

Single-file mode converts --input to --output; the input may be a local
path or an http(s) URL. Batch mode converts positional files into
--out-dir; with --skip-unchanged a manifest database records input
hashes so unmodified files are skipped on re-runs.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("input", "", "path or URL of the input XHTML file")
	convertCmd.Flags().String("output", "", "output HTML filename (must end with .html)")
	convertCmd.Flags().String("out-dir", ".", "output directory for batch conversion")
	convertCmd.Flags().String("backend", "", "parsing backend: strict or lenient")
	convertCmd.Flags().Bool("no-default-css", false, "omit the built-in table layout stylesheet")
	convertCmd.Flags().Bool("keep-xbrl", true, "preserve inline-XBRL elements with their prefixes")
	convertCmd.Flags().Bool("indent", false, "indent output between block elements")
	convertCmd.Flags().Bool("skip-unchanged", false, "skip batch inputs unchanged since the last run")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")

	cfg := conversionConfig(cmd)

	if input != "" || output != "" {
		if input == "" || output == "" {
			return fmt.Errorf("single-file mode requires both --input and --output")
		}
		if len(args) > 0 {
			return fmt.Errorf("cannot combine --input/--output with positional files")
		}
		return convertSingle(cmd, input, output, cfg)
	}

	if len(args) == 0 {
		return fmt.Errorf("no inputs: provide --input and --output, or input files")
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	cfg.OutDir = outDir

	var store *manifest.Store
	if skip, _ := cmd.Flags().GetBool("skip-unchanged"); skip {
		var err error
		store, err = manifest.Open(manifestConfig())
		if err != nil {
			return err
		}
		defer store.Close()
	}

	result := convert.ConvertBatch(args, cfg, store, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d input(s) failed conversion", result.Failed)
	}
	return nil
}

func convertSingle(cmd *cobra.Command, input, output string, cfg types.ConversionConfig) error {
	if !strings.HasSuffix(strings.ToLower(output), ".html") {
		return fmt.Errorf("output name must end with .html")
	}
	opts := convert.OptionsFromConfig(cfg)

	if fetch.IsURL(input) {
		fcfg := fetchConfig()
		data, err := fetch.Fetch(cmd.Context(), fetch.NewClient(fcfg), input, fcfg, loadedSecrets)
		if err != nil {
			return err
		}

		tmp, err := os.CreateTemp("", "xhtml2html-*.xhtml")
		if err != nil {
			return fmt.Errorf("creating temp file: %w", err)
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return fmt.Errorf("writing temp file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("writing temp file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "fetched: %s (%d bytes)\n", input, len(data))
		input = tmp.Name()
	}

	if err := convert.ValidateInput(input); err != nil {
		return err
	}
	return convert.ConvertFile(input, output, opts, os.Stdout)
}

// conversionConfig builds the conversion settings: config-file values
// first, then flag overrides.
func conversionConfig(cmd *cobra.Command) types.ConversionConfig {
	cfg := types.DefaultConversionConfig()

	if v := viper.GetString("conversion.backend"); v != "" {
		cfg.Backend = types.Backend(v)
	}
	if viper.IsSet("conversion.disable_default_css") {
		cfg.DisableDefaultCSS = viper.GetBool("conversion.disable_default_css")
	}
	if viper.IsSet("conversion.keep_xbrl") {
		cfg.KeepXBRL = viper.GetBool("conversion.keep_xbrl")
	}
	if viper.IsSet("conversion.indent") {
		cfg.Indent = viper.GetBool("conversion.indent")
	}

	if cmd.Flags().Changed("backend") {
		v, _ := cmd.Flags().GetString("backend")
		cfg.Backend = types.Backend(v)
	}
	if cmd.Flags().Changed("no-default-css") {
		v, _ := cmd.Flags().GetBool("no-default-css")
		cfg.DisableDefaultCSS = v
	}
	if cmd.Flags().Changed("keep-xbrl") {
		v, _ := cmd.Flags().GetBool("keep-xbrl")
		cfg.KeepXBRL = v
	}
	if cmd.Flags().Changed("indent") {
		v, _ := cmd.Flags().GetBool("indent")
		cfg.Indent = v
	}
	return cfg
}

func fetchConfig() types.FetchConfig {
	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("fetch.timeout"),
			UserAgent: viper.GetString("fetch.user_agent"),
		},
		MaxRetries: viper.GetInt("fetch.max_retries"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "xhtml2html/" + version
	}
	return cfg
}

func manifestConfig() types.ManifestConfig {
	return types.ManifestConfig{
		Dir: viper.GetString("manifest.dir"),
	}
}
