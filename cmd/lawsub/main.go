package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/badiary/sat-law-sub000/pkg/annotate"
	"github.com/badiary/sat-law-sub000/pkg/config"
	"github.com/badiary/sat-law-sub000/pkg/kansuji"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lawsub",
		Short: "Japanese statute annotator",
		Long: `Lawsub annotates the HTML rendering of a Japanese statute.

It adds:
  - Bracket nesting markup
  - Resolved article cross references and links
  - Tooltips for defined terms at every use
  - Per-article commentary (逐条解説) blocks`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML options file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")

	rootCmd.AddCommand(annotateCmd())
	rootCmd.AddCommand(definitionsCmd())
	rootCmd.AddCommand(refsCmd())
	rootCmd.AddCommand(numeralCmd())
	return rootCmd
}

func annotateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Annotate a statute document",
		Long: `Run every annotation pass over a statute and print the annotated HTML.

Examples:
  lawsub annotate --source kaishahou.html
  lawsub annotate --source kaishahou.html --commentary chikujo.txt --output out.html
  lawsub annotate --source kaishahou.html --skip style,links --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			asJSON, _ := cmd.Flags().GetBool("json")

			res, err := annotateSource(cmd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if asJSON {
				return writeJSON(w, res)
			}
			_, err = io.WriteString(w, res.Markup)
			return err
		},
	}

	addSourceFlags(cmd)
	cmd.Flags().StringP("commentary", "c", "", "Commentary text file (逐条解説)")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	cmd.Flags().Bool("json", false, "Print title, markup, references and definitions as JSON")

	return cmd
}

func definitionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "definitions",
		Short: "List defined terms",
		Long: `Annotate a statute and print the defined terms it contains as JSON.

Example:
  lawsub definitions --source kaishahou.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := annotateSource(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res.Definitions)
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func refsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs",
		Short: "List resolved cross references",
		Long: `Annotate a statute and print every resolved article reference as JSON.

Example:
  lawsub refs --source kaishahou.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := annotateSource(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res.References)
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func numeralCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "numeral <text>...",
		Short: "Convert Kanji numerals",
		Long: `Replace Kanji numerals in running text with Arabic numerals, or
convert Arabic integers to Kanji with --reverse.

Examples:
  lawsub numeral 第三百二十五条の二
  lawsub numeral --reverse 1024`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reverse, _ := cmd.Flags().GetBool("reverse")
			w := cmd.OutOrStdout()
			for _, arg := range args {
				if reverse {
					n, err := strconv.ParseInt(kansuji.NormalizeWidth(arg), 10, 64)
					if err != nil || n < 0 {
						return fmt.Errorf("invalid integer %q", arg)
					}
					fmt.Fprintln(w, kansuji.FromArabic(n))
					continue
				}
				out, err := kansuji.ReplaceNumerals(arg)
				if err != nil {
					return fmt.Errorf("failed to convert %q: %w", arg, err)
				}
				fmt.Fprintln(w, out)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("reverse", "r", false, "Convert Arabic integers to Kanji numerals")
	return cmd
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "", "Statute HTML file")
	cmd.Flags().String("link-prefix", "", "Prefix for article links (overrides the config file)")
	cmd.Flags().StringSlice("skip", []string{}, "Passes to skip ("+strings.Join(config.PassNames, ",")+")")
}

// loadOptions reads --config and applies the command line overrides.
func loadOptions(cmd *cobra.Command) (config.Options, error) {
	opts := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Options{}, err
		}
		opts = loaded
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		opts.LogLevel = level
	}
	if prefix, _ := cmd.Flags().GetString("link-prefix"); prefix != "" {
		opts.LinkPrefix = prefix
	}
	skip, _ := cmd.Flags().GetStringSlice("skip")
	for _, name := range skip {
		if err := opts.Passes.Disable(name); err != nil {
			return config.Options{}, err
		}
	}
	return opts, opts.Validate()
}

func newLogger(w io.Writer, opts config.Options) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level()}))
}

// annotateSource runs the pipeline over --source and the optional
// --commentary file.
func annotateSource(cmd *cobra.Command) (*annotate.Result, error) {
	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		return nil, fmt.Errorf("--source flag is required")
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), opts)

	statute, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	defer statute.Close()

	var commentary io.Reader
	if cmd.Flags().Lookup("commentary") != nil {
		if path, _ := cmd.Flags().GetString("commentary"); path != "" {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read commentary: %w", err)
			}
			defer f.Close()
			commentary = f
		}
	}

	logger.Debug("annotating", "source", source)
	res, err := annotate.New(opts, logger).AnnotateHTML(statute, commentary)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate %s: %w", source, err)
	}
	return res, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
