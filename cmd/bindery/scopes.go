package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bindery/internal/binding"
	"bindery/internal/driver"
	"bindery/internal/source"
	"bindery/internal/treeio"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes [flags] <tree-file|directory>",
	Short: "Bind and resolve names over serialized syntax trees",
	Long:  `Bind and resolve names over a serialized syntax tree file, or over every tree file within a directory`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScopes,
}

func init() {
	scopesCmd.Flags().String("dialect", "typed", "dialect preset (base|typed) or path to a dialect TOML file")
	scopesCmd.Flags().String("tree-format", "auto", "tree file encoding (auto|json|msgpack)")
	scopesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	scopesCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	scopesCmd.Flags().Bool("no-validate", false, "skip scope graph invariant checks")
	scopesCmd.Flags().Bool("stats", false, "print summary counts instead of the full scope tree")
	scopesCmd.Flags().Bool("disk-cache", false, "cache analysis summaries on disk")
}

func runScopes(cmd *cobra.Command, args []string) error {
	applyColorMode(cmd)
	path := args[0]

	dialectName, err := cmd.Flags().GetString("dialect")
	if err != nil {
		return fmt.Errorf("failed to get dialect flag: %w", err)
	}
	dialect, err := resolveDialect(dialectName)
	if err != nil {
		return err
	}

	treeFormatName, err := cmd.Flags().GetString("tree-format")
	if err != nil {
		return fmt.Errorf("failed to get tree-format flag: %w", err)
	}
	treeFormat, err := treeio.ParseFormat(treeFormatName)
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noValidate, err := cmd.Flags().GetBool("no-validate")
	if err != nil {
		return fmt.Errorf("failed to get no-validate flag: %w", err)
	}
	stats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	opts := driver.Options{
		Dialect:        dialect,
		Format:         treeFormat,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		Validate:       !noValidate,
		SummaryOnly:    stats,
	}
	if useCache, err := cmd.Flags().GetBool("disk-cache"); err == nil && useCache {
		cache, err := driver.OpenDiskCache("bindery")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	var results []*driver.Result
	if info.IsDir() {
		results, err = driver.AnalyzeDir(context.Background(), path, opts)
		if err != nil {
			return err
		}
	} else {
		res, err := driver.AnalyzeFile(source.NewFileSet(), path, opts)
		if err != nil {
			return err
		}
		results = []*driver.Result{res}
	}

	out := cmd.OutOrStdout()
	render := renderOptions{stats: stats, quiet: quiet}
	if format == "json" {
		err = renderJSON(out, results, render)
	} else {
		err = renderPretty(out, results, render)
	}
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.HasErrors() {
			os.Exit(1)
		}
	}
	return nil
}

// resolveDialect accepts the builtin preset names or a path to a TOML file.
func resolveDialect(name string) (binding.Dialect, error) {
	switch name {
	case "base":
		return binding.Base(), nil
	case "typed", "":
		return binding.Typed(), nil
	}
	return binding.LoadDialect(name)
}
