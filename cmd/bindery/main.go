package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bindery/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "bindery",
	Short: "Scope analysis for serialized syntax trees",
	Long:  `Bindery binds and resolves names over serialized syntax trees, producing scope graphs, reference resolutions and diagnostics`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(scopesCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// applyColorMode resolves the --color flag against the actual output.
func applyColorMode(cmd *cobra.Command) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return
	}
	switch mode {
	case "on":
		setColorEnabled(true)
	case "off":
		setColorEnabled(false)
	default:
		setColorEnabled(isTerminal(os.Stdout))
	}
}
