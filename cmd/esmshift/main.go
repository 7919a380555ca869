// Package main provides the entry point for the esmshift CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/esmshift/cmd/esmshift/commands"
	"github.com/Sumatoshi-tech/esmshift/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "esmshift",
		Short: "esmshift - legacy JavaScript to ES module converter",
		Long: `esmshift rewrites a tree of legacy-style script files into ES module
syntax, inferring exports and synthesizing cross-file imports by
heuristic text inspection.

Commands:
  convert   Convert an input tree into an ES module output tree
  inspect   Classify input files without writing anything`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewConvertCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "esmshift %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
