// Package commands implements CLI command handlers for esmshift.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/esmshift/internal/config"
	"github.com/Sumatoshi-tech/esmshift/pkg/convert"
)

// ConvertCommand holds flag state for the convert command.
type ConvertCommand struct {
	configPath string
	inputs     []string
	excludes   []string
	output     string
	global     string
	banner     string
	reportPath string
	dryRun     bool
	showDiff   bool
	quiet      bool
	verbose    bool
}

// NewConvertCommand builds the convert cobra command.
func NewConvertCommand() *cobra.Command {
	c := &ConvertCommand{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an input tree into an ES module output tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&c.configPath, "config", "", "config file path")
	cmd.Flags().StringSliceVarP(&c.inputs, "input", "i", nil, "input root (repeatable)")
	cmd.Flags().StringSliceVarP(&c.excludes, "exclude", "e", nil, "exclusion fragment (repeatable)")
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "output root")
	cmd.Flags().StringVarP(&c.global, "global", "g", "", "legacy global namespace identifier")
	cmd.Flags().StringVar(&c.banner, "banner", "", "header prefixed to every emitted file")
	cmd.Flags().StringVar(&c.reportPath, "report", "", "write a YAML run report to this file")
	cmd.Flags().BoolVar(&c.dryRun, "dry-run", false, "run the full pipeline without writing output")
	cmd.Flags().BoolVar(&c.showDiff, "diff", false, "print per-file diffs of the rewrite")
	cmd.Flags().BoolVarP(&c.quiet, "quiet", "q", false, "suppress the run summary")
	cmd.Flags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose diagnostics")

	return cmd
}

func (c *ConvertCommand) run(cmd *cobra.Command, out io.Writer) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := convert.Options{DryRun: c.dryRun || c.showDiff}
	if c.showDiff {
		opts.Preview = func(path, original, final string) {
			printDiff(out, path, original, final)
		}
	}

	pipeline := convert.New(cfg, c.logger(), opts)

	result, err := pipeline.Run()
	if err != nil {
		return err
	}

	if c.reportPath != "" {
		if err := writeReport(c.reportPath, result); err != nil {
			return err
		}
	}

	if !c.quiet {
		printSummary(out, result)
	}

	return nil
}

// loadConfig loads the file/env configuration, then lets changed flags
// override individual fields before validation.
func (c *ConvertCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("input") {
		cfg.Inputs = c.inputs
	}

	if cmd.Flags().Changed("exclude") {
		cfg.Excludes = c.excludes
	}

	if cmd.Flags().Changed("output") {
		cfg.Output = c.output
	}

	if cmd.Flags().Changed("global") {
		cfg.Global = c.global
	}

	if cmd.Flags().Changed("banner") {
		cfg.Banner = c.banner
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *ConvertCommand) logger() *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printDiff(out io.Writer, path, original, final string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, final, false)

	fmt.Fprintf(out, "--- %s\n", path)
	fmt.Fprintln(out, dmp.DiffPrettyText(diffs))
}

func printSummary(out io.Writer, result *convert.Result) {
	w := table.NewWriter()
	w.SetOutputMirror(out)
	w.AppendHeader(table.Row{"Converted", "Copied", "Skipped", "Diagnostics"})

	diagnostics := 0
	for _, n := range result.Diagnostics {
		diagnostics += n
	}

	w.AppendRow(table.Row{result.Converted, result.Copied, result.Skipped, diagnostics})
	w.Render()

	if diagnostics > 0 {
		color.New(color.FgYellow).Fprintf(out, "%d diagnostic(s), see stderr for details\n", diagnostics)
	}
}

func writeReport(path string, result *convert.Result) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	const filePerm = 0o644

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
