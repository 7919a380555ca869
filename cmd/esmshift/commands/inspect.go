package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/esmshift/internal/config"
	"github.com/Sumatoshi-tech/esmshift/pkg/diag"
	"github.com/Sumatoshi-tech/esmshift/pkg/dialect"
	"github.com/Sumatoshi-tech/esmshift/pkg/edgecase"
	"github.com/Sumatoshi-tech/esmshift/pkg/exports"
	"github.com/Sumatoshi-tech/esmshift/pkg/fsutil"
	"github.com/Sumatoshi-tech/esmshift/pkg/textutil"
)

// InspectCommand holds flag state for the inspect command.
type InspectCommand struct {
	global   string
	excludes []string
}

// NewInspectCommand builds the inspect cobra command: a read-only pass
// that classifies files and lists their resolved exports.
func NewInspectCommand() *cobra.Command {
	c := &InspectCommand{}

	cmd := &cobra.Command{
		Use:   "inspect <path> [path...]",
		Short: "Classify input files without writing anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&c.global, "global", "g", config.DefaultGlobal, "legacy global namespace identifier")
	cmd.Flags().StringSliceVarP(&c.excludes, "exclude", "e", nil, "exclusion fragment (repeatable)")

	return cmd
}

func (c *InspectCommand) run(inputs []string, out io.Writer) error {
	entries, err := fsutil.Discover(inputs, c.excludes)
	if err != nil {
		return err
	}

	dialects := dialect.NewTable(c.global)
	resolver := exports.NewResolver(c.global)
	sink := diag.NewSink(nil)

	w := table.NewWriter()
	w.SetOutputMirror(out)
	w.AppendHeader(table.Row{"File", "Dialect", "Exports", "Lines", "Size"})

	for _, entry := range entries {
		data, err := os.ReadFile(entry.Path)
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Path, err)
		}

		lines := textutil.CountLines(data)
		size := humanize.Bytes(uint64(len(data)))

		if !fsutil.IsSource(entry.Path, data) {
			w.AppendRow(table.Row{entry.Path, "-", "-", lines, size})

			continue
		}

		text := textutil.StripComments(string(data))
		d := dialects.Classify(text)

		resolved, err := resolver.Resolve(d, text, baseName(entry.Path), edgecase.Override{}, sink)
		if err != nil {
			return err
		}

		w.AppendRow(table.Row{entry.Path, d.String(), strings.Join(exports.Names(resolved), ", "), lines, size})
	}

	w.Render()

	return nil
}

func baseName(path string) string {
	name := filepath.Base(path)

	return strings.TrimSuffix(name, filepath.Ext(name))
}
