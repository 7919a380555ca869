// Package convert orchestrates the two-phase conversion pipeline: a first
// pass classifies every source file and builds the global export map, a
// second pass resolves imports against the completed map, rewrites each
// file, and writes the output tree.
package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/esmshift/internal/config"
	"github.com/Sumatoshi-tech/esmshift/pkg/diag"
	"github.com/Sumatoshi-tech/esmshift/pkg/dialect"
	"github.com/Sumatoshi-tech/esmshift/pkg/edgecase"
	"github.com/Sumatoshi-tech/esmshift/pkg/exportmap"
	"github.com/Sumatoshi-tech/esmshift/pkg/exports"
	"github.com/Sumatoshi-tech/esmshift/pkg/fsutil"
	"github.com/Sumatoshi-tech/esmshift/pkg/imports"
	"github.com/Sumatoshi-tech/esmshift/pkg/render"
	"github.com/Sumatoshi-tech/esmshift/pkg/rewrite"
	"github.com/Sumatoshi-tech/esmshift/pkg/textutil"
)

// FileResult records the outcome for one discovered file.
type FileResult struct {
	Input   string   `yaml:"input"`
	Output  string   `yaml:"output,omitempty"`
	Dialect string   `yaml:"dialect,omitempty"`
	Exports []string `yaml:"exports,omitempty"`
	Imports []string `yaml:"imports,omitempty"`
	Copied  bool     `yaml:"copied,omitempty"`
	Skipped bool     `yaml:"skipped,omitempty"`
}

// Result summarizes a completed run.
type Result struct {
	Files       []FileResult   `yaml:"files"`
	Converted   int            `yaml:"converted"`
	Copied      int            `yaml:"copied"`
	Skipped     int            `yaml:"skipped"`
	Diagnostics map[string]int `yaml:"diagnostics,omitempty"`
}

// Options tune pipeline behavior beyond the configuration file.
type Options struct {
	// DryRun runs the full pipeline without writing any output file.
	DryRun bool
	// Preview, when non-nil, receives each converted file's original and
	// final text. Used for diff rendering.
	Preview func(path, original, final string)
}

// Pipeline executes conversions for one configuration. Execution is
// single-threaded and synchronous end to end; the export map becomes
// read-only before any import resolution begins.
type Pipeline struct {
	cfg  *config.Config
	opts Options
	sink *diag.Sink

	table     *dialect.Table
	exporter  *exports.Resolver
	importer  *imports.Resolver
	engine    *rewrite.Engine
	formatter *render.Formatter
}

// New builds a Pipeline from a validated configuration. A nil logger logs
// diagnostics to stderr.
func New(cfg *config.Config, logger *slog.Logger, opts Options) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		opts:      opts,
		sink:      diag.NewSink(logger),
		table:     dialect.NewTable(cfg.Global),
		exporter:  exports.NewResolver(cfg.Global),
		importer:  imports.NewResolver(cfg.Global),
		engine:    rewrite.NewEngine(cfg.Global),
		formatter: render.NewFormatter(cfg.Banner),
	}
}

// Sink exposes the diagnostics sink, primarily for summaries.
func (p *Pipeline) Sink() *diag.Sink {
	return p.sink
}

// sourceFile carries the Phase 1 state reused by Phase 2, so a file is
// classified and its exports resolved exactly once.
type sourceFile struct {
	entry    fsutil.Entry
	base     string
	text     string
	dialect  dialect.Dialect
	exports  []exports.Entry
	output   string
	override edgecase.Override
}

type passthrough struct {
	entry  fsutil.Entry
	output string
	data   []byte
}

// Run executes the pipeline to completion. Any fatal error aborts the
// entire run immediately; there is no partial-completion rollback.
func (p *Pipeline) Run() (*Result, error) {
	entries, err := fsutil.Discover(p.cfg.Inputs, p.cfg.Excludes)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	sources, copies, m, err := p.phaseOne(entries, result)
	if err != nil {
		return nil, err
	}

	if err := p.phaseTwo(sources, copies, m, result); err != nil {
		return nil, err
	}

	result.Diagnostics = make(map[string]int)
	for _, category := range p.sink.Categories() {
		result.Diagnostics[category] = p.sink.Count(category)
	}

	return result, nil
}

// phaseOne reads and classifies every file, resolves exports, and
// populates the export map. Duplicate base names are skipped entirely,
// including from the map.
func (p *Pipeline) phaseOne(entries []fsutil.Entry, result *Result) ([]*sourceFile, []passthrough, *exportmap.Map, error) {
	m := exportmap.New()

	var sources []*sourceFile

	var copies []passthrough

	seen := make(map[string]string)

	for _, entry := range entries {
		data, err := os.ReadFile(entry.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("read %s: %w", entry.Path, err)
		}

		if !fsutil.IsSource(entry.Path, data) {
			override, _ := p.cfg.EdgeCases.Lookup(baseName(entry.Path))

			copies = append(copies, passthrough{
				entry:  entry,
				output: p.outputPath(entry, override),
				data:   data,
			})

			continue
		}

		base := baseName(entry.Path)

		if prior, dup := seen[base]; dup {
			p.sink.Report(diag.CategoryDuplicateBase, "duplicate base name, skipping file",
				"file", entry.Path, "first", prior)

			result.Files = append(result.Files, FileResult{Input: entry.Path, Skipped: true})
			result.Skipped++

			continue
		}

		seen[base] = entry.Path

		override, _ := p.cfg.EdgeCases.Lookup(base)

		text := textutil.StripComments(string(data))
		d := p.table.Classify(text)

		resolved, err := p.exporter.Resolve(d, text, base, override, p.sink)
		if err != nil {
			return nil, nil, nil, err
		}

		src := &sourceFile{
			entry:    entry,
			base:     base,
			text:     text,
			dialect:  d,
			exports:  resolved,
			output:   p.outputPath(entry, override),
			override: override,
		}

		for _, e := range resolved {
			if e.Plain() {
				m.Register(e.Name, src.output, p.sink)
			}
		}

		sources = append(sources, src)
	}

	return sources, copies, m, nil
}

// phaseTwo revisits each file with the completed export map: imports are
// resolved, replacement rules built and applied, and output rendered.
func (p *Pipeline) phaseTwo(sources []*sourceFile, copies []passthrough, m *exportmap.Map, result *Result) error {
	for _, src := range sources {
		own := make(map[string]bool, len(src.exports))
		for _, e := range src.exports {
			own[e.Name] = true
		}

		required := p.importer.Resolve(src.text, own, src.override)

		rules, err := p.engine.Build(src.text, plainNames(src.exports), src.override)
		if err != nil {
			return fmt.Errorf("%s: %w", src.entry.Path, err)
		}

		body := rewrite.Apply(src.text, rules)

		importBlock := p.formatter.ImportBlock(src.output, required, m, p.sink)
		exportBlock := p.formatter.ExportBlock(src.output, src.exports, p.sink)
		final := p.formatter.Assemble(importBlock, body, exportBlock)

		if p.opts.Preview != nil {
			p.opts.Preview(src.entry.Path, src.text, final)
		}

		if !p.opts.DryRun {
			if err := fsutil.WriteFile(src.output, []byte(final)); err != nil {
				return err
			}
		}

		result.Files = append(result.Files, FileResult{
			Input:   src.entry.Path,
			Output:  src.output,
			Dialect: src.dialect.String(),
			Exports: exports.Names(src.exports),
			Imports: required,
		})
		result.Converted++
	}

	for _, c := range copies {
		final := p.formatter.AssembleRaw(string(c.data))

		if !p.opts.DryRun {
			if err := fsutil.WriteFile(c.output, []byte(final)); err != nil {
				return err
			}
		}

		result.Files = append(result.Files, FileResult{
			Input:  c.entry.Path,
			Output: c.output,
			Copied: true,
		})
		result.Copied++
	}

	return nil
}

// outputPath mirrors the entry's relative structure under the output root.
// An output override replaces the derived relative path unconditionally.
func (p *Pipeline) outputPath(entry fsutil.Entry, override edgecase.Override) string {
	if override.OutputOverride != "" {
		return filepath.Join(p.cfg.Output, override.OutputOverride)
	}

	return filepath.Join(p.cfg.Output, entry.Rel())
}

func baseName(path string) string {
	name := filepath.Base(path)

	return strings.TrimSuffix(name, filepath.Ext(name))
}

func plainNames(entries []exports.Entry) []string {
	var names []string

	for _, e := range entries {
		if e.Plain() {
			names = append(names, e.Name)
		}
	}

	return names
}
