// Package render formats import and export statement blocks and assembles
// final output text.
package render

import (
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/esmshift/pkg/diag"
	"github.com/Sumatoshi-tech/esmshift/pkg/exportmap"
	"github.com/Sumatoshi-tech/esmshift/pkg/exports"
	"github.com/Sumatoshi-tech/esmshift/pkg/rewrite"
)

// Formatter renders output files with a configured banner.
type Formatter struct {
	banner string
}

// NewFormatter returns a Formatter prefixing every emitted file with
// banner.
func NewFormatter(banner string) *Formatter {
	return &Formatter{banner: banner}
}

// ImportBlock renders the import statements for a consumer file. required
// symbols are grouped by their producer path from the export map; a symbol
// absent from the map is dropped with a diagnostic and the rest of the
// block still renders.
func (f *Formatter) ImportBlock(consumerPath string, required []string, m *exportmap.Map, sink *diag.Sink) string {
	groups := make(map[string][]string)

	var order []string

	for _, symbol := range required {
		producer, ok := m.Lookup(symbol)
		if !ok {
			sink.Report(diag.CategoryUnknownImport, "import symbol has no known producer, dropping",
				"symbol", symbol, "consumer", consumerPath)

			continue
		}

		if len(groups[producer]) == 0 {
			order = append(order, producer)
		}

		groups[producer] = append(groups[producer], symbol)
	}

	var b strings.Builder

	for _, producer := range order {
		b.WriteString(importStatement(groups[producer], Specifier(consumerPath, producer)))
	}

	return b.String()
}

// Specifier computes the module specifier naming producer from the
// directory of consumer: the relative directory path, forward slashes,
// producer's base name without extension appended, and a leading `./`
// when no parent- or current-directory marker is present.
func Specifier(consumerPath, producerPath string) string {
	rel, err := filepath.Rel(filepath.Dir(consumerPath), filepath.Dir(producerPath))
	if err != nil {
		rel = filepath.Dir(producerPath)
	}

	base := strings.TrimSuffix(filepath.Base(producerPath), filepath.Ext(producerPath))

	spec := filepath.ToSlash(filepath.Join(rel, base))
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		spec = "./" + spec
	}

	return spec
}

func importStatement(symbols []string, spec string) string {
	if len(symbols) == 1 {
		return "import { " + aliased(symbols[0]) + " } from '" + spec + "';\n"
	}

	var b strings.Builder

	b.WriteString("import {\n")

	for i, symbol := range symbols {
		b.WriteString("\t" + aliased(symbol))

		if i < len(symbols)-1 {
			b.WriteString(",")
		}

		b.WriteString("\n")
	}

	b.WriteString("} from '" + spec + "';\n")

	return b.String()
}

// aliased renders one imported symbol, realiasing Math to the reserved
// local name the replacement engine substitutes in consumer bodies.
func aliased(symbol string) string {
	if symbol == "Math" {
		return "Math as " + rewrite.MathAlias
	}

	return symbol
}

// ExportBlock renders the export statements for a file. Structured from/as
// entries render individually; plain entries render as a single brace
// block. Zero total exports is a non-fatal diagnostic and an empty block.
func (f *Formatter) ExportBlock(path string, entries []exports.Entry, sink *diag.Sink) string {
	if len(entries) == 0 {
		sink.Report(diag.CategoryEmptyExportBlock, "file has no exports to render", "file", path)

		return ""
	}

	var b strings.Builder

	var plain []string

	for _, e := range entries {
		switch e.Action {
		case exports.ActionFrom:
			b.WriteString("export { " + e.Name + " } from \"" + e.Complement + "\";\n")
		case exports.ActionAs:
			b.WriteString("export { " + e.Name + " as " + e.Complement + " };\n")
		default:
			plain = append(plain, e.Name)
		}
	}

	switch {
	case len(plain) == 1:
		b.WriteString("export { " + plain[0] + " };\n")
	case len(plain) > 1:
		b.WriteString("export {\n")

		for i, name := range plain {
			b.WriteString("\t" + name)

			if i < len(plain)-1 {
				b.WriteString(",")
			}

			b.WriteString("\n")
		}

		b.WriteString("};\n")
	}

	return b.String()
}

// Assemble builds the final text of a converted source file:
// banner + import block + transformed body + export block.
func (f *Formatter) Assemble(importBlock, body, exportBlock string) string {
	var b strings.Builder

	b.WriteString(f.banner)
	b.WriteString(importBlock)

	if importBlock != "" && !strings.HasPrefix(body, "\n") {
		b.WriteString("\n")
	}

	b.WriteString(body)

	if exportBlock != "" && !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}

	b.WriteString(exportBlock)

	return b.String()
}

// AssembleRaw builds the final text of a non-source file: banner + raw
// body, copied verbatim.
func (f *Formatter) AssembleRaw(body string) string {
	return f.banner + body
}
