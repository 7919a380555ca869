// Package exportmap maintains the global registry mapping an exported
// symbol name to the output path of the file that owns it. The map is
// populated during the first pass and read-only afterward; it is the sole
// source of truth for resolving import targets.
package exportmap

import (
	"github.com/Sumatoshi-tech/esmshift/pkg/diag"
)

// Map records which output path owns each exported symbol name.
type Map struct {
	owners map[string]string
	order  []string
}

// New returns an empty Map.
func New() *Map {
	return &Map{
		owners: make(map[string]string),
	}
}

// Register claims symbol for outputPath. The first registered owner wins:
// a later claim is reported as a non-fatal diagnostic and discarded, never
// overwritten or merged. Register reports whether the claim was accepted.
func (m *Map) Register(symbol, outputPath string, sink *diag.Sink) bool {
	prior, exists := m.owners[symbol]
	if exists {
		sink.Report(diag.CategoryDuplicateSymbol, "duplicate symbol ownership, keeping first owner",
			"symbol", symbol, "owner", prior, "discarded", outputPath)

		return false
	}

	m.owners[symbol] = outputPath
	m.order = append(m.order, symbol)

	return true
}

// Lookup returns the owning output path for symbol.
func (m *Map) Lookup(symbol string) (string, bool) {
	path, ok := m.owners[symbol]

	return path, ok
}

// Len returns the number of registered symbols.
func (m *Map) Len() int {
	return len(m.owners)
}

// Symbols returns the registered symbol names in registration order.
func (m *Map) Symbols() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)

	return out
}
