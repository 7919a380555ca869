// Package diag collects non-fatal diagnostics raised while a conversion
// degrades and continues. Every report is advisory; fatal conditions travel
// as ordinary errors instead.
package diag

import (
	"log/slog"
	"os"
)

// Diagnostic categories.
const (
	CategoryZeroExports      = "zero_exports"
	CategoryAMDUnsupported   = "amd_unsupported"
	CategoryDuplicateSymbol  = "duplicate_symbol"
	CategoryDuplicateBase    = "duplicate_base_name"
	CategoryUnknownImport    = "unknown_import"
	CategoryEmptyExportBlock = "empty_export_block"
)

// Sink records diagnostics through a structured logger and keeps per-category
// counts for the run summary. The pipeline is single-threaded, so Sink does
// no locking.
type Sink struct {
	logger *slog.Logger
	counts map[string]int
	order  []string
}

// NewSink creates a Sink reporting through logger. A nil logger falls back
// to a text handler on stderr.
func NewSink(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	return &Sink{
		logger: logger,
		counts: make(map[string]int),
	}
}

// Report records one diagnostic under category with structured attributes.
func (s *Sink) Report(category, msg string, attrs ...any) {
	if s.counts[category] == 0 {
		s.order = append(s.order, category)
	}

	s.counts[category]++

	attrs = append(attrs, "category", category)
	s.logger.Warn(msg, attrs...)
}

// Count returns the number of diagnostics recorded under category.
func (s *Sink) Count(category string) int {
	return s.counts[category]
}

// Total returns the number of diagnostics recorded across all categories.
func (s *Sink) Total() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}

	return total
}

// Categories returns the categories seen so far in first-report order.
func (s *Sink) Categories() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}
