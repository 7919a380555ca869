package diag_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/esmshift/pkg/diag"
)

func TestSink_CountsPerCategory(t *testing.T) {
	t.Parallel()

	sink := diag.NewSink(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	sink.Report(diag.CategoryZeroExports, "no exports", "file", "a.js")
	sink.Report(diag.CategoryZeroExports, "no exports", "file", "b.js")
	sink.Report(diag.CategoryUnknownImport, "unknown symbol", "symbol", "Ghost")

	assert.Equal(t, 2, sink.Count(diag.CategoryZeroExports))
	assert.Equal(t, 1, sink.Count(diag.CategoryUnknownImport))
	assert.Equal(t, 0, sink.Count(diag.CategoryDuplicateSymbol))
	assert.Equal(t, 3, sink.Total())
}

func TestSink_CategoriesInFirstReportOrder(t *testing.T) {
	t.Parallel()

	sink := diag.NewSink(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	sink.Report(diag.CategoryUnknownImport, "one")
	sink.Report(diag.CategoryZeroExports, "two")
	sink.Report(diag.CategoryUnknownImport, "three")

	assert.Equal(t, []string{diag.CategoryUnknownImport, diag.CategoryZeroExports}, sink.Categories())
}

func TestSink_ReportWritesStructuredLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	sink := diag.NewSink(slog.New(slog.NewTextHandler(&buf, nil)))

	sink.Report(diag.CategoryDuplicateBase, "duplicate base name", "file", "dup.js")

	assert.Contains(t, buf.String(), "duplicate base name")
	assert.Contains(t, buf.String(), "category="+diag.CategoryDuplicateBase)
	assert.Contains(t, buf.String(), "file=dup.js")
}
