package exports_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/esmshift/pkg/diag"
	"github.com/Sumatoshi-tech/esmshift/pkg/dialect"
	"github.com/Sumatoshi-tech/esmshift/pkg/edgecase"
	"github.com/Sumatoshi-tech/esmshift/pkg/exports"
)

func resolve(t *testing.T, d dialect.Dialect, text, base string, override edgecase.Override) ([]exports.Entry, *diag.Sink) {
	t.Helper()

	sink := diag.NewSink(nil)

	entries, err := exports.NewResolver("Global").Resolve(d, text, base, override, sink)
	require.NoError(t, err)

	return entries, sink
}

func TestResolve_Classic(t *testing.T) {
	t.Parallel()

	text := "Global.Foo = function () {};\nGlobal.Bar = function () {};\n"

	entries, _ := resolve(t, dialect.Classic, text, "Foo", edgecase.Override{})

	assert.Equal(t, []string{"Foo", "Bar"}, exports.Names(entries))
}

func TestResolve_Es6Forms(t *testing.T) {
	t.Parallel()

	text := "export var A = 1;\n" +
		"export function B() {}\n" +
		"export { C, D as E };\n" +
		"export { F } from './f';\n"

	entries, _ := resolve(t, dialect.Es6, text, "Mod", edgecase.Override{})

	require.Len(t, entries, 5)

	assert.Equal(t, exports.Entry{Name: "F", Action: exports.ActionFrom, Complement: "./f"}, entries[0])
	assert.Equal(t, exports.Entry{Name: "C"}, entries[1])
	assert.Equal(t, exports.Entry{Name: "D", Action: exports.ActionAs, Complement: "E"}, entries[2])
	assert.Equal(t, exports.Entry{Name: "A"}, entries[3])
	assert.Equal(t, exports.Entry{Name: "B"}, entries[4])
}

func TestResolve_CJS(t *testing.T) {
	t.Parallel()

	text := "module.exports = { alpha, beta: makeBeta, gamma };\n"

	entries, _ := resolve(t, dialect.CJS, text, "Mod", edgecase.Override{})

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, exports.Names(entries))
}

func TestResolve_Prototype(t *testing.T) {
	t.Parallel()

	text := "Widget.prototype.constructor = Global.Widget;\n"

	entries, _ := resolve(t, dialect.Prototype, text, "Widget", edgecase.Override{})

	assert.Equal(t, []string{"Widget"}, exports.Names(entries))
}

func TestResolve_Library(t *testing.T) {
	t.Parallel()

	text := "Global.Util = {\n\tclamp: clamp\n};\n"

	entries, _ := resolve(t, dialect.Library, text, "Util", edgecase.Override{})

	assert.Equal(t, []string{"Util"}, exports.Names(entries))
}

func TestResolve_AMDIsEmptyWithDiagnostic(t *testing.T) {
	t.Parallel()

	entries, sink := resolve(t, dialect.AMD, "define(function () {});\n", "Mod", edgecase.Override{})

	assert.Empty(t, entries)
	assert.Equal(t, 1, sink.Count(diag.CategoryAMDUnsupported))
	assert.Zero(t, sink.Count(diag.CategoryZeroExports))
}

func TestResolve_UnknownFallsBackToBaseName(t *testing.T) {
	t.Parallel()

	entries, _ := resolve(t, dialect.Unknown, "var x = 1;\n", "Widget", edgecase.Override{})

	assert.Equal(t, []string{"Widget"}, exports.Names(entries))
}

func TestResolve_ZeroExportsFallsBackWithDiagnostic(t *testing.T) {
	t.Parallel()

	// Classified classic elsewhere, but nothing extractable remains.
	entries, sink := resolve(t, dialect.Classic, "var x = 1;\n", "Widget", edgecase.Override{})

	assert.Equal(t, []string{"Widget"}, exports.Names(entries))
	assert.Equal(t, 1, sink.Count(diag.CategoryZeroExports))
}

func TestResolve_OverrideReplaces(t *testing.T) {
	t.Parallel()

	text := "Global.Foo = function () {};\n"
	override := edgecase.Override{ExportsOverride: []string{"Bar", "Baz as Qux"}}

	entries, _ := resolve(t, dialect.Classic, text, "Foo", override)

	require.Len(t, entries, 2)

	assert.Equal(t, exports.Entry{Name: "Bar"}, entries[0])
	assert.Equal(t, exports.Entry{Name: "Baz", Action: exports.ActionAs, Complement: "Qux"}, entries[1])
}

func TestResolve_OverrideSkipsDerivationDiagnostics(t *testing.T) {
	t.Parallel()

	override := edgecase.Override{ExportsOverride: []string{"THREE"}}

	entries, sink := resolve(t, dialect.Classic, "no matches here", "three.min", override)

	assert.Equal(t, []string{"THREE"}, exports.Names(entries))
	assert.Zero(t, sink.Count(diag.CategoryZeroExports))
}

func TestResolve_OverrideSuppressesAMDDiagnostic(t *testing.T) {
	t.Parallel()

	override := edgecase.Override{ExportsOverride: []string{"Loader"}}

	entries, sink := resolve(t, dialect.AMD, "define(function () {});\n", "Loader", override)

	assert.Equal(t, []string{"Loader"}, exports.Names(entries))
	assert.Zero(t, sink.Count(diag.CategoryAMDUnsupported))
}

func TestResolve_OverridePreemptsUnsupportedDialect(t *testing.T) {
	t.Parallel()

	const bogus = dialect.Dialect(99)

	sink := diag.NewSink(nil)
	override := edgecase.Override{ExportsOverride: []string{"Foo"}}

	entries, err := exports.NewResolver("Global").Resolve(bogus, "", "Foo", override, sink)
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo"}, exports.Names(entries))

	_, err = exports.NewResolver("Global").Resolve(bogus, "", "Foo", edgecase.Override{}, sink)
	assert.ErrorIs(t, err, exports.ErrUnsupportedDialect)
}

func TestResolve_AdditiveAppendsBeforeDedup(t *testing.T) {
	t.Parallel()

	text := "Global.Foo = function () {};\n"
	override := edgecase.Override{Exports: []string{"Extra", "Foo"}}

	entries, _ := resolve(t, dialect.Classic, text, "Foo", override)

	// First occurrence wins: the derived Foo survives, the additive
	// duplicate is dropped.
	assert.Equal(t, []string{"Foo", "Extra"}, exports.Names(entries))
}

func TestParseEntry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, exports.Entry{Name: "A"}, exports.ParseEntry("A"))
	assert.Equal(t,
		exports.Entry{Name: "A", Action: exports.ActionAs, Complement: "B"},
		exports.ParseEntry("A as B"))
	assert.Equal(t,
		exports.Entry{Name: "A", Action: exports.ActionFrom, Complement: "./x"},
		exports.ParseEntry("A from ./x"))
}
