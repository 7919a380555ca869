package dialect

import (
	"regexp"
)

// Table holds the compiled dialect signatures for one global-namespace
// identifier. It is built once per run and immutable afterward; callers
// share a single Table across every classification.
type Table struct {
	global  string
	escaped string

	es6       *regexp.Regexp
	amd       *regexp.Regexp
	cjs       *regexp.Regexp
	classic   *regexp.Regexp
	protoCtor *regexp.Regexp
	library   *regexp.Regexp
}

// identRe matches a JavaScript identifier.
const identRe = `[A-Za-z_$][\w$]*`

// NewTable compiles the signature patterns for the given global-namespace
// identifier. The identifier is escaped before being embedded in patterns.
func NewTable(global string) *Table {
	escaped := regexp.QuoteMeta(global)

	return &Table{
		global:    global,
		escaped:   escaped,
		es6:       regexp.MustCompile(`(?m)^[ \t]*(?:import|export)\b`),
		amd:       regexp.MustCompile(`\bdefine\s*\(\s*(?:\[|function\b|"` + identRe + `"|'` + identRe + `')`),
		cjs:       regexp.MustCompile(`\bmodule\.exports\s*=`),
		classic:   regexp.MustCompile(escaped + `\.(` + identRe + `)\s*=\s*function\b`),
		protoCtor: regexp.MustCompile(`prototype\.constructor\s*=\s*` + escaped + `\.(` + identRe + `)`),
		library:   regexp.MustCompile(escaped + `\.(` + identRe + `)\s*=\s*\{`),
	}
}

// Global returns the raw global-namespace identifier the table was built for.
func (t *Table) Global() string {
	return t.global
}

// Escaped returns the pattern-safe form of the global identifier.
func (t *Table) Escaped() string {
	return t.escaped
}

// Classify returns the first dialect whose signature matches text.
// It is a pure function: identical text always yields the identical dialect.
func (t *Table) Classify(text string) Dialect {
	switch {
	case t.es6.MatchString(text):
		return Es6
	case t.amd.MatchString(text):
		return AMD
	case t.cjs.MatchString(text):
		return CJS
	case t.classic.MatchString(text):
		return Classic
	case t.protoCtor.MatchString(text):
		return Prototype
	case t.library.MatchString(text):
		return Library
	default:
		return Unknown
	}
}
