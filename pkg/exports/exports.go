// Package exports extracts a file's exported symbol names. Extraction is
// dialect-specific and purely textual; the result is an ordered,
// deduplicated list of entries.
package exports

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/esmshift/pkg/diag"
	"github.com/Sumatoshi-tech/esmshift/pkg/dialect"
	"github.com/Sumatoshi-tech/esmshift/pkg/edgecase"
)

// ErrUnsupportedDialect indicates a dialect with no export extraction rule
// reached the resolver. This aborts the run.
var ErrUnsupportedDialect = errors.New("dialect has no export extraction rule")

// Action distinguishes plain exports from structured re-export forms.
type Action int

// Entry actions.
const (
	ActionNone Action = iota
	ActionFrom
	ActionAs
)

// Entry is one exported symbol: either a plain name, or a structured
// (name, action, complement) triple for re-export forms.
type Entry struct {
	Name       string
	Action     Action
	Complement string
}

// Plain reports whether the entry is a bare symbol name.
func (e Entry) Plain() bool {
	return e.Action == ActionNone
}

// String renders the entry in the override syntax accepted by ParseEntry.
func (e Entry) String() string {
	switch e.Action {
	case ActionFrom:
		return fmt.Sprintf("%s from %s", e.Name, e.Complement)
	case ActionAs:
		return fmt.Sprintf("%s as %s", e.Name, e.Complement)
	default:
		return e.Name
	}
}

// ParseEntry parses the override forms "Name", "Name as Alias", and
// "Name from ./path" into an Entry.
func ParseEntry(s string) Entry {
	fields := strings.Fields(s)

	const structuredLen = 3

	if len(fields) == structuredLen {
		switch fields[1] {
		case "from":
			return Entry{Name: fields[0], Action: ActionFrom, Complement: fields[2]}
		case "as":
			return Entry{Name: fields[0], Action: ActionAs, Complement: fields[2]}
		}
	}

	return Entry{Name: strings.TrimSpace(s)}
}

// Resolver extracts export entries for one global-namespace identifier.
// Compile once per run; Resolve is safe to call repeatedly.
type Resolver struct {
	braceFrom  *regexp.Regexp
	brace      *regexp.Regexp
	exportVar  *regexp.Regexp
	exportFunc *regexp.Regexp
	cjsObject  *regexp.Regexp
	classic    *regexp.Regexp
	protoCtor  *regexp.Regexp
	library    *regexp.Regexp
	ident      *regexp.Regexp
}

const identRe = `[A-Za-z_$][\w$]*`

// NewResolver compiles extraction patterns for the given global identifier.
func NewResolver(global string) *Resolver {
	escaped := regexp.QuoteMeta(global)

	return &Resolver{
		braceFrom:  regexp.MustCompile(`export\s*\{([^}]*)\}\s*from\s*['"]([^'"]+)['"]`),
		brace:      regexp.MustCompile(`export\s*\{([^}]*)\}`),
		exportVar:  regexp.MustCompile(`export\s+var\s+(` + identRe + `)`),
		exportFunc: regexp.MustCompile(`export\s+function\s+(` + identRe + `)`),
		cjsObject:  regexp.MustCompile(`module\.exports\s*=\s*\{([^}]*)\}`),
		classic:    regexp.MustCompile(escaped + `\.(` + identRe + `)\s*=\s*function\b`),
		protoCtor:  regexp.MustCompile(`prototype\.constructor\s*=\s*` + escaped + `\.(` + identRe + `)`),
		library:    regexp.MustCompile(escaped + `\.(` + identRe + `)\s*=\s*\{`),
		ident:      regexp.MustCompile(`^` + identRe + `$`),
	}
}

// Resolve extracts the export entries of a file. An override record, when
// present, replaces the derived result before deriving anything, so no
// derivation diagnostics are raised for an overridden file; the final list
// is deduplicated by name with the first occurrence winning.
func (r *Resolver) Resolve(
	d dialect.Dialect,
	text string,
	baseName string,
	override edgecase.Override,
	sink *diag.Sink,
) ([]Entry, error) {
	var entries []Entry

	if len(override.ExportsOverride) > 0 {
		entries = parseEntries(override.ExportsOverride)
	} else {
		derived, err := r.derive(d, text, baseName, sink)
		if err != nil {
			return nil, err
		}

		entries = derived

		if len(entries) == 0 && d != dialect.AMD {
			sink.Report(diag.CategoryZeroExports, "no exports resolved, defaulting to base name",
				"file", baseName, "dialect", d.String())

			entries = []Entry{{Name: baseName}}
		}
	}

	for _, s := range override.Exports {
		entries = append(entries, ParseEntry(s))
	}

	return dedupe(entries), nil
}

func (r *Resolver) derive(d dialect.Dialect, text, baseName string, sink *diag.Sink) ([]Entry, error) {
	switch d {
	case dialect.Es6:
		return r.resolveEs6(text), nil
	case dialect.CJS:
		return r.resolveCJS(text), nil
	case dialect.Classic:
		return r.matchAll(r.classic, text), nil
	case dialect.Prototype:
		return r.matchFirst(r.protoCtor, text), nil
	case dialect.Library:
		return r.matchFirst(r.library, text), nil
	case dialect.AMD:
		sink.Report(diag.CategoryAMDUnsupported, "amd module requires manual handling",
			"file", baseName)

		return nil, nil
	case dialect.UMD, dialect.Unknown:
		return []Entry{{Name: baseName}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, d)
	}
}

// resolveEs6 parses brace-list exports, export var, export function, and
// from/as re-export clauses into entries, in order of appearance per form.
func (r *Resolver) resolveEs6(text string) []Entry {
	var entries []Entry

	remaining := text

	for _, m := range r.braceFrom.FindAllStringSubmatch(text, -1) {
		for _, item := range splitList(m[1]) {
			entries = append(entries, braceItem(item, m[2])...)
		}
	}

	// Plain brace exports, with from-clauses masked out so they are not
	// matched twice.
	remaining = r.braceFrom.ReplaceAllString(remaining, "")

	for _, m := range r.brace.FindAllStringSubmatch(remaining, -1) {
		for _, item := range splitList(m[1]) {
			entries = append(entries, braceItem(item, "")...)
		}
	}

	for _, m := range r.exportVar.FindAllStringSubmatch(text, -1) {
		entries = append(entries, Entry{Name: m[1]})
	}

	for _, m := range r.exportFunc.FindAllStringSubmatch(text, -1) {
		entries = append(entries, Entry{Name: m[1]})
	}

	return entries
}

// resolveCJS extracts comma-separated identifiers from the exports object
// literal. Shorthand and key:value items both contribute the leading key.
func (r *Resolver) resolveCJS(text string) []Entry {
	m := r.cjsObject.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	var entries []Entry

	for _, item := range splitList(m[1]) {
		name := item
		if idx := strings.Index(item, ":"); idx >= 0 {
			name = strings.TrimSpace(item[:idx])
		}

		if r.ident.MatchString(name) {
			entries = append(entries, Entry{Name: name})
		}
	}

	return entries
}

func (r *Resolver) matchAll(re *regexp.Regexp, text string) []Entry {
	var entries []Entry

	for _, m := range re.FindAllStringSubmatch(text, -1) {
		entries = append(entries, Entry{Name: m[1]})
	}

	return entries
}

func (r *Resolver) matchFirst(re *regexp.Regexp, text string) []Entry {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	return []Entry{{Name: m[1]}}
}

// braceItem parses one item of a brace list, honoring an "as" alias and an
// optional enclosing from-clause source.
func braceItem(item, from string) []Entry {
	fields := strings.Fields(item)

	const aliasLen = 3

	switch {
	case len(fields) == aliasLen && fields[1] == "as":
		return []Entry{{Name: fields[0], Action: ActionAs, Complement: fields[2]}}
	case len(fields) == 1 && from != "":
		return []Entry{{Name: fields[0], Action: ActionFrom, Complement: from}}
	case len(fields) == 1:
		return []Entry{{Name: fields[0]}}
	default:
		return nil
	}
}

func splitList(list string) []string {
	var items []string

	for _, raw := range strings.Split(list, ",") {
		item := strings.TrimSpace(raw)
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}

func parseEntries(specs []string) []Entry {
	entries := make([]Entry, 0, len(specs))
	for _, s := range specs {
		entries = append(entries, ParseEntry(s))
	}

	return entries
}

func dedupe(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if e.Name == "" || seen[e.Name] {
			continue
		}

		seen[e.Name] = true

		out = append(out, e)
	}

	return out
}

// Names returns the symbol names of entries, in order.
func Names(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}

	return names
}
