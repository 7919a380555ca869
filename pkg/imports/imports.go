// Package imports detects a file's references to externally-defined
// symbols. Five independent heuristics contribute candidates; results keep
// the heuristic order and drop self-references and duplicates.
package imports

import (
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/esmshift/pkg/edgecase"
)

const identRe = `[A-Za-z_$][\w$]*`

// Resolver scans text for external symbol references against one
// global-namespace identifier. Compile once per run.
type Resolver struct {
	importClause *regexp.Regexp
	callArgs     *regexp.Regexp
	protoTarget  *regexp.Regexp
	protoCreate  *regexp.Regexp
	instantiate  *regexp.Regexp
	typeCheck    *regexp.Regexp
}

// NewResolver compiles the reference patterns for the given global
// identifier. The identifier is escaped before use.
func NewResolver(global string) *Resolver {
	escaped := regexp.QuoteMeta(global)

	return &Resolver{
		importClause: regexp.MustCompile(`import\s*\{([^}]*)\}\s*from`),
		callArgs:     regexp.MustCompile(`\(([^()]*` + escaped + `\.` + identRe + `\.prototype[^()]*)\)`),
		protoTarget:  regexp.MustCompile(escaped + `\.(` + identRe + `)\.prototype`),
		protoCreate:  regexp.MustCompile(`Object\.create\(\s*` + escaped + `\.(` + identRe + `)\.prototype`),
		instantiate:  regexp.MustCompile(`new\s+` + escaped + `\.(` + identRe + `)\s*\(`),
		typeCheck:    regexp.MustCompile(`instanceof\s+` + escaped + `\.(` + identRe + `)`),
	}
}

// Resolve returns the symbols text references but does not itself export.
// own is the file's export set; members of it never appear in the result.
// Candidates are concatenated in heuristic order, then deduplicated with
// the first occurrence winning. Overrides replace or extend the result.
func (r *Resolver) Resolve(text string, own map[string]bool, override edgecase.Override) []string {
	var candidates []string

	candidates = append(candidates, r.importedSymbols(text)...)
	candidates = append(candidates, r.mergedPrototypes(text)...)
	candidates = append(candidates, r.matchAll(r.protoCreate, text)...)
	candidates = append(candidates, r.matchAll(r.instantiate, text)...)
	candidates = append(candidates, r.matchAll(r.typeCheck, text)...)

	required := make([]string, 0, len(candidates))

	for _, name := range candidates {
		if name == "" || own[name] {
			continue
		}

		required = append(required, name)
	}

	if len(override.ImportsOverride) > 0 {
		required = append([]string(nil), override.ImportsOverride...)
	}

	required = append(required, override.Imports...)

	return dedupe(required)
}

// importedSymbols extracts names from explicit module-style import clauses.
func (r *Resolver) importedSymbols(text string) []string {
	var names []string

	for _, m := range r.importClause.FindAllStringSubmatch(text, -1) {
		for _, item := range strings.Split(m[1], ",") {
			name := strings.TrimSpace(item)

			// `X as Y` clauses reference X.
			if fields := strings.Fields(name); len(fields) > 1 {
				name = fields[0]
			}

			if name != "" {
				names = append(names, name)
			}
		}
	}

	return names
}

// mergedPrototypes finds calls that merge two or more namespaced prototype
// objects in a single argument list and yields every mentioned name.
func (r *Resolver) mergedPrototypes(text string) []string {
	var names []string

	for _, call := range r.callArgs.FindAllStringSubmatch(text, -1) {
		targets := r.protoTarget.FindAllStringSubmatch(call[1], -1)

		const multiTarget = 2

		if len(targets) < multiTarget {
			continue
		}

		for _, t := range targets {
			names = append(names, t[1])
		}
	}

	return names
}

func (r *Resolver) matchAll(re *regexp.Regexp, text string) []string {
	var names []string

	for _, m := range re.FindAllStringSubmatch(text, -1) {
		names = append(names, m[1])
	}

	return names
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}

		seen[name] = true

		out = append(out, name)
	}

	return out
}
