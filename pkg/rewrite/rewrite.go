// Package rewrite builds and applies the ordered text-substitution rules
// that strip legacy wrapper syntax from a file. Rule order is a contract:
// each rule runs once against the previous rule's output, left to right.
package rewrite

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Sumatoshi-tech/esmshift/pkg/edgecase"
)

// ErrUnmatchedWrapper indicates a self-invoking wrapper opener with no
// matching trailing invocation. The file needs manual intervention; the
// engine never guesses a closer.
var ErrUnmatchedWrapper = errors.New("wrapper opener has no matching closer")

// MathAlias is the reserved local name substituted for the namespaced Math
// member before prefix stripping, so it cannot shadow the native Math
// object. The output formatter aliases the matching import the same way.
const MathAlias = "_Math"

const identRe = `[A-Za-z_$][\w$]*`

// Rule is one ordered substitution. Either Pattern/Replacement describe a
// plain regexp rewrite, or transform carries a substitution a pattern pair
// cannot express.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string

	transform func(string) string
}

func (r Rule) apply(text string) string {
	if r.transform != nil {
		return r.transform(text)
	}

	return r.Pattern.ReplaceAllString(text, r.Replacement)
}

// Apply folds rules over text left to right, producing a new string per
// step. Single pass: the list is not re-run to a fixed point.
func Apply(text string, rules []Rule) string {
	for _, rule := range rules {
		text = rule.apply(text)
	}

	return text
}

// Engine builds per-file rule lists for one global-namespace identifier.
type Engine struct {
	global  string
	escaped string

	importLine  *regexp.Regexp
	exportVar   *regexp.Regexp
	exportFunc  *regexp.Regexp
	exportBrace *regexp.Regexp
	declChain   *regexp.Regexp
	wrapOpen    *regexp.Regexp
	wrapClose   *regexp.Regexp
	wrapCloseIn *regexp.Regexp
	mathMember  *regexp.Regexp
	nsPrefix    *regexp.Regexp
	selfAssign  *regexp.Regexp
}

// NewEngine compiles the fixed rule patterns for the given global
// identifier.
func NewEngine(global string) *Engine {
	escaped := regexp.QuoteMeta(global)

	return &Engine{
		global:      global,
		escaped:     escaped,
		importLine:  regexp.MustCompile(`(?m)^[ \t]*import\b(?:\s*\{[^}]*\}[^\n]*|[^\n]*)\n?`),
		exportVar:   regexp.MustCompile(`export\s+var\s+`),
		exportFunc:  regexp.MustCompile(`export\s+function\s+`),
		exportBrace: regexp.MustCompile(`(?m)^[ \t]*export\s*\{[^}]*\}\s*(?:from\s*['"][^'"]*['"]\s*)?;?[ \t]*\n?`),
		declChain:   regexp.MustCompile(`= var `),
		wrapOpen:    regexp.MustCompile(`^\s*\(\s*function\s*\(\s*(?:` + identRe + `)?\s*\)\s*\{[ \t]*\r?\n?`),
		wrapClose:   regexp.MustCompile(`\}\s*\)\s*\(\s*[\w$.]*\s*\)\s*;?\s*$`),
		wrapCloseIn: regexp.MustCompile(`\}\s*\(\s*[\w$.]*\s*\)\s*\)\s*;?\s*$`),
		mathMember:  regexp.MustCompile(escaped + `\.Math\.`),
		nsPrefix:    regexp.MustCompile(escaped + `\.`),
		selfAssign:  regexp.MustCompile(`(?m)^[ \t]*var (` + identRe + `) = (` + identRe + `);[ \t]*\n?`),
	}
}

// Build assembles the ordered rule list for a file. text is the file's
// working text (wrapper detection inspects it), exported the file's plain
// export names. A replacements override replaces the whole list; additive
// replacements are appended before use.
func (e *Engine) Build(text string, exported []string, override edgecase.Override) ([]Rule, error) {
	if len(override.ReplacementsOverride) > 0 {
		return compileOverrides(override.ReplacementsOverride)
	}

	var rules []Rule

	rules = append(rules, e.moduleSyntaxRules()...)
	rules = append(rules, e.exportAssignmentRules(exported)...)

	wrapperRules, err := e.wrapperRules(text)
	if err != nil {
		return nil, err
	}

	rules = append(rules, wrapperRules...)
	rules = append(rules, e.namespaceRules()...)
	rules = append(rules, e.elisionRule())

	additive, err := compileOverrides(override.Replacements)
	if err != nil {
		return nil, err
	}

	return append(rules, additive...), nil
}

// moduleSyntaxRules removes raw import statements, single-line or braced
// across lines, and strips export qualifiers; the import and export blocks
// are re-synthesized by the formatter.
func (e *Engine) moduleSyntaxRules() []Rule {
	return []Rule{
		{Pattern: e.importLine, Replacement: ""},
		{Pattern: e.exportBrace, Replacement: ""},
		{Pattern: e.exportVar, Replacement: "var "},
		{Pattern: e.exportFunc, Replacement: "function "},
	}
}

// exportAssignmentRules rewrites each exported symbol's namespace
// assignment to a local declaration, then collapses the `= var ` artifact
// produced when one export is assigned from another.
func (e *Engine) exportAssignmentRules(exported []string) []Rule {
	rules := make([]Rule, 0, len(exported)+1)

	for _, name := range exported {
		rules = append(rules, Rule{
			Pattern:     regexp.MustCompile(e.escaped + `\.` + regexp.QuoteMeta(name) + `\s*=`),
			Replacement: "var " + name + " =",
		})
	}

	return append(rules, Rule{Pattern: e.declChain, Replacement: "= "})
}

// wrapperRules strips a leading self-invoking function wrapper and its
// matching trailing invocation. A detected opener without a closer is
// fatal.
func (e *Engine) wrapperRules(text string) ([]Rule, error) {
	opener := e.wrapOpen.FindString(text)
	if opener == "" {
		return nil, nil
	}

	closer := e.wrapClose
	if !closer.MatchString(text) {
		closer = e.wrapCloseIn
		if !closer.MatchString(text) {
			return nil, fmt.Errorf("%w: opener %q", ErrUnmatchedWrapper, opener)
		}
	}

	return []Rule{
		{Pattern: e.wrapOpen, Replacement: ""},
		{Pattern: closer, Replacement: ""},
	}, nil
}

// namespaceRules aliases the namespaced Math member first, then strips all
// remaining namespace prefixes.
func (e *Engine) namespaceRules() []Rule {
	return []Rule{
		{Pattern: e.mathMember, Replacement: MathAlias + "."},
		{Pattern: e.nsPrefix, Replacement: ""},
	}
}

// elisionRule removes tautological `var x = x;` statements left over from
// assignment rewriting.
func (e *Engine) elisionRule() Rule {
	re := e.selfAssign

	return Rule{
		Pattern:     re,
		Replacement: "",
		transform: func(text string) string {
			return re.ReplaceAllStringFunc(text, func(stmt string) string {
				m := re.FindStringSubmatch(stmt)
				if m != nil && m[1] == m[2] {
					return ""
				}

				return stmt
			})
		},
	}
}

func compileOverrides(specs []edgecase.Replacement) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))

	for _, spec := range specs {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile replacement pattern %q: %w", spec.Pattern, err)
		}

		rules = append(rules, Rule{Pattern: re, Replacement: spec.Replacement})
	}

	return rules, nil
}
