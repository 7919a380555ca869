// Package edgecase holds per-file manual overrides for heuristic-derived
// values. An override field replaces the derived value unconditionally;
// an additive field appends before deduplication.
package edgecase

// Replacement is one textual substitution supplied through an override.
// Pattern is a regular expression compiled by the replacement engine.
type Replacement struct {
	Pattern     string `mapstructure:"pattern" yaml:"pattern"`
	Replacement string `mapstructure:"replacement" yaml:"replacement"`
}

// Override replaces or extends derived values for a single file, keyed by
// the file's base name. Entries in Exports and ExportsOverride may use the
// forms "Name", "Name as Alias", or "Name from ./path" and are parsed by
// the export resolver.
type Override struct {
	ExportsOverride      []string      `mapstructure:"exports_override" yaml:"exports_override"`
	Exports              []string      `mapstructure:"exports" yaml:"exports"`
	ImportsOverride      []string      `mapstructure:"imports_override" yaml:"imports_override"`
	Imports              []string      `mapstructure:"imports" yaml:"imports"`
	ReplacementsOverride []Replacement `mapstructure:"replacements_override" yaml:"replacements_override"`
	Replacements         []Replacement `mapstructure:"replacements" yaml:"replacements"`
	OutputOverride       string        `mapstructure:"output_override" yaml:"output_override"`
}

// Set maps a file base name to its override record.
type Set map[string]Override

// Lookup returns the override for base, if any.
func (s Set) Lookup(base string) (Override, bool) {
	if s == nil {
		return Override{}, false
	}

	o, ok := s[base]

	return o, ok
}
