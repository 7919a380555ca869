// Package dialect classifies legacy JavaScript sources into module dialects
// by testing text signatures in a fixed priority order.
package dialect

// Dialect is the structural category a legacy file is classified into.
type Dialect int

// Recognized dialects. Classification priority follows declaration order;
// UMD is never produced by the classifier and exists only for files whose
// handling is forced through an edge-case record.
const (
	Unknown Dialect = iota
	Es6
	AMD
	CJS
	Classic
	Prototype
	Library
	UMD
)

var dialectNames = map[Dialect]string{
	Unknown:   "unknown",
	Es6:       "es6",
	AMD:       "amd",
	CJS:       "cjs",
	Classic:   "classic",
	Prototype: "prototype",
	Library:   "library",
	UMD:       "umd",
}

// String returns the lowercase dialect name.
func (d Dialect) String() string {
	name, ok := dialectNames[d]
	if !ok {
		return "unknown"
	}

	return name
}
