package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrConfigSchema indicates the configuration document has a value of the
// wrong type. This aborts the run before any file is touched.
var ErrConfigSchema = errors.New("invalid configuration value type")

// configSchema constrains the types of every configuration field. Shapes
// are validated here; value semantics are validated by Config.Validate.
const configSchema = `{
	"type": "object",
	"properties": {
		"inputs": {
			"oneOf": [
				{"type": "string"},
				{"type": "array", "items": {"type": "string"}}
			]
		},
		"excludes": {"type": "array", "items": {"type": "string"}},
		"output": {"type": "string"},
		"banner": {"type": "string"},
		"global": {"type": "string"},
		"edge_cases": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"properties": {
					"exports_override": {"type": "array", "items": {"type": "string"}},
					"exports": {"type": "array", "items": {"type": "string"}},
					"imports_override": {"type": "array", "items": {"type": "string"}},
					"imports": {"type": "array", "items": {"type": "string"}},
					"replacements_override": {"type": "array"},
					"replacements": {"type": "array"},
					"output_override": {"type": "string"}
				},
				"additionalProperties": false
			}
		}
	}
}`

// validateSchema checks the raw settings document against configSchema.
func validateSchema(settings map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewGoLoader(settings),
	)
	if err != nil {
		return fmt.Errorf("validate config schema: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrConfigSchema, strings.Join(msgs, "; "))
}
