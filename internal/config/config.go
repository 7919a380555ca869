// Package config defines and loads the conversion configuration.
package config

import (
	"errors"
	"regexp"

	"github.com/Sumatoshi-tech/esmshift/pkg/edgecase"
)

// Config is the top-level configuration for a conversion run.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Inputs    []string     `mapstructure:"inputs"`
	Excludes  []string     `mapstructure:"excludes"`
	Output    string       `mapstructure:"output"`
	EdgeCases edgecase.Set `mapstructure:"edge_cases"`
	Banner    string       `mapstructure:"banner"`
	Global    string       `mapstructure:"global"`
}

// Default configuration values.
const (
	// DefaultGlobal is the legacy namespace identifier assumed when none
	// is configured.
	DefaultGlobal = "Global"
	// DefaultOutput is the output root assumed when none is configured.
	DefaultOutput = "out"
)

// Sentinel errors for configuration validation.
var (
	// ErrNoInputs indicates no input roots were configured.
	ErrNoInputs = errors.New("inputs must name at least one path")
	// ErrNoOutput indicates the output root is empty.
	ErrNoOutput = errors.New("output must name a directory")
	// ErrInvalidGlobal indicates the global namespace identifier is not a
	// valid JavaScript identifier.
	ErrInvalidGlobal = errors.New("global must be a valid identifier")
)

var identPattern = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// Validate checks Config invariants and returns the first error found.
// Fields are orthogonal and validated independently.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInputs
	}

	if c.Output == "" {
		return ErrNoOutput
	}

	if !identPattern.MatchString(c.Global) {
		return ErrInvalidGlobal
	}

	return nil
}
