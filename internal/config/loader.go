package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/esmshift/pkg/edgecase"
)

// configName is the config file name without extension.
const configName = ".esmshift"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for esmshift settings.
const envPrefix = "ESMSHIFT"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// keyDelim separates nested config keys. Edge-case records are keyed by
// file base names, which may contain dots, so the default "." delimiter
// cannot be used.
const keyDelim = "::"

// Load loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.NewWithOptions(viper.KeyDelimiter(keyDelim))

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(keyDelim, envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) && !os.IsNotExist(readErr) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	schemaErr := validateSchema(viperCfg.AllSettings())
	if schemaErr != nil {
		return nil, schemaErr
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	// viper lowercases map keys, which breaks base-name keyed edge-case
	// records (Foo.js would only match a record keyed foo). Re-read that
	// one section from the raw document with its casing intact.
	edgeCases, edgeErr := loadEdgeCases(viperCfg.ConfigFileUsed())
	if edgeErr != nil {
		return nil, edgeErr
	}

	cfg.EdgeCases = edgeCases

	return &cfg, nil
}

func loadEdgeCases(path string) (edgecase.Set, error) {
	if path == "" {
		return nil, nil
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return nil, nil
		}

		return nil, fmt.Errorf("read config: %w", readErr)
	}

	var doc struct {
		EdgeCases edgecase.Set `yaml:"edge_cases"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse edge cases: %w", err)
	}

	return doc.EdgeCases, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("inputs", []string{})
	viperCfg.SetDefault("excludes", []string{})
	viperCfg.SetDefault("output", DefaultOutput)
	viperCfg.SetDefault("banner", "")
	viperCfg.SetDefault("global", DefaultGlobal)
}
