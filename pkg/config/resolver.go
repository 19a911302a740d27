package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/skillgrade/pkg/logger"
)

const (
	// EnvConfigPath is the environment variable naming an explicit
	// configuration file, taking precedence over in-directory documents.
	EnvConfigPath = "SKILLGRADE_CONFIG"

	// ConfigFileName is the primary configuration document looked up
	// inside the skill directory.
	ConfigFileName = ".skillgrade.yaml"

	// LegacyConfigFileName is the older document name still honored for
	// skills configured by earlier tooling.
	LegacyConfigFileName = ".cc-skills.yaml"
)

// document mirrors the configuration file schema. disabled_checks is the
// legacy spelling of disabled_rules.
type document struct {
	Weights        map[string]float64 `mapstructure:"weights"`
	DisabledRules  []string           `mapstructure:"disabled_rules"`
	DisabledChecks []string           `mapstructure:"disabled_checks"`
	Thresholds     map[string]int     `mapstructure:"thresholds"`
	Languages      []string           `mapstructure:"languages"`
}

// Resolve returns the configuration for evaluating the skill at skillPath.
// Resolution order, first existing source wins:
//
//  1. overridePath, when non-empty
//  2. the SKILLGRADE_CONFIG environment variable
//  3. .skillgrade.yaml inside the skill directory
//  4. .cc-skills.yaml inside the skill directory
//  5. the bundled defaults
//
// Malformed documents and out-of-tolerance weights never fail resolution;
// they degrade to defaults or are normalized, with a logged notice.
func Resolve(ctx context.Context, skillPath, overridePath string) (*Config, error) {
	log := logger.G(ctx)

	path, source := findConfigFile(ctx, skillPath, overridePath)
	if path == "" {
		log.Info("no configuration document found, using bundled defaults")
		log.Infof("to customize, create %s in the skill directory", ConfigFileName)
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Warnf("failed to read configuration from %s, using defaults", source)
		return Default(), nil
	}

	data, err := parseDocument(raw)
	if err != nil {
		log.WithError(err).Warnf("configuration parsing failed from %s, using defaults", source)
		return Default(), nil
	}

	cfg, err := merge(data)
	if err != nil {
		log.WithError(err).Warnf("configuration from %s is invalid, using defaults", source)
		return Default(), nil
	}
	cfg.Source = source

	if err := cfg.normalizeWeights(); err != nil {
		return nil, errors.Wrapf(err, "configuration from %s", source)
	}
	if cfg.Normalized {
		log.Warnf("dimension weights from %s did not sum to 1.0, normalized", source)
	}

	return cfg, nil
}

// findConfigFile walks the resolution chain and returns the first existing
// candidate plus a human-readable source label.
func findConfigFile(ctx context.Context, skillPath, overridePath string) (path, source string) {
	log := logger.G(ctx)

	if overridePath != "" {
		if fileExists(overridePath) {
			return overridePath, overridePath
		}
		log.Warnf("configuration override points to non-existent file: %s", overridePath)
	}

	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		if fileExists(envPath) {
			return envPath, "env:" + EnvConfigPath
		}
		log.Warnf("%s points to non-existent file: %s", EnvConfigPath, envPath)
	}

	for _, name := range []string{ConfigFileName, LegacyConfigFileName} {
		candidate := filepath.Join(skillPath, name)
		if fileExists(candidate) {
			return candidate, name
		}
	}

	return "", ""
}

// parseDocument parses a configuration document, preferring the full YAML
// parser and falling back to the constrained internal one when the
// document trips it up.
func parseDocument(raw []byte) (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err == nil {
		return data, nil
	}

	data = parseSimpleYAML(string(raw))
	if len(data) == 0 {
		return nil, errors.New("document yielded no usable configuration")
	}
	return data, nil
}

// merge applies a parsed document on top of the bundled defaults. Unknown
// weight keys are dropped; unknown top-level keys are preserved in Extra.
func merge(data map[string]interface{}) (*Config, error) {
	cfg := Default()

	var doc document
	metadata := mapstructure.Metadata{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		Metadata:         &metadata,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build configuration decoder")
	}
	if err := decoder.Decode(data); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration document")
	}

	for name, weight := range doc.Weights {
		if isKnownDimension(name) {
			cfg.Weights[name] = weight
		}
	}
	if len(doc.DisabledRules) > 0 {
		cfg.DisabledRules = doc.DisabledRules
	} else if len(doc.DisabledChecks) > 0 {
		cfg.DisabledRules = doc.DisabledChecks
	}
	for name, value := range doc.Thresholds {
		cfg.Thresholds[name] = value
	}
	if len(doc.Languages) > 0 {
		cfg.Languages = doc.Languages
	}

	for _, key := range metadata.Unused {
		value, ok := data[key]
		if !ok {
			continue
		}
		if cfg.Extra == nil {
			cfg.Extra = make(map[string]interface{})
		}
		cfg.Extra[key] = value
	}

	return cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
