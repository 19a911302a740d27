// Package config loads evaluation configuration from a layered set of
// candidate documents and produces an immutable Config value.
package config

import (
	"math"

	"github.com/pkg/errors"
)

// Dimensions lists every scoring dimension in report order.
var Dimensions = []string{
	"frontmatter",
	"content",
	"security",
	"structure",
	"trigger_design",
	"instruction_clarity",
	"value_add",
	"behavioral_readiness",
	"efficiency",
	"best_practices",
	"code_quality",
}

// defaultWeights must sum to 1.0.
var defaultWeights = map[string]float64{
	"frontmatter":          0.08,
	"content":              0.20,
	"security":             0.17,
	"structure":            0.10,
	"trigger_design":       0.08,
	"instruction_clarity":  0.08,
	"value_add":            0.07,
	"behavioral_readiness": 0.07,
	"efficiency":           0.05,
	"best_practices":       0.05,
	"code_quality":         0.05,
}

// defaultLanguages are the source languages eligible for language-specific
// rule matching. Files in other languages still receive generic rules.
var defaultLanguages = []string{"python", "typescript", "javascript", "go", "bash"}

// defaultThresholds are the named numeric cutoffs used by the grader.
var defaultThresholds = map[string]int{
	"critical":  30,
	"good":      70,
	"excellent": 90,
}

// WeightTolerance is the permitted deviation of the weight sum from 1.0
// before normalization kicks in.
const WeightTolerance = 0.01

// Config holds the resolved evaluation configuration. It is constructed
// once per run and read-only afterward.
type Config struct {
	// Weights maps dimension names to their fraction of the overall grade.
	Weights map[string]float64

	// DisabledRules lists rule ids (or glob patterns) excluded from the
	// active catalog.
	DisabledRules []string

	// Thresholds maps named numeric cutoffs, e.g. "good" or "critical".
	Thresholds map[string]int

	// Languages is the set of supported source languages.
	Languages []string

	// Extra preserves unknown top-level keys from the source document.
	// Consumers ignore them; they survive round-trips.
	Extra map[string]interface{}

	// Source records which candidate document the configuration came from.
	Source string

	// Normalized is true when the weight sum violated the tolerance and
	// was corrected.
	Normalized bool
}

// Default returns the bundled default configuration.
func Default() *Config {
	return &Config{
		Weights:       copyWeights(defaultWeights),
		DisabledRules: nil,
		Thresholds:    copyThresholds(defaultThresholds),
		Languages:     append([]string(nil), defaultLanguages...),
		Source:        "default",
	}
}

// Threshold returns the named cutoff, falling back to the bundled default
// when the configuration omits it.
func (c *Config) Threshold(name string) int {
	if v, ok := c.Thresholds[name]; ok {
		return v
	}
	return defaultThresholds[name]
}

// SupportsLanguage reports whether language-specific rules run for the
// given detected language.
func (c *Config) SupportsLanguage(language string) bool {
	for _, lang := range c.Languages {
		if lang == language {
			return true
		}
	}
	return false
}

// WeightSum returns the current sum of all dimension weights.
func (c *Config) WeightSum() float64 {
	var sum float64
	for _, w := range c.Weights {
		sum += w
	}
	return sum
}

// normalizeWeights rescales the weight map so it sums to 1.0. Returns an
// error when the sum is zero or negative, which no rescaling can fix.
func (c *Config) normalizeWeights() error {
	sum := c.WeightSum()
	if sum <= 0 {
		return errors.Errorf("dimension weights sum to %v, cannot normalize", sum)
	}
	if math.Abs(sum-1.0) <= WeightTolerance {
		return nil
	}
	for name, w := range c.Weights {
		c.Weights[name] = w / sum
	}
	c.Normalized = true
	return nil
}

func copyWeights(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyThresholds(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func isKnownDimension(name string) bool {
	for _, dim := range Dimensions {
		if dim == name {
			return true
		}
	}
	return false
}
