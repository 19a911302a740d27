package config

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	cfg := Default()

	assert.InDelta(t, 1.0, cfg.WeightSum(), WeightTolerance)
	assert.Len(t, cfg.Weights, len(Dimensions))
	for _, dim := range Dimensions {
		assert.Contains(t, cfg.Weights, dim)
	}
}

func TestResolveMissingConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Resolve(context.Background(), dir, "")
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Source)
	assert.False(t, cfg.Normalized)
	assert.InDelta(t, 1.0, cfg.WeightSum(), WeightTolerance)
}

func TestResolvePrimaryConfigFile(t *testing.T) {
	dir := t.TempDir()
	doc := `weights:
  content: 0.40
  security: 0.07
disabled_rules:
  - SEC001
  - SEC02*
thresholds:
  good: 75
languages: [python, bash]
custom_key: kept
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(doc), 0o644))

	cfg, err := Resolve(context.Background(), dir, "")
	require.NoError(t, err)

	assert.Equal(t, ConfigFileName, cfg.Source)
	assert.Equal(t, []string{"SEC001", "SEC02*"}, cfg.DisabledRules)
	assert.Equal(t, 75, cfg.Threshold("good"))
	assert.Equal(t, 30, cfg.Threshold("critical"), "omitted thresholds keep defaults")
	assert.Equal(t, []string{"python", "bash"}, cfg.Languages)
	assert.Contains(t, cfg.Extra, "custom_key")

	// Sum drifted from 1.0 after the overrides, so it gets normalized.
	assert.True(t, cfg.Normalized)
	assert.InDelta(t, 1.0, cfg.WeightSum(), WeightTolerance)
}

func TestResolveLegacyConfigName(t *testing.T) {
	dir := t.TempDir()
	doc := "disabled_checks: [SEC036]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, LegacyConfigFileName), []byte(doc), 0o644))

	cfg, err := Resolve(context.Background(), dir, "")
	require.NoError(t, err)

	assert.Equal(t, LegacyConfigFileName, cfg.Source)
	assert.Equal(t, []string{"SEC036"}, cfg.DisabledRules)
}

func TestResolvePrimaryWinsOverLegacy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("languages: [go]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, LegacyConfigFileName), []byte("languages: [python]\n"), 0o644))

	cfg, err := Resolve(context.Background(), dir, "")
	require.NoError(t, err)

	assert.Equal(t, ConfigFileName, cfg.Source)
	assert.Equal(t, []string{"go"}, cfg.Languages)
}

func TestResolveEnvOverride(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(override, []byte("languages: [bash]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("languages: [go]\n"), 0o644))

	t.Setenv(EnvConfigPath, override)

	cfg, err := Resolve(context.Background(), dir, "")
	require.NoError(t, err)

	assert.Equal(t, "env:"+EnvConfigPath, cfg.Source)
	assert.Equal(t, []string{"bash"}, cfg.Languages)
}

func TestResolveExplicitOverridePath(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(override, []byte("languages: [python]\n"), 0o644))

	cfg, err := Resolve(context.Background(), dir, override)
	require.NoError(t, err)

	assert.Equal(t, override, cfg.Source)
	assert.Equal(t, []string{"python"}, cfg.Languages)
}

func TestResolveMalformedDocumentFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("weights: [not: a: map\n"), 0o644))

	cfg, err := Resolve(context.Background(), dir, "")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cfg.WeightSum(), WeightTolerance)
}

func TestUnknownWeightKeysIgnored(t *testing.T) {
	cfg, err := merge(map[string]interface{}{
		"weights": map[string]interface{}{
			"content":   0.5,
			"nonsense":  0.2,
			"security":  0.3,
			"structure": 0.2,
		},
	})
	require.NoError(t, err)

	assert.NotContains(t, cfg.Weights, "nonsense")
	assert.Equal(t, 0.5, cfg.Weights["content"])
}

func TestParseSimpleYAML(t *testing.T) {
	doc := `# evaluation configuration
weights:
  content: 0.25     # prose quality
  security: 2e-1
  structure: 0.15
enabled: true
missing: null
tilde: ~
count: 42
name: "quoted # not a comment"
languages: [python, go]
empty: []
`
	data := parseSimpleYAML(doc)

	weights, ok := data["weights"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 0.25, weights["content"])
	assert.Equal(t, 0.2, weights["security"])
	assert.Equal(t, 0.15, weights["structure"])

	assert.Equal(t, true, data["enabled"])
	assert.Nil(t, data["missing"])
	assert.Nil(t, data["tilde"])
	assert.Equal(t, 42, data["count"])
	assert.Equal(t, "quoted # not a comment", data["name"])
	assert.Equal(t, []interface{}{"python", "go"}, data["languages"])
	assert.Equal(t, []interface{}{}, data["empty"])
}

func TestParseSimpleYAMLNestedIndentation(t *testing.T) {
	doc := `outer:
  inner:
    deep: 1
  sibling: 2
top: 3
`
	data := parseSimpleYAML(doc)

	outer := data["outer"].(map[string]interface{})
	inner := outer["inner"].(map[string]interface{})
	assert.Equal(t, 1, inner["deep"])
	assert.Equal(t, 2, outer["sibling"])
	assert.Equal(t, 3, data["top"])
}

func TestNormalizeWeights(t *testing.T) {
	cfg := Default()
	cfg.Weights["content"] = 0.9

	require.NoError(t, cfg.normalizeWeights())
	assert.True(t, cfg.Normalized)
	assert.InDelta(t, 1.0, cfg.WeightSum(), 1e-9)
}

func TestNormalizeWeightsZeroSum(t *testing.T) {
	cfg := Default()
	for k := range cfg.Weights {
		cfg.Weights[k] = 0
	}

	assert.Error(t, cfg.normalizeWeights())
}

func TestNormalizeWithinToleranceLeavesWeights(t *testing.T) {
	cfg := Default()
	cfg.Weights["content"] += 0.005

	before := copyWeights(cfg.Weights)
	require.NoError(t, cfg.normalizeWeights())
	assert.False(t, cfg.Normalized)
	for k, v := range before {
		assert.True(t, math.Abs(cfg.Weights[k]-v) < 1e-12)
	}
}
