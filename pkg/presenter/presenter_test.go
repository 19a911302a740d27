package presenter

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	presenter := New()
	assert.NotNil(t, presenter)
	assert.Equal(t, os.Stdout, presenter.output)
	assert.Equal(t, os.Stderr, presenter.errorOutput)
	assert.False(t, presenter.quiet)
}

func TestNewWithOptions(t *testing.T) {
	var output, errorOutput bytes.Buffer
	presenter := NewWithOptions(&output, &errorOutput, ColorNever)

	assert.Equal(t, &output, presenter.output)
	assert.Equal(t, &errorOutput, presenter.errorOutput)
	assert.Equal(t, ColorNever, presenter.colorMode)
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name     string
		noColor  string
		envColor string
		expected ColorMode
	}{
		{"NO_COLOR set", "1", "", ColorNever},
		{"SKILLGRADE_COLOR always", "", "always", ColorAlways},
		{"SKILLGRADE_COLOR force", "", "force", ColorAlways},
		{"SKILLGRADE_COLOR never", "", "never", ColorNever},
		{"SKILLGRADE_COLOR off", "", "off", ColorNever},
		{"SKILLGRADE_COLOR auto", "", "auto", ColorAuto},
		{"default", "", "", ColorAuto},
		{"invalid value", "", "invalid", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("NO_COLOR")
			os.Unsetenv("SKILLGRADE_COLOR")

			if tt.noColor != "" {
				os.Setenv("NO_COLOR", tt.noColor)
			}
			if tt.envColor != "" {
				os.Setenv("SKILLGRADE_COLOR", tt.envColor)
			}

			result := detectColorMode()
			assert.Equal(t, tt.expected, result)

			os.Unsetenv("NO_COLOR")
			os.Unsetenv("SKILLGRADE_COLOR")
		})
	}
}

func TestError(t *testing.T) {
	var errorOutput bytes.Buffer
	presenter := NewWithOptions(nil, &errorOutput, ColorNever)

	err := errors.New("skill path does not exist")
	presenter.Error(err, "evaluation failed")

	output := errorOutput.String()
	assert.Contains(t, output, "[ERROR]")
	assert.Contains(t, output, "evaluation failed")
	assert.Contains(t, output, "skill path does not exist")

	errorOutput.Reset()
	presenter.Error(err, "")

	output = errorOutput.String()
	assert.Contains(t, output, "[ERROR]")
	assert.NotContains(t, output, "evaluation failed")

	errorOutput.Reset()
	presenter.Error(nil, "context")
	assert.Empty(t, errorOutput.String())
}

func TestSuccessAndQuietMode(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Success("skill packaged")
	assert.Contains(t, output.String(), "✓")
	assert.Contains(t, output.String(), "skill packaged")

	output.Reset()
	presenter.SetQuiet(true)
	presenter.Success("skill packaged")
	assert.Empty(t, output.String())
	assert.True(t, presenter.IsQuiet())
}

func TestWarning(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Warning("weights normalized")

	result := output.String()
	assert.Contains(t, result, "⚠")
	assert.Contains(t, result, "weights normalized")
}

func TestSection(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Section("Recommendations")

	result := output.String()
	assert.Contains(t, result, "Recommendations")
	assert.Contains(t, result, "---------------")
}

func TestStats(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Stats(&CostStats{
		InputTokens:   1200,
		OutputTokens:  340,
		EstimatedCost: 0.0123,
		Passes:        3,
		Consistency:   92.5,
	})

	result := output.String()
	assert.Contains(t, result, "Input tokens: 1200")
	assert.Contains(t, result, "Passes: 3")
	assert.Contains(t, result, "$0.0123")
	assert.Contains(t, result, "92.5%")

	output.Reset()
	presenter.Stats(nil)
	assert.Empty(t, output.String())
}
