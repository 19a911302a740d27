package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoCriteria() []Criterion {
	return []Criterion{
		{
			Name:        "description_quality",
			Description: "Quality of the skill description",
			Weight:      0.30,
			Levels:      Levels("Clear and specific", "Clear but generic", "Vague", "Minimal", "No description"),
		},
		{
			Name:        "body_length",
			Description: "Instruction body has substance",
			Weight:      0.70,
			Levels:      Levels("Thorough", "Adequate", "Thin", "Stub", "Empty"),
		},
	}
}

func TestEvaluateWeightedAverage(t *testing.T) {
	scorer := NewScorer(twoCriteria())

	result := scorer.Evaluate(func(c Criterion) (string, string) {
		switch c.Name {
		case "description_quality":
			return "excellent", "description is 80 chars with trigger phrases"
		default:
			return "fair", "body is 300 words"
		}
	})

	// 100*0.3 + 50*0.7
	assert.InDelta(t, 65.0, result.Score, 0.001)
	require.Len(t, result.Findings, 2)
	assert.Equal(t, "description_quality: excellent (100%) - description is 80 chars with trigger phrases", result.Findings[0])

	// Only the fair criterion falls below the recommendation cutoff.
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "body_length: Thin", result.Recommendations[0])
}

func TestEvaluateNormalizesWeights(t *testing.T) {
	criteria := twoCriteria()
	criteria[0].Weight = 3
	criteria[1].Weight = 7

	result := NewScorer(criteria).Evaluate(func(c Criterion) (string, string) {
		return "excellent", "ok"
	})

	assert.InDelta(t, 100.0, result.Score, 0.001)
	assert.Empty(t, result.Recommendations)
}

func TestEvaluateUnknownLevel(t *testing.T) {
	result := NewScorer(twoCriteria()).Evaluate(func(c Criterion) (string, string) {
		return "superb", "not a real level"
	})

	assert.Equal(t, 0.0, result.Score)
	require.Len(t, result.Recommendations, 2)
	assert.Contains(t, result.Recommendations[0], "Not assessed")
}

func TestNamedLevels(t *testing.T) {
	levels := NamedLevels(
		[5]string{"clean", "minor", "moderate", "significant", "critical"},
		[5]string{"no issues", "1 issue", "2-3 issues", "4-5 issues", "many issues"},
	)

	require.Len(t, levels, 5)
	assert.Equal(t, "clean", levels[0].Name)
	assert.Equal(t, ScoreExcellent, levels[0].Score)
	assert.Equal(t, "critical", levels[4].Name)
	assert.Equal(t, ScoreMissing, levels[4].Score)
}

func TestWeightedScore(t *testing.T) {
	d := DimensionScore{Name: "security", Score: 80, Weight: 0.17}
	assert.InDelta(t, 13.6, d.WeightedScore(), 0.001)
}
