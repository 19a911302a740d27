// Package rubric implements weighted-criteria scoring: each quality dimension
// is a set of named criteria, each criterion resolves to one of five ordinal
// levels, and the dimension score is the weighted average of the level scores.
package rubric

import (
	"fmt"
)

// Canonical level scores. Evaluators may define their own level names per
// criterion, but the score scale is fixed.
const (
	ScoreExcellent = 100.0
	ScoreGood      = 75.0
	ScoreFair      = 50.0
	ScorePoor      = 25.0
	ScoreMissing   = 0.0
)

// recommendationCutoff marks the level score below which a criterion's level
// description becomes a recommendation.
const recommendationCutoff = 50.0

// Level is one ordinal bucket a criterion can resolve to.
type Level struct {
	Name        string
	Score       float64
	Description string
}

// Levels builds the standard five-level ladder with custom names, highest
// first.
func Levels(excellent, good, fair, poor, missing string) []Level {
	return []Level{
		{Name: "excellent", Score: ScoreExcellent, Description: excellent},
		{Name: "good", Score: ScoreGood, Description: good},
		{Name: "fair", Score: ScoreFair, Description: fair},
		{Name: "poor", Score: ScorePoor, Description: poor},
		{Name: "missing", Score: ScoreMissing, Description: missing},
	}
}

// NamedLevels builds a five-level ladder with evaluator-specific level names.
func NamedLevels(names [5]string, descriptions [5]string) []Level {
	scores := [5]float64{ScoreExcellent, ScoreGood, ScoreFair, ScorePoor, ScoreMissing}
	levels := make([]Level, 5)
	for i := range levels {
		levels[i] = Level{Name: names[i], Score: scores[i], Description: descriptions[i]}
	}
	return levels
}

// Criterion is a named, weighted sub-check within a dimension.
type Criterion struct {
	Name        string
	Description string
	Weight      float64
	Levels      []Level
}

// Result is the outcome of scoring one rubric: the 0-100 score plus the
// evidence strings and recommendations extracted from each criterion.
type Result struct {
	Score           float64
	Findings        []string
	Recommendations []string
}

// EvaluateFunc resolves one criterion to a level name and an evidence string.
type EvaluateFunc func(c Criterion) (level string, evidence string)

// Scorer scores a dimension against its criteria. Criterion weights are
// normalized at construction so rubrics may be written with convenient
// fractions.
type Scorer struct {
	criteria []Criterion
}

// NewScorer normalizes the criteria weights and returns a Scorer.
func NewScorer(criteria []Criterion) *Scorer {
	total := 0.0
	for _, c := range criteria {
		total += c.Weight
	}

	normalized := make([]Criterion, len(criteria))
	copy(normalized, criteria)
	if total > 0 {
		for i := range normalized {
			normalized[i].Weight /= total
		}
	}

	return &Scorer{criteria: normalized}
}

// Evaluate resolves every criterion via fn and folds the level scores into a
// weighted total. An unrecognized level name scores zero with a "Not
// assessed" description; no criterion is ever silently dropped.
func (s *Scorer) Evaluate(fn EvaluateFunc) Result {
	var result Result

	for _, criterion := range s.criteria {
		levelName, evidence := fn(criterion)

		levelScore := 0.0
		levelDesc := "Not assessed"
		for _, level := range criterion.Levels {
			if level.Name == levelName {
				levelScore = level.Score
				levelDesc = level.Description
				break
			}
		}

		result.Score += levelScore * criterion.Weight
		result.Findings = append(result.Findings,
			fmt.Sprintf("%s: %s (%.0f%%) - %s", criterion.Name, levelName, levelScore, evidence))

		if levelScore < recommendationCutoff {
			result.Recommendations = append(result.Recommendations,
				fmt.Sprintf("%s: %s", criterion.Name, levelDesc))
		}
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}

	return result
}

// DimensionScore is one dimension's contribution to the overall grade.
type DimensionScore struct {
	Name            string   `json:"name"`
	Score           float64  `json:"score"`
	Weight          float64  `json:"weight"`
	Findings        []string `json:"findings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// WeightedScore is the dimension's contribution to the overall score.
func (d DimensionScore) WeightedScore() float64 {
	return d.Score * d.Weight
}
