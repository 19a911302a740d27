// Package dimensions implements the rubric dimension evaluators. Each
// evaluator is a pure function mapping an immutable evaluation input to one
// DimensionScore; no evaluator mutates shared state, so callers may run them
// in any order or in parallel.
package dimensions

import (
	"regexp"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
	"github.com/jingkaihe/skillgrade/pkg/rules"
	"github.com/jingkaihe/skillgrade/pkg/skill"
)

// Input is the read-only snapshot every evaluator receives. Findings come
// from the rule engine and are only consumed by the security dimension.
type Input struct {
	Skill    *skill.Skill
	Findings []rules.Finding
}

// EvalFunc scores one dimension.
type EvalFunc func(in Input, cfg *config.Config) rubric.DimensionScore

var evaluators = map[string]EvalFunc{
	"frontmatter":          Frontmatter,
	"content":              Content,
	"security":             Security,
	"structure":            Structure,
	"trigger_design":       TriggerDesign,
	"instruction_clarity":  InstructionClarity,
	"value_add":            ValueAdd,
	"behavioral_readiness": BehavioralReadiness,
	"efficiency":           Efficiency,
	"best_practices":       BestPractices,
	"code_quality":         CodeQuality,
}

// EvaluateAll scores every dimension in report order. Every dimension always
// produces a score; a failure inside one evaluator never drops it from the
// report.
func EvaluateAll(in Input, cfg *config.Config) []rubric.DimensionScore {
	scores := make([]rubric.DimensionScore, 0, len(config.Dimensions))
	for _, name := range config.Dimensions {
		fn, ok := evaluators[name]
		if !ok {
			continue
		}
		scores = append(scores, fn(in, cfg))
	}
	return scores
}

// Evaluate scores a single named dimension. The second return is false when
// the name is unknown.
func Evaluate(name string, in Input, cfg *config.Config) (rubric.DimensionScore, bool) {
	fn, ok := evaluators[name]
	if !ok {
		return rubric.DimensionScore{}, false
	}
	return fn(in, cfg), true
}

func level(name string, score float64, description string) rubric.Level {
	return rubric.Level{Name: name, Score: score, Description: description}
}

// finish folds a rubric result into a DimensionScore, substituting the
// dimension's "all good" message when no recommendations accrued.
func finish(name string, cfg *config.Config, res rubric.Result, okMessage string) rubric.DimensionScore {
	recommendations := res.Recommendations
	if len(recommendations) == 0 {
		recommendations = []string{okMessage}
	}
	return rubric.DimensionScore{
		Name:            name,
		Score:           res.Score,
		Weight:          cfg.Weights[name],
		Findings:        res.Findings,
		Recommendations: recommendations,
	}
}

// absent is the conservative zero score used when the instruction document
// is missing entirely.
func absent(name string, cfg *config.Config, finding, recommendation string) rubric.DimensionScore {
	return rubric.DimensionScore{
		Name:            name,
		Score:           0,
		Weight:          cfg.Weights[name],
		Findings:        []string{finding},
		Recommendations: []string{recommendation},
	}
}

func hasDocument(sk *skill.Skill) bool {
	for _, f := range sk.Files {
		if f.Path == skill.DocumentName {
			return true
		}
	}
	return false
}

func frontmatterString(sk *skill.Skill, key string) string {
	if sk.Frontmatter == nil {
		return ""
	}
	if v, ok := sk.Frontmatter[key].(string); ok {
		return v
	}
	return ""
}

func countMatches(re *regexp.Regexp, s string) int {
	return len(re.FindAllStringIndex(s, -1))
}

func anyMatches(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func sumMatches(res []*regexp.Regexp, s string) int {
	total := 0
	for _, re := range res {
		total += countMatches(re, s)
	}
	return total
}
