// Package report aggregates dimension scores into the EvaluationReport,
// the single data contract every formatter and downstream consumer reads.
// The report is plain structured data so renderers need no knowledge of
// the evaluator's internals.
package report

import (
	"math"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/judge"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
	"github.com/jingkaihe/skillgrade/pkg/rules"
	"github.com/jingkaihe/skillgrade/pkg/skill"
)

// Validation is the structural pre-check outcome.
type Validation struct {
	Passed   bool     `json:"passed"`
	Problems []string `json:"problems,omitempty"`
}

// Recommendation is one actionable item attributed to a dimension.
type Recommendation struct {
	Dimension string `json:"dimension"`
	Message   string `json:"message"`
}

// Recommendations buckets actionable items by priority.
type Recommendations struct {
	Critical []Recommendation `json:"critical,omitempty"`
	High     []Recommendation `json:"high,omitempty"`
	Medium   []Recommendation `json:"medium,omitempty"`
}

// EvaluationReport is the complete result of one evaluation run. It is a
// pure function of the skill contents and configuration, so two runs over
// identical inputs serialize to identical bytes. Run identity (id and
// timestamp) belongs to the history store, not the report.
type EvaluationReport struct {
	SkillName    string `json:"skill_name"`
	SkillPath    string `json:"skill_path"`
	ConfigSource string `json:"config_source"`

	Validation Validation `json:"validation"`

	Dimensions       []rubric.DimensionScore `json:"dimensions"`
	TotalScore       float64                 `json:"total_score"`
	Grade            string                  `json:"grade"`
	GradeDescription string                  `json:"grade_description"`

	Recommendations Recommendations `json:"recommendations"`
	Strengths       []string        `json:"strengths,omitempty"`

	// Judge carries deep-evaluation verdicts and cost accounting when
	// the run used the judge; empty for static-only runs.
	Judge []judge.Result `json:"judge,omitempty"`
}

// Params carries everything Build needs.
type Params struct {
	Skill      *skill.Skill
	Config     *config.Config
	Dimensions []rubric.DimensionScore
	Findings   []rules.Finding
	Judge      []judge.Result
}

// Build folds the dimension scores into an EvaluationReport: weighted
// total, grade band, priority-bucketed recommendations deduplicated by
// message text, and strengths from excellent-band dimensions.
func Build(p Params) *EvaluationReport {
	problems := skill.Validate(p.Skill)

	total := 0.0
	for _, d := range p.Dimensions {
		total += d.WeightedScore()
	}
	total = round2(total)
	grade := GradeFromScore(total)

	r := &EvaluationReport{
		SkillName:        p.Skill.Name,
		SkillPath:        p.Skill.Directory,
		ConfigSource:     p.Config.Source,
		Validation:       Validation{Passed: len(problems) == 0, Problems: problems},
		Dimensions:       p.Dimensions,
		TotalScore:       total,
		Grade:            grade.Letter,
		GradeDescription: grade.Description,
		Recommendations:  categorize(p.Dimensions, p.Findings, p.Config),
		Strengths:        strengths(p.Dimensions, p.Config),
		Judge:            p.Judge,
	}
	return r
}

// categorize buckets dimension recommendations by priority. Security
// problems are critical whenever the security dimension sits below the
// good threshold or any error-severity finding exists; other dimensions
// below the good threshold are high priority; the rest are medium.
// Duplicate messages keep their first, highest-priority placement.
func categorize(dims []rubric.DimensionScore, findings []rules.Finding, cfg *config.Config) Recommendations {
	good := float64(cfg.Threshold("good"))

	hasErrorFinding := false
	for _, f := range findings {
		if f.Severity == rules.SeverityError {
			hasErrorFinding = true
			break
		}
	}

	var out Recommendations
	seen := make(map[string]bool)
	for _, d := range dims {
		for _, rec := range d.Recommendations {
			if seen[rec] {
				continue
			}
			seen[rec] = true

			item := Recommendation{Dimension: d.Name, Message: rec}
			switch {
			case d.Name == "security" && (d.Score < good || hasErrorFinding):
				out.Critical = append(out.Critical, item)
			case d.Score < good:
				out.High = append(out.High, item)
			default:
				out.Medium = append(out.Medium, item)
			}
		}
	}
	return out
}

// strengths surfaces dimensions in the excellent band as positive
// observations.
func strengths(dims []rubric.DimensionScore, cfg *config.Config) []string {
	excellent := float64(cfg.Threshold("excellent"))
	var out []string
	for _, d := range dims {
		if d.Score >= excellent {
			out = append(out, titleCase(d.Name)+" ("+formatScore(d.Score)+"/100)")
		}
	}
	return out
}

// titleCase renders a dimension name for humans: "trigger_design"
// becomes "Trigger Design".
func titleCase(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
