package dimensions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
)

// neutralScore is used when the dimension does not apply (no scripts to
// grade); it neither rewards nor punishes.
const neutralScore = 50.0

var (
	typeHintPattern   = regexp.MustCompile(`(?m)def\s+\w+\([^)]*:\s*[\w\[]|->\s*[\w\[]`)
	bareExceptPattern = regexp.MustCompile(`(?m)^\s*except\s*:`)
)

var codeQualityScorer = rubric.NewScorer([]rubric.Criterion{
	{
		Name:        "error_handling",
		Description: "Scripts have proper try/except error handling",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "All scripts have error handling"),
			level("good", rubric.ScoreGood, "Most scripts have error handling"),
			level("fair", rubric.ScoreFair, "Some scripts have error handling"),
			level("poor", rubric.ScorePoor, "Few scripts have error handling"),
			level("none", rubric.ScoreMissing, "No scripts have error handling"),
		},
	},
	{
		Name:        "main_guard",
		Description: "Scripts have __name__ == \"__main__\" guard",
		Weight:      0.20,
		Levels: []rubric.Level{
			level("complete", rubric.ScoreExcellent, "All scripts have main guard"),
			level("good", rubric.ScoreGood, "Most scripts have main guard"),
			level("partial", rubric.ScoreFair, "Some scripts have main guard"),
			level("minimal", rubric.ScorePoor, "Few scripts have main guard"),
			level("none", rubric.ScoreMissing, "No scripts have main guard"),
		},
	},
	{
		Name:        "type_hints",
		Description: "Functions and variables use type annotations",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("complete", rubric.ScoreExcellent, "All scripts have comprehensive type hints"),
			level("good", rubric.ScoreGood, "Most scripts have type hints"),
			level("fair", rubric.ScoreFair, "Some scripts have type hints"),
			level("minimal", rubric.ScorePoor, "Few scripts have type hints"),
			level("none", rubric.ScoreMissing, "No type hints present"),
		},
	},
	{
		Name:        "documentation",
		Description: "Scripts have docstrings and comments",
		Weight:      0.20,
		Levels: []rubric.Level{
			level("well_documented", rubric.ScoreExcellent, "All scripts have docstrings"),
			level("good", rubric.ScoreGood, "Most scripts have docstrings"),
			level("fair", rubric.ScoreFair, "Some scripts have docstrings"),
			level("minimal", rubric.ScorePoor, "Few scripts have docstrings"),
			level("none", rubric.ScoreMissing, "No docstrings present"),
		},
	},
})

// CodeQuality scores the hygiene of bundled Python scripts. Skills without
// scripts get a neutral score rather than a penalty.
func CodeQuality(in Input, cfg *config.Config) rubric.DimensionScore {
	sk := in.Skill
	if !sk.Structure.HasScripts {
		return rubric.DimensionScore{
			Name:     "code_quality",
			Score:    neutralScore,
			Weight:   cfg.Weights["code_quality"],
			Findings: []string{"No scripts directory"},
		}
	}

	scripts := pythonScripts(sk)
	if len(scripts) == 0 {
		return rubric.DimensionScore{
			Name:     "code_quality",
			Score:    neutralScore,
			Weight:   cfg.Weights["code_quality"],
			Findings: []string{"No Python scripts found"},
		}
	}

	scriptCount := len(scripts)
	withErrorHandling := 0
	withMainGuard := 0
	withTypeHints := 0
	withDocstrings := 0
	bareExcepts := 0
	for _, f := range scripts {
		if strings.Contains(f.Content, "try:") {
			withErrorHandling++
		}
		if strings.Contains(f.Content, `__name__ == "__main__"`) {
			withMainGuard++
		}
		if typeHintPattern.MatchString(f.Content) {
			withTypeHints++
		}
		if strings.Contains(f.Content, `"""`) || strings.Contains(f.Content, "'''") {
			withDocstrings++
		}
		bareExcepts += countMatches(bareExceptPattern, f.Content)
	}

	res := codeQualityScorer.Evaluate(func(c rubric.Criterion) (string, string) {
		switch c.Name {
		case "error_handling":
			names := [5]string{"excellent", "good", "fair", "poor", "none"}
			return coverageLevel(withErrorHandling, scriptCount, names, "scripts have error handling")
		case "main_guard":
			names := [5]string{"complete", "good", "partial", "minimal", "none"}
			return coverageLevel(withMainGuard, scriptCount, names, "scripts have main guard")
		case "type_hints":
			names := [5]string{"complete", "good", "fair", "minimal", "none"}
			return coverageLevel(withTypeHints, scriptCount, names, "scripts have type hints")
		case "documentation":
			names := [5]string{"well_documented", "good", "fair", "minimal", "none"}
			return coverageLevel(withDocstrings, scriptCount, names, "scripts have docstrings")
		}
		return "none", "Unknown criterion"
	})

	score := finish("code_quality", cfg, res, "Code quality is good")
	if bareExcepts > 0 {
		score.Findings = append(score.Findings, fmt.Sprintf("Found %d bare except clauses", bareExcepts))
	}
	return score
}

// coverageLevel buckets a covered/total ratio into the five ordinal levels.
func coverageLevel(covered, total int, names [5]string, what string) (string, string) {
	ratio := float64(covered) / float64(total)
	evidence := fmt.Sprintf("%d/%d %s", covered, total, what)
	switch {
	case ratio == 1.0:
		return names[0], evidence
	case ratio >= 0.75:
		return names[1], evidence
	case ratio >= 0.5:
		return names[2], evidence
	case ratio >= 0.25:
		return names[3], evidence
	}
	return names[4], evidence
}
