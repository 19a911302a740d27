package dimensions

import (
	"fmt"
	"path"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
	"github.com/jingkaihe/skillgrade/pkg/skill"
)

const pythonShebang = "#!/usr/bin/env python3"

var bestPracticesScorer = rubric.NewScorer([]rubric.Criterion{
	{
		Name:        "naming_convention",
		Description: "Hyphen-case naming in frontmatter",
		Weight:      0.25,
		Levels: []rubric.Level{
			level("perfect", rubric.ScoreExcellent, "Name follows hyphen-case [a-z0-9-]+ perfectly"),
			level("good", rubric.ScoreGood, "Name mostly hyphen-case with minor issues"),
			level("fair", rubric.ScoreFair, "Name has multiple hyphen issues"),
			level("poor", rubric.ScorePoor, "Name does not follow hyphen-case"),
		},
	},
	{
		Name:        "documentation_completeness",
		Description: "Description length and 'when to use' guidance",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("complete", rubric.ScoreExcellent, "Good description (20-1024 chars) with 'when to use'"),
			level("good", rubric.ScoreGood, "Good description length"),
			level("fair", rubric.ScoreFair, "Description present but missing 'when to use'"),
			level("poor", rubric.ScorePoor, "Description too short/long or missing"),
		},
	},
	{
		Name:        "todo_resolution",
		Description: "Absence of TODO placeholders",
		Weight:      0.25,
		Levels: []rubric.Level{
			level("clean", rubric.ScoreExcellent, "No TODO placeholders"),
			level("minor", rubric.ScoreGood, "1-2 TODOs present"),
			level("moderate", rubric.ScoreFair, "3-4 TODOs present"),
			level("extensive", rubric.ScorePoor, "5+ TODOs present"),
		},
	},
	{
		Name:        "script_best_practices",
		Description: "Python scripts follow best practices (shebang, imports)",
		Weight:      0.20,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "All scripts have shebang and __future__ imports"),
			level("good", rubric.ScoreGood, "Most scripts follow best practices"),
			level("fair", rubric.ScoreFair, "Some scripts have shebang but missing __future__ imports"),
			level("poor", rubric.ScorePoor, "Scripts missing basic best practices"),
			level("none", rubric.ScoreMissing, "No scripts directory"),
		},
	},
})

// BestPractices scores naming, description guidance, unresolved TODOs, and
// script hygiene.
func BestPractices(in Input, cfg *config.Config) rubric.DimensionScore {
	sk := in.Skill
	if !hasDocument(sk) {
		return absent("best_practices", cfg, "SKILL.md not found", "Create SKILL.md")
	}

	document := sk.Document()
	name := frontmatterString(sk, "name")
	description := frontmatterString(sk, "description")
	todoCount := strings.Count(document, "TODO:")

	scripts := pythonScripts(sk)
	scriptCount := len(scripts)
	withShebang := 0
	withFuture := 0
	for _, f := range scripts {
		if strings.HasPrefix(f.Content, pythonShebang) {
			withShebang++
		}
		if strings.Contains(f.Content, "from __future__ import") {
			withFuture++
		}
	}

	res := bestPracticesScorer.Evaluate(func(c rubric.Criterion) (string, string) {
		switch c.Name {
		case "naming_convention":
			if name == "" {
				return "poor", "No name in frontmatter"
			}
			isValid := hyphenCaseName.MatchString(name)
			badHyphens := strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") || strings.Contains(name, "--")
			switch {
			case isValid && !badHyphens:
				return "perfect", fmt.Sprintf("'%s' follows hyphen-case", name)
			case isValid:
				return "good", fmt.Sprintf("'%s' mostly valid", name)
			}
			return "poor", fmt.Sprintf("'%s' does not follow hyphen-case", name)
		case "documentation_completeness":
			hasWhenToUse := strings.Contains(strings.ToLower(document), "when to use")
			descLen := len(description)
			switch {
			case descLen >= 20 && descLen <= 1024 && hasWhenToUse:
				return "complete", "Good description with 'when to use'"
			case descLen >= 20 && descLen <= 1024:
				return "good", "Good description length"
			case descLen > 0:
				return "fair", fmt.Sprintf("Description present (%d chars)", descLen)
			}
			return "poor", "No description"
		case "todo_resolution":
			switch {
			case todoCount == 0:
				return "clean", "No TODO placeholders"
			case todoCount <= 2:
				return "minor", fmt.Sprintf("%d TODO(s)", todoCount)
			case todoCount <= 4:
				return "moderate", fmt.Sprintf("%d TODOs", todoCount)
			}
			return "extensive", fmt.Sprintf("%d TODOs", todoCount)
		case "script_best_practices":
			if scriptCount == 0 {
				return "none", "No scripts directory"
			}
			shebangRatio := float64(withShebang) / float64(scriptCount)
			futureRatio := float64(withFuture) / float64(scriptCount)
			switch {
			case shebangRatio == 1.0 && futureRatio == 1.0:
				return "excellent", "All scripts follow best practices"
			case shebangRatio >= 0.5:
				return "good", fmt.Sprintf("%d/%d have shebang", withShebang, scriptCount)
			case shebangRatio > 0:
				return "fair", "Some scripts have shebang"
			}
			return "poor", "Scripts missing best practices"
		}
		return "poor", "Unknown criterion"
	})

	return finish("best_practices", cfg, res, "Follows best practices")
}

// pythonScripts returns the top-level Python files under scripts/, skipping
// package markers.
func pythonScripts(sk *skill.Skill) []skill.File {
	var out []skill.File
	for _, f := range sk.Files {
		if !strings.HasPrefix(f.Path, "scripts/") || strings.Count(f.Path, "/") != 1 {
			continue
		}
		base := path.Base(f.Path)
		if path.Ext(base) != ".py" || base == "__init__.py" {
			continue
		}
		out = append(out, f)
	}
	return out
}
