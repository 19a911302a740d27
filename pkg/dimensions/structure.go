package dimensions

import (
	"fmt"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
)

var structureScorer = rubric.NewScorer([]rubric.Criterion{
	{
		Name:        "skill_md_presence",
		Description: "Presence and completeness of SKILL.md",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("complete", rubric.ScoreExcellent, "SKILL.md exists with all required sections"),
			level("present", rubric.ScoreGood, "SKILL.md exists but missing some sections"),
			level("minimal", rubric.ScoreFair, "SKILL.md exists with minimal content"),
			level("missing", rubric.ScoreMissing, "SKILL.md is missing"),
		},
	},
	{
		Name:        "progressive_disclosure",
		Description: "Quick Start and Overview sections for progressive disclosure",
		Weight:      0.40,
		Levels: []rubric.Level{
			level("complete", rubric.ScoreExcellent, "Has both Quick Start and Overview sections"),
			level("good", rubric.ScoreGood, "Has Quick Start section"),
			level("fair", rubric.ScoreFair, "Has Overview section but no Quick Start"),
			level("poor", rubric.ScorePoor, "Missing both Quick Start and Overview"),
			level("none", rubric.ScoreMissing, "SKILL.md missing or empty"),
		},
	},
	{
		Name:        "heading_hierarchy",
		Description: "Proper heading hierarchy and structure",
		Weight:      0.15,
		Levels: []rubric.Level{
			level("proper", rubric.ScoreExcellent, "Headings follow proper hierarchy (starts with # or ##)"),
			level("acceptable", rubric.ScoreGood, "Headings present but minor hierarchy issues"),
			level("deep_start", rubric.ScoreFair, "Content starts with deep heading (### or lower)"),
			level("missing", rubric.ScorePoor, "No clear heading structure"),
		},
	},
	{
		Name:        "resource_directories",
		Description: "Supporting directories (scripts/, references/, assets/)",
		Weight:      0.15,
		Levels: []rubric.Level{
			level("complete", rubric.ScoreExcellent, "Has scripts/, references/, and assets/ directories"),
			level("good", rubric.ScoreGood, "Has two resource directories"),
			level("adequate", rubric.ScoreFair, "Has one resource directory"),
			level("minimal", rubric.ScorePoor, "Has only incidental resources"),
			level("none", rubric.ScoreMissing, "No resource directories"),
		},
	},
})

// Structure scores directory conventions and the document's structural
// skeleton.
func Structure(in Input, cfg *config.Config) rubric.DimensionScore {
	sk := in.Skill
	documentPresent := hasDocument(sk)
	document := sk.Document()

	hasQuickStart := documentPresent && quickStartHeading.MatchString(document)
	hasOverview := documentPresent && overviewHeading.MatchString(document)

	var headingLevels []int
	if documentPresent {
		for _, line := range strings.Split(document, "\n") {
			if !strings.HasPrefix(line, "#") {
				continue
			}
			depth := len(line) - len(strings.TrimLeft(line, "#"))
			if depth <= 3 {
				headingLevels = append(headingLevels, depth)
			}
		}
	}

	res := structureScorer.Evaluate(func(c rubric.Criterion) (string, string) {
		switch c.Name {
		case "skill_md_presence":
			if documentPresent {
				return "present", "SKILL.md exists"
			}
			return "missing", "SKILL.md is missing"
		case "progressive_disclosure":
			switch {
			case !documentPresent:
				return "none", "SKILL.md missing"
			case hasQuickStart && hasOverview:
				return "complete", "Has Quick Start and Overview"
			case hasQuickStart:
				return "good", "Has Quick Start"
			case hasOverview:
				return "fair", "Has Overview but no Quick Start"
			}
			return "poor", "Missing progressive disclosure sections"
		case "heading_hierarchy":
			if len(headingLevels) == 0 {
				return "missing", "No heading structure"
			}
			switch {
			case headingLevels[0] > 3:
				return "deep_start", fmt.Sprintf("Starts with level %d heading", headingLevels[0])
			case headingLevels[0] > 2:
				return "acceptable", fmt.Sprintf("Starts with level %d heading", headingLevels[0])
			}
			return "proper", "Good heading hierarchy"
		case "resource_directories":
			dirs := 0
			for _, present := range []bool{sk.Structure.HasScripts, sk.Structure.HasReferences, sk.Structure.HasAssets} {
				if present {
					dirs++
				}
			}
			switch dirs {
			case 3:
				return "complete", "Has scripts/, references/, assets/"
			case 2:
				return "good", "Has 2 resource directories"
			case 1:
				return "adequate", "Has 1 resource directory"
			}
			return "none", "No resource directories"
		}
		return "missing", "Unknown criterion"
	})

	return finish("structure", cfg, res, "Structure is well-organized")
}
