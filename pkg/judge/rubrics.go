package judge

import (
	"github.com/jingkaihe/skillgrade/pkg/rubric"
)

// Judge rubrics carry a sixth "unknown" escape level at a neutral 50 so
// the model can decline to grade instead of guessing.

var instructionClarityRubric = rubric.Criterion{
	Name:        "instruction_clarity",
	Description: "How clear, specific, and unambiguous the skill instructions are",
	Weight:      1.0,
	Levels: []rubric.Level{
		{Name: "excellent", Score: 100, Description: "Instructions are crystal clear with specific examples, exact triggers, and unambiguous guidance. No interpretation needed."},
		{Name: "good", Score: 75, Description: "Instructions are mostly clear with good detail. Minor vagueness in some areas but overall understandable."},
		{Name: "fair", Score: 50, Description: "Instructions are somewhat unclear in places. Some interpretation required to understand expected behavior."},
		{Name: "poor", Score: 25, Description: "Instructions are confusing or incomplete. Multiple interpretations possible; guidance is vague or missing key details."},
		{Name: "missing", Score: 0, Description: "Instructions are absent or completely unclear. Cannot determine what the skill does or how to use it."},
		{Name: "unknown", Score: 50, Description: "Cannot determine due to missing context or skill content. Grading skipped, requires manual review."},
	},
}

var valueAddRubric = rubric.Criterion{
	Name:        "value_add",
	Description: "How much beyond base capability the skill provides",
	Weight:      1.0,
	Levels: []rubric.Level{
		{Name: "exceptional", Score: 100, Description: "Skill provides unique, hard-to-build capabilities that would require significant expertise to replicate. Substantially extends the assistant's base abilities."},
		{Name: "significant", Score: 75, Description: "Skill adds notable value beyond the assistant's defaults. Provides useful abstractions or workflows that save substantial effort."},
		{Name: "moderate", Score: 50, Description: "Skill provides some value but overlaps with existing capabilities. Offers convenience or organization but not unique power."},
		{Name: "minimal", Score: 25, Description: "Skill offers minimal value beyond what the assistant already does well. Mostly reorganizes basic functionality."},
		{Name: "none", Score: 0, Description: "Skill provides no apparent value. Content could be replaced by standard interactions without loss."},
		{Name: "unknown", Score: 50, Description: "Cannot assess value due to missing context or skill content. Grading skipped, requires manual review."},
	},
}

// rubricFor returns the judge rubric for a dimension.
func rubricFor(dimension string) (rubric.Criterion, bool) {
	switch dimension {
	case "instruction_clarity":
		return instructionClarityRubric, true
	case "value_add":
		return valueAddRubric, true
	}
	return rubric.Criterion{}, false
}
