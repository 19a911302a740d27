package dimensions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
)

var (
	overviewHeading   = regexp.MustCompile(`(?im)^#{1,3}\s+Overview`)
	exampleHeading    = regexp.MustCompile(`(?im)^#{1,3}\s+Example`)
	whenToUseHeading  = regexp.MustCompile(`(?im)^#{1,3}\s+(When to use|Usage)`)
	quickStartHeading = regexp.MustCompile(`(?im)^#{1,3}\s+Quick\s+Start`)
	workflowHeading   = regexp.MustCompile(`(?im)^#{1,3}\s+(workflow|Workflows|Usage|When to use)`)
	externalLinkLine  = regexp.MustCompile(`(?m)^\s*\[.*?\]\(.*?\)\s*$`)

	workflowStepPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)step\s+\d+`),
		regexp.MustCompile(`\d+\.\s+`),
		regexp.MustCompile(`- \[\*`),
	}
)

// workflowWindow bounds how far past the workflow heading the quality check
// looks.
const workflowWindow = 2000

var contentScorer = rubric.NewScorer([]rubric.Criterion{
	{
		Name:        "content_length",
		Description: "Appropriateness of content length",
		Weight:      0.20,
		Levels: []rubric.Level{
			level("optimal", rubric.ScoreExcellent, "Content is 20-500 lines with comprehensive details"),
			level("adequate", rubric.ScoreGood, "Content is 10-20 lines with basic information"),
			level("brief", rubric.ScoreFair, "Content is <10 lines but has essential information"),
			level("minimal", rubric.ScorePoor, "Content exceeds 500 lines, consider splitting"),
			level("empty", rubric.ScoreMissing, "Content is essentially empty"),
		},
	},
	{
		Name:        "core_sections",
		Description: "Presence of Overview, Examples, and Workflow/When to Use sections",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("complete", rubric.ScoreExcellent, "Has Overview, Examples, and Workflow/When to Use sections"),
			level("good", rubric.ScoreGood, "Has two of the three core sections"),
			level("fair", rubric.ScoreFair, "Has only one core section"),
			level("poor", rubric.ScorePoor, "Has Overview but missing Examples and Workflow"),
			level("missing", rubric.ScoreMissing, "Missing core sections entirely"),
		},
	},
	{
		Name:        "workflow_quality",
		Description: "Quality of workflow/usage guidance within SKILL.md",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Substantive workflow with numbered steps, checklists, or detailed guidance"),
			level("good", rubric.ScoreGood, "Has workflow section with meaningful content (not just links)"),
			level("acceptable", rubric.ScoreFair, "Has workflow section with basic details"),
			level("minimal", rubric.ScorePoor, "Has 'When to use' guidance but no detailed workflow"),
			level("external_only", rubric.ScoreMissing, "Workflow only references external files"),
		},
	},
	{
		Name:        "documentation_completeness",
		Description: "Presence of Quick Start, examples, and absence of TODO placeholders",
		Weight:      0.20,
		Levels: []rubric.Level{
			level("complete", rubric.ScoreExcellent, "Has Quick Start, Examples, code blocks, and no TODOs"),
			level("good", rubric.ScoreGood, "Has Quick Start and Examples with minimal TODOs"),
			level("fair", rubric.ScoreFair, "Has Quick Start OR Examples but not both"),
			level("poor", rubric.ScorePoor, "Missing both Quick Start and Examples"),
			level("incomplete", rubric.ScoreMissing, "Contains unresolved TODOs and missing essential sections"),
		},
	},
})

// Content scores the instruction body's completeness: length, core sections,
// workflow guidance, and documentation gaps.
func Content(in Input, cfg *config.Config) rubric.DimensionScore {
	sk := in.Skill
	if !hasDocument(sk) {
		return absent("content", cfg, "SKILL.md not found", "Create SKILL.md with comprehensive content")
	}

	body := sk.Body
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	hasOverview := overviewHeading.MatchString(body)
	hasExamples := exampleHeading.MatchString(body) || strings.Contains(body, "```")
	hasWhenToUse := whenToUseHeading.MatchString(body)
	hasQuickStart := quickStartHeading.MatchString(body)
	hasTodo := strings.Contains(sk.Document(), "[TODO:")

	res := contentScorer.Evaluate(func(c rubric.Criterion) (string, string) {
		switch c.Name {
		case "content_length":
			n := len(lines)
			switch {
			case n >= 20 && n <= 500:
				return "optimal", fmt.Sprintf("%d lines (appropriate length)", n)
			case n >= 10 && n < 20:
				return "adequate", fmt.Sprintf("%d lines (brief but present)", n)
			case n < 10:
				return "brief", fmt.Sprintf("%d lines (very minimal)", n)
			case n > 500:
				return "minimal", fmt.Sprintf("%d lines (excessive, consider splitting)", n)
			}
			return "empty", "no content"
		case "core_sections":
			sections := 0
			for _, present := range []bool{hasOverview, hasExamples, hasWhenToUse} {
				if present {
					sections++
				}
			}
			switch {
			case sections >= 3:
				return "complete", "Overview, Examples, and Workflow sections present"
			case sections == 2:
				return "good", "Two core sections present"
			case sections == 1:
				return "fair", "One core section present"
			}
			return "missing", "Missing core sections"
		case "workflow_quality":
			loc := workflowHeading.FindStringIndex(body)
			if loc == nil {
				if hasWhenToUse {
					return "minimal", "Has 'When to use' guidance but no detailed workflow"
				}
				return "minimal", "No workflow or usage guidance section"
			}
			section := body[loc[1]:]
			if len(section) > workflowWindow {
				section = section[:workflowWindow]
			}
			if externalLinkLine.MatchString(section) && !containsAny(section, "step", "Step", "1.", "2.", "- [") {
				return "external_only", "Workflow only references external files"
			}
			if anyMatches(workflowStepPatterns, section) {
				return "excellent", "Workflow has detailed step-by-step guidance"
			}
			return "good", "Workflow section has meaningful content"
		case "documentation_completeness":
			switch {
			case hasQuickStart && hasExamples && !hasTodo:
				return "complete", "Quick Start, Examples, and no TODOs"
			case hasQuickStart || hasExamples:
				return "fair", "One of Quick Start or Examples present"
			case hasTodo:
				return "incomplete", "Contains unresolved TODOs"
			}
			return "poor", "Missing both Quick Start and Examples"
		}
		return "poor", "Unknown criterion"
	})

	return finish("content", cfg, res, "Content is comprehensive")
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
