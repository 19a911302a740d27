package dimensions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
)

var (
	doubleQuotedPhrase = regexp.MustCompile(`"([^"]+)"`)
	singleQuotedPhrase = regexp.MustCompile(`'([^']+)'`)
	errorLikePhrase    = regexp.MustCompile(`"[^"]{10,100}"`)

	thirdPersonPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)This skill should be used when`),
		regexp.MustCompile(`(?i)This skill provides`),
		regexp.MustCompile(`(?i)This skill handles`),
		regexp.MustCompile(`(?i)Use this skill when`),
		regexp.MustCompile(`(?i)Should be used when`),
	}

	vagueDescriptionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bprovides guidance\b`),
		regexp.MustCompile(`(?i)\bhelps with\b`),
		regexp.MustCompile(`(?i)\bworks with\b`),
		regexp.MustCompile(`(?i)\bcan be used\b`),
		regexp.MustCompile(`(?i)\bsupports\b`),
	}
	specificDescriptionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)when the user asks to ['"](.+?)['"]`),
		regexp.MustCompile(`(?i)mentions`),
		regexp.MustCompile(`(?i)error message`),
		regexp.MustCompile(`(?i)tool use`),
		regexp.MustCompile(`(?i)file path`),
	}

	workflowIndicatorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)first\s+`),
		regexp.MustCompile(`(?i)then\s+`),
		regexp.MustCompile(`(?i)finally\s+`),
		regexp.MustCompile(`(?i)analyzes?\s+.*\s+identifies?\s+.*\s+applies?`),
		regexp.MustCompile(`(?i)step\s+\d+`),
	}

	symptomPattern = regexp.MustCompile(`(?i)\b(failed|error|timeout|hang|freeze|slow|flaky|crash|exception)\b`)
	toolPatterns   = []*regexp.Regexp{
		regexp.MustCompile("`\\w+`"),
		regexp.MustCompile(`\b(script|command|tool)\b`),
	}
)

var triggerScorer = rubric.NewScorer([]rubric.Criterion{
	{
		Name:        "trigger_phrases",
		Description: "Presence and quantity of quoted trigger phrases in description",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Has 3+ quoted trigger phrases in description"),
			level("good", rubric.ScoreGood, "Has 1-2 quoted trigger phrases in description"),
			level("poor", rubric.ScorePoor, "No quoted trigger phrases but description exists"),
			level("missing", rubric.ScoreMissing, "No description or trigger phrases"),
		},
	},
	{
		Name:        "third_person_form",
		Description: "Uses third-person 'This skill...' form in description",
		Weight:      0.20,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Uses 'This skill should be used when...' or similar form"),
			level("missing", rubric.ScoreMissing, "Does not use third-person form"),
		},
	},
	{
		Name:        "keyword_specificity",
		Description: "Specific trigger keywords vs vague generic language",
		Weight:      0.20,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Has specific keywords without vague language"),
			level("good", rubric.ScoreGood, "Has specific keywords but also some vague language"),
			level("fair", rubric.ScoreFair, "Has only vague language"),
			level("poor", rubric.ScorePoor, "Neither specific nor vague patterns detected"),
			level("missing", rubric.ScoreMissing, "No description content"),
		},
	},
	{
		Name:        "anti_patterns",
		Description: "Absence of workflow summaries and description length issues",
		Weight:      0.15,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "No workflow summary, appropriate description length (50-500 chars)"),
			level("good", rubric.ScoreGood, "Minor issues only (slightly short/long description)"),
			level("fair", rubric.ScoreFair, "Has workflow summary OR length issues"),
			level("poor", rubric.ScorePoor, "Has workflow summary AND length issues"),
			level("missing", rubric.ScoreMissing, "No description or major issues"),
		},
	},
	{
		Name:        "cso_coverage",
		Description: "Coverage of context/symptom/object categories for trigger matching",
		Weight:      0.15,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Covers 3+ trigger categories (errors, symptoms, tools)"),
			level("good", rubric.ScoreGood, "Covers 2 trigger categories"),
			level("fair", rubric.ScoreFair, "Covers 1 trigger category"),
			level("poor", rubric.ScorePoor, "No trigger category coverage"),
			level("missing", rubric.ScoreMissing, "No description content"),
		},
	},
})

// TriggerDesign scores how discoverable the skill is: quoted trigger
// phrases, third-person form, keyword specificity, and coverage of the
// context/symptom/object trigger categories.
func TriggerDesign(in Input, cfg *config.Config) rubric.DimensionScore {
	sk := in.Skill
	if !hasDocument(sk) {
		return absent("trigger_design", cfg, "SKILL.md not found", "Create SKILL.md with trigger design")
	}
	if sk.Frontmatter == nil {
		return absent("trigger_design", cfg, "Invalid frontmatter", "Fix YAML frontmatter syntax")
	}

	description := frontmatterString(sk, "description")
	descLen := len(strings.TrimSpace(description))
	phraseCount := countMatches(doubleQuotedPhrase, description) + countMatches(singleQuotedPhrase, description)

	res := triggerScorer.Evaluate(func(c rubric.Criterion) (string, string) {
		switch c.Name {
		case "trigger_phrases":
			switch {
			case phraseCount >= 3:
				return "excellent", fmt.Sprintf("Has %d trigger phrases", phraseCount)
			case phraseCount >= 1:
				return "good", fmt.Sprintf("Has %d trigger phrases (recommend 3+)", phraseCount)
			case descLen > 0:
				return "poor", "No quoted trigger phrases in description"
			}
			return "missing", "No description content"
		case "third_person_form":
			if anyMatches(thirdPersonPatterns, description) {
				return "excellent", "Uses third-person 'This skill' form"
			}
			return "missing", "Does not use third-person form"
		case "keyword_specificity":
			hasVague := anyMatches(vagueDescriptionPatterns, description)
			hasSpecific := anyMatches(specificDescriptionPatterns, description)
			switch {
			case descLen == 0:
				return "missing", "No description content"
			case hasSpecific && !hasVague:
				return "excellent", "Has specific trigger keywords"
			case hasSpecific:
				return "good", "Has specific terms but also vague language"
			case hasVague:
				return "fair", "Has only vague language"
			}
			return "poor", "Neither specific nor vague patterns detected"
		case "anti_patterns":
			hasWorkflowSummary := anyMatches(workflowIndicatorPatterns, description)
			tooShort := descLen < 50
			tooLong := descLen > 500 && phraseCount == 0
			switch {
			case descLen == 0:
				return "missing", "No description content"
			case hasWorkflowSummary && (tooShort || tooLong):
				return "poor", "Has workflow summary AND length issues"
			case hasWorkflowSummary:
				return "fair", "Has workflow summary in description"
			case tooShort || tooLong:
				return "fair", fmt.Sprintf("Description length issue (%d chars)", descLen)
			}
			return "excellent", fmt.Sprintf("No anti-patterns, description length OK (%d chars)", descLen)
		case "cso_coverage":
			categories := 0
			if errorLikePhrase.MatchString(description) {
				categories++
			}
			if symptomPattern.MatchString(description) {
				categories++
			}
			if anyMatches(toolPatterns, description) {
				categories++
			}
			switch {
			case descLen == 0:
				return "missing", "No description content"
			case categories >= 3:
				return "excellent", fmt.Sprintf("Covers %d trigger categories", categories)
			case categories == 2:
				return "good", fmt.Sprintf("Covers %d trigger categories", categories)
			case categories == 1:
				return "fair", fmt.Sprintf("Covers %d trigger category", categories)
			}
			return "poor", "No trigger category coverage"
		}
		return "missing", "Unknown criterion"
	})

	return finish("trigger_design", cfg, res, "Trigger design is adequate")
}
