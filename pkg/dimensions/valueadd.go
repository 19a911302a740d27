package dimensions

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
	"github.com/jingkaihe/skillgrade/pkg/skill"
)

var (
	specificContentPattern = regexp.MustCompile(
		"`[^`]+`" +
			`|\./\w+` +
			`|\w+\.(py|sh|md|json|yaml|yml|js|ts|go|rs)` +
			`|\b[a-zA-Z_][a-zA-Z0-9_]*\.py::[a-zA-Z_]` +
			`|\$\{?\w+\}?` +
			`|--\w+` +
			`|\bimport\s+\w+`)

	genericContentPattern = regexp.MustCompile(`(?i)` +
		`best practices?\b` +
		`|\b(good|proper|correct)\s+\w+\s+(?:way|approach|method|practice)\b` +
		`|\b(code|style|design|pattern)\s+(?:best|good|proper)\b` +
		`|\bfollow\s+(?:the\s+)?(?:best\s+)?(?:coding\s+)?practices?\b` +
		`|\bstandard\s+(?:convention|practice|approach)\b` +
		`|\bmake sure to\b` +
		`|\bensure (?:that )?\w+`)

	sentenceSplit = regexp.MustCompile(`[.!?\n]+`)

	scriptInvocationPattern = regexp.MustCompile(`(python3?\s+.*scripts?|bash\s+.*scripts?|sh\s+)`)
	numberedStepPattern     = regexp.MustCompile(`(?im)\b(step\s+\d+|^\d+\.|first\s+,?\s*second\s+,?\s*third)`)
	customContentPattern    = regexp.MustCompile(`(?i)` +
		`\b(?:my|our|this)\s+(?:project|plugin|tool|skill|system)\b` +
		`|\bspecific(?:ly)?\s+(?:to|for|project|domain)\b` +
		`|\bcustom(?:ized)?\s+\w+\b`)
	errorGuidePattern = regexp.MustCompile(`(?i)(error|exception|fail|timeout|crash)\s*[:\-]\s*\S+`)
	commandPattern    = regexp.MustCompile(
		`python3?\s+\$\{?\w+\}?\s+\w+` +
			`|npm\s+(run|exec|start|test)` +
			`|go\s+(run|build|test)` +
			`|cargo\s+(run|build|test)`)

	genericAdvicePattern = regexp.MustCompile(`(?i)\b(choose the right|use best practices|follow standards|` +
		`write clean code|be consistent|keep it simple|` +
		`think about|consider the|make informed)\b`)
	conceptExplanationPattern = regexp.MustCompile(`(?i)\b(is a|are |refers to|means|defined as)\b.*\b(which|that|this)\b`)

	frontmatterBlock = regexp.MustCompile(`(?s)^---\n.*?\n---`)
)

var valueAddScorer = rubric.NewScorer([]rubric.Criterion{
	{
		Name:        "artifacts",
		Description: "Presence of concrete artifacts (scripts, references, assets)",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Has scripts/, references/, and assets/"),
			level("good", rubric.ScoreGood, "Has scripts/ and references/ directories"),
			level("fair", rubric.ScoreFair, "Has scripts/ or references/ directory"),
			level("poor", rubric.ScorePoor, "Has minimal artifacts"),
			level("missing", rubric.ScoreMissing, "No artifacts (scripts/, references/, assets/)"),
		},
	},
	{
		Name:        "specificity",
		Description: "Specific content vs generic advice",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "70%+ specific content (code, paths, commands)"),
			level("good", rubric.ScoreGood, "40-69% specific content"),
			level("fair", rubric.ScoreFair, "20-39% specific content"),
			level("poor", rubric.ScorePoor, "Less than 20% specific content"),
			level("missing", rubric.ScoreMissing, "No content to evaluate"),
		},
	},
	{
		Name:        "custom_workflows",
		Description: "Presence of custom workflows, tools, or commands",
		Weight:      0.25,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Has custom scripts, workflows, and error guidance"),
			level("good", rubric.ScoreGood, "Has custom scripts and workflow steps"),
			level("fair", rubric.ScoreFair, "Has some custom patterns"),
			level("poor", rubric.ScorePoor, "Minimal custom content"),
			level("missing", rubric.ScoreMissing, "No custom workflows detected"),
		},
	},
	{
		Name:        "anti_patterns",
		Description: "Absence of value-reducing patterns (wrapper-only, generic advice)",
		Weight:      0.15,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "No anti-patterns detected"),
			level("good", rubric.ScoreGood, "Minor issues (some generic advice)"),
			level("fair", rubric.ScoreFair, "Moderate issues (concept explanations, generic advice)"),
			level("poor", rubric.ScorePoor, "Significant issues (description-heavy, concept-heavy)"),
			level("missing", rubric.ScoreMissing, "No content or major anti-patterns"),
		},
	},
})

// ValueAdd scores whether the skill carries substance beyond generic advice:
// bundled artifacts, specific references, and custom workflows.
func ValueAdd(in Input, cfg *config.Config) rubric.DimensionScore {
	sk := in.Skill
	if !hasDocument(sk) {
		return absent("value_add", cfg, "SKILL.md not found", "Create SKILL.md with value-add content")
	}

	body := sk.Body
	scriptCount, refCount, assetCount := countArtifacts(sk)
	hasScripts := scriptCount > 0
	hasReferences := refCount > 0
	hasAssets := assetCount > 0

	specificCount := countMatches(specificContentPattern, body)
	genericCount := countMatches(genericContentPattern, body)
	sentenceCount := 0
	for _, s := range sentenceSplit.Split(body, -1) {
		if strings.TrimSpace(s) != "" {
			sentenceCount++
		}
	}
	specificityRatio := float64(specificCount) / float64(specificCount+genericCount+1)

	scriptInvocations := countMatches(scriptInvocationPattern, body)
	numberedSteps := countMatches(numberedStepPattern, body)
	customMatches := countMatches(customContentPattern, body)
	errorGuides := countMatches(errorGuidePattern, body)
	commandsFound := countMatches(commandPattern, body)
	workflowSignals := 0
	for _, n := range []int{scriptInvocations, numberedSteps, customMatches, errorGuides, commandsFound} {
		if n > 0 {
			workflowSignals++
		}
	}

	frontmatterLen := 0
	if m := frontmatterBlock.FindString(sk.Document()); m != "" {
		frontmatterLen = len(m)
	}
	bodyLen := len(body)
	genericAdviceCount := countMatches(genericAdvicePattern, body)
	conceptExplanations := countMatches(conceptExplanationPattern, body)

	res := valueAddScorer.Evaluate(func(c rubric.Criterion) (string, string) {
		switch c.Name {
		case "artifacts":
			switch {
			case hasScripts && hasReferences && hasAssets:
				return "excellent", fmt.Sprintf("Has scripts/ (%d), references/ (%d), assets/ (%d)", scriptCount, refCount, assetCount)
			case hasScripts && hasReferences:
				return "good", fmt.Sprintf("Has scripts/ (%d) and references/ (%d)", scriptCount, refCount)
			case hasScripts:
				return "fair", fmt.Sprintf("Has scripts/ (%d)", scriptCount)
			case hasReferences:
				return "fair", fmt.Sprintf("Has references/ (%d)", refCount)
			case hasAssets:
				return "poor", "Has minimal artifacts"
			}
			return "missing", "No artifacts (scripts/, references/, assets/)"
		case "specificity":
			if sentenceCount == 0 {
				return "missing", "No content to evaluate"
			}
			pct := specificityRatio * 100
			switch {
			case specificityRatio >= 0.7:
				return "excellent", fmt.Sprintf("Highly specific (%.0f%% ratio)", pct)
			case specificityRatio >= 0.4:
				return "good", fmt.Sprintf("Good specificity (%.0f%% ratio)", pct)
			case specificityRatio >= 0.2:
				return "fair", fmt.Sprintf("Moderate specificity (%.0f%% ratio)", pct)
			}
			return "poor", fmt.Sprintf("Low specificity (%.0f%% ratio)", pct)
		case "custom_workflows":
			switch {
			case workflowSignals >= 4:
				return "excellent", fmt.Sprintf("Has scripts (%d), steps (%d), custom (%d), errors (%d)", scriptInvocations, numberedSteps, customMatches, errorGuides)
			case workflowSignals >= 2:
				return "good", fmt.Sprintf("Has custom scripts (%d) and steps (%d)", scriptInvocations, numberedSteps)
			case workflowSignals >= 1:
				return "fair", "Has some custom patterns"
			case bodyLen > 0:
				return "poor", "Minimal custom content"
			}
			return "missing", "No custom workflows detected"
		case "anti_patterns":
			if bodyLen == 0 {
				return "missing", "No content or major anti-patterns"
			}
			var issues []string
			if frontmatterLen > bodyLen && frontmatterLen > 500 {
				issues = append(issues, "description-heavy")
			}
			if genericAdviceCount >= 3 {
				issues = append(issues, "generic advice")
			}
			if conceptExplanations >= 3 {
				issues = append(issues, "concept explanations")
			}
			switch len(issues) {
			case 0:
				return "excellent", "No anti-patterns detected"
			case 1:
				return "good", fmt.Sprintf("Minor issues (%s)", strings.Join(issues, ", "))
			case 2:
				return "fair", fmt.Sprintf("Moderate issues (%s)", strings.Join(issues, ", "))
			}
			return "poor", fmt.Sprintf("Significant issues (%s)", strings.Join(issues, ", "))
		}
		return "missing", "Unknown criterion"
	})

	return finish("value_add", cfg, res, "Value-add assessment is adequate")
}

// countArtifacts tallies executable scripts, markdown references, and asset
// files bundled alongside the instruction document.
func countArtifacts(sk *skill.Skill) (scripts, refs, assets int) {
	for _, f := range sk.Files {
		switch {
		case strings.HasPrefix(f.Path, "scripts/"):
			ext := path.Ext(f.Path)
			if ext == ".py" || ext == ".sh" {
				scripts++
			}
		case strings.HasPrefix(f.Path, "references/"):
			if path.Ext(f.Path) == ".md" {
				refs++
			}
		case strings.HasPrefix(f.Path, "assets/"):
			assets++
		}
	}
	return scripts, refs, assets
}
