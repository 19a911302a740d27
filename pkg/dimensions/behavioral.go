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
	codeBlockPattern = regexp.MustCompile("(?s)```.*?```")
	exampleSection   = regexp.MustCompile(`(?m)^#{1,3}\s+(?:[Ee]xample|[Ee]xamples)`)

	scenarioPatterns = []*regexp.Regexp{
		regexp.MustCompile(`Given\s+\w+`),
		regexp.MustCompile(`When\s+\w+`),
		regexp.MustCompile(`Then\s+\w+`),
		regexp.MustCompile(`If\s+\w+,\s+(?:do|use|apply)`),
	}

	mistakesSection = regexp.MustCompile(`(?m)^#{1,3}\s+(?:[Cc]ommon\s+[Mm]istakes?|[Mm]istakes?\s+[Tt]o\s+[Aa]void|[Ww]hat\s+[Nn]ot\s+[Tt]o\s+[Dd]o)`)
	dontPatterns    = []*regexp.Regexp{
		regexp.MustCompile(`[Dd]on't\s+`),
		regexp.MustCompile(`[Dd]o\s+not\s+`),
		regexp.MustCompile(`[Nn]ever\s+`),
		regexp.MustCompile(`Avoid\s+`),
	}
	comparisonPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[Bb]ad[:\s]+`),
		regexp.MustCompile(`[Gg]ood[:\s]+`),
		regexp.MustCompile(`[Ww]rong[:\s]+`),
		regexp.MustCompile(`[Cc]orrect[:\s]+`),
		regexp.MustCompile(`❌`),
		regexp.MustCompile(`✅`),
	}

	errorKeywordPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(error|exception|fail(?:ure)?|timeout|crash|panic)\b`),
		regexp.MustCompile(`(?i)\b(try|catch|except|finally)\b`),
		regexp.MustCompile(`(?i)\b(raise|throw)\b`),
		regexp.MustCompile(`(?i)\b(log|print)\s+(?:error|warning|info)\b`),
	}
	troubleshootingSection = regexp.MustCompile(`(?m)^#{1,3}\s+(?:[Tt]roubleshooting|[Dd]ebugging|[Ee]rror\s+[Hh]andling)`)
	fallbackPatterns       = []*regexp.Regexp{
		regexp.MustCompile(`(?i)if\s+\w+\s+(?:fails?|errors?|times?\s+out|isn?'t?\s+available)`),
		regexp.MustCompile(`(?i)(fallback|backup|alternative)\s+(?:is|to|use)`),
		regexp.MustCompile(`(?i)(retry|re-try)\s+`),
	}

	edgeMentionPattern  = regexp.MustCompile(`(?i)\b(edge|corner)\s+(?:case|scenario)|\b(when|if)\s+\w+\s+(?:is\s+)?(?:null|undefined|none|empty|zero|missing)`)
	boundaryTermPattern = regexp.MustCompile(`(?i)\b(maximum|minimum|max|min|large|small|empty|zero|null|undefined|none|optional|required)\b`)

	testRefPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\btest\s+(?:case|scenario|file|data)`),
		regexp.MustCompile(`(?i)\brun\s+(?:the\s+)?(?:test|spec)`),
		regexp.MustCompile(`(?i)expect(?:ed)?\s+(?:to|that|value)`),
	}

	triggerTestKey          = regexp.MustCompile(`trigger_tests?:|should_trigger:|should_not_trigger:`)
	negativeTriggerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)do\s+not\s+(?:use|trigger)`),
		regexp.MustCompile(`(?i)don'?t\s+(?:use|trigger)`),
		regexp.MustCompile(`(?i)should\s+not\s+trigger`),
		regexp.MustCompile(`(?i)negative\s+triggers?`),
		regexp.MustCompile(`(?i)overtrigger`),
	}
)

var behavioralScorer = rubric.NewScorer([]rubric.Criterion{
	{
		Name:        "examples",
		Description: "Presence of code examples and scenario patterns",
		Weight:      0.25,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Has 3+ code blocks, Example section, and scenario patterns"),
			level("good", rubric.ScoreGood, "Has code blocks and Example section"),
			level("fair", rubric.ScoreFair, "Has some code blocks or examples"),
			level("poor", rubric.ScorePoor, "Minimal examples"),
			level("missing", rubric.ScoreMissing, "No examples or scenarios"),
		},
	},
	{
		Name:        "anti_patterns",
		Description: "Documentation of common mistakes and DON'T patterns",
		Weight:      0.20,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Has Common Mistakes section, 3+ DON'T patterns, comparisons"),
			level("good", rubric.ScoreGood, "Has Common Mistakes section and DON'T patterns"),
			level("fair", rubric.ScoreFair, "Has some DON'T/Never patterns"),
			level("poor", rubric.ScorePoor, "Minimal anti-pattern documentation"),
			level("missing", rubric.ScoreMissing, "No anti-pattern documentation"),
		},
	},
	{
		Name:        "error_handling",
		Description: "Error handling and fallback guidance",
		Weight:      0.20,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Has Troubleshooting section, error refs, fallback patterns"),
			level("good", rubric.ScoreGood, "Has error handling references and fallback patterns"),
			level("fair", rubric.ScoreFair, "Has some error handling content"),
			level("poor", rubric.ScorePoor, "Minimal error handling"),
			level("missing", rubric.ScoreMissing, "No error handling guidance"),
		},
	},
	{
		Name:        "edge_cases",
		Description: "Coverage of edge cases and boundary conditions",
		Weight:      0.15,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Has 3+ edge case mentions and boundary terms"),
			level("good", rubric.ScoreGood, "Has edge case mentions and boundary terms"),
			level("fair", rubric.ScoreFair, "Has some edge case content"),
			level("poor", rubric.ScorePoor, "Minimal edge case coverage"),
			level("missing", rubric.ScoreMissing, "No edge case coverage"),
		},
	},
	{
		Name:        "test_infrastructure",
		Description: "Presence of tests directory and scenario files",
		Weight:      0.10,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Has tests/ with scenario YAML files"),
			level("good", rubric.ScoreGood, "Has tests/ directory with files"),
			level("fair", rubric.ScoreFair, "Has test references in docs"),
			level("poor", rubric.ScorePoor, "Has test references only"),
			level("missing", rubric.ScoreMissing, "No test infrastructure"),
		},
	},
	{
		Name:        "trigger_testing",
		Description: "Trigger tests (should_trigger/should_not_trigger)",
		Weight:      0.10,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "Has trigger tests in scenario files and negative guidance"),
			level("good", rubric.ScoreGood, "Has trigger tests or negative trigger guidance"),
			level("fair", rubric.ScoreFair, "Has negative trigger guidance only"),
			level("poor", rubric.ScorePoor, "Minimal trigger testing"),
			level("missing", rubric.ScoreMissing, "No trigger testing"),
		},
	},
})

// BehavioralReadiness scores the behavioral scaffolding around the skill:
// worked examples, mistake documentation, error and edge-case guidance, and
// trigger test coverage.
func BehavioralReadiness(in Input, cfg *config.Config) rubric.DimensionScore {
	sk := in.Skill
	if !hasDocument(sk) {
		return absent("behavioral_readiness", cfg, "SKILL.md not found", "Create SKILL.md with behavioral guidance")
	}

	body := sk.Body

	codeBlocks := countMatches(codeBlockPattern, body)
	hasExampleSection := exampleSection.MatchString(body)
	scenarioCount := sumMatches(scenarioPatterns, body)

	hasMistakesSection := mistakesSection.MatchString(body)
	dontCount := sumMatches(dontPatterns, body)
	comparisonCount := sumMatches(comparisonPatterns, body)

	errorCount := sumMatches(errorKeywordPatterns, body)
	hasTroubleshooting := troubleshootingSection.MatchString(body)
	fallbackCount := sumMatches(fallbackPatterns, body)

	edgeMentions := countMatches(edgeMentionPattern, body)
	boundaryTerms := countMatches(boundaryTermPattern, body)

	hasTestsDir, scenarioFiles := testScenarioFiles(sk)
	testRefs := sumMatches(testRefPatterns, body)

	hasTriggerTests := false
	for _, f := range scenarioFiles {
		if triggerTestKey.MatchString(f.Content) {
			hasTriggerTests = true
			break
		}
	}
	negativeCount := sumMatches(negativeTriggerPatterns, body)

	res := behavioralScorer.Evaluate(func(c rubric.Criterion) (string, string) {
		switch c.Name {
		case "examples":
			total := graded(codeBlocks, 3) + binary(hasExampleSection) + graded(scenarioCount, 3)
			switch {
			case total >= 2.5:
				return "excellent", fmt.Sprintf("Has %d code blocks, Example section, %d scenarios", codeBlocks, scenarioCount)
			case total >= 1.5:
				return "good", fmt.Sprintf("Has %d code blocks, Example section", codeBlocks)
			case total >= 0.5:
				return "fair", fmt.Sprintf("Has %d code blocks", codeBlocks)
			case codeBlocks > 0:
				return "poor", "Minimal examples"
			}
			return "missing", "No examples or scenarios"
		case "anti_patterns":
			total := binary(hasMistakesSection) + graded(dontCount, 3) + graded2(comparisonCount, 4, 2)
			switch {
			case total >= 2.5:
				return "excellent", fmt.Sprintf("Has Common Mistakes, %d DON'T patterns, %d comparisons", dontCount, comparisonCount)
			case total >= 1.5:
				return "good", fmt.Sprintf("Has Common Mistakes, %d DON'T patterns", dontCount)
			case total >= 0.5:
				return "fair", fmt.Sprintf("Has %d DON'T/Never patterns", dontCount)
			case dontCount > 0:
				return "poor", "Minimal anti-pattern documentation"
			}
			return "missing", "No anti-pattern documentation"
		case "error_handling":
			total := binary(hasTroubleshooting) + graded2(errorCount, 5, 2) + graded2(fallbackCount, 2, 1)
			switch {
			case total >= 2.5:
				return "excellent", fmt.Sprintf("Has Troubleshooting, %d error refs, %d fallbacks", errorCount, fallbackCount)
			case total >= 1.5:
				return "good", fmt.Sprintf("Has %d error handling refs, %d fallbacks", errorCount, fallbackCount)
			case total >= 0.5:
				return "fair", fmt.Sprintf("Has %d error handling mentions", errorCount)
			case errorCount > 0:
				return "poor", "Minimal error handling"
			}
			return "missing", "No error handling guidance"
		case "edge_cases":
			total := graded(edgeMentions, 3) + graded2(boundaryTerms, 5, 2)
			switch {
			case total >= 1.5:
				return "excellent", fmt.Sprintf("Has %d edge case mentions, %d boundary terms", edgeMentions, boundaryTerms)
			case total >= 1.0:
				return "good", "Has edge case mentions and boundary terms"
			case total >= 0.5:
				return "fair", "Has some edge case content"
			case edgeMentions > 0 || boundaryTerms > 0:
				return "poor", "Minimal edge case coverage"
			}
			return "missing", "No edge case coverage"
		case "test_infrastructure":
			switch {
			case hasTestsDir && len(scenarioFiles) > 0:
				return "excellent", fmt.Sprintf("Has tests/ with %d scenario files", len(scenarioFiles))
			case hasTestsDir:
				return "good", "Has tests/ directory"
			case testRefs >= 2:
				return "fair", "Has test references in docs"
			case testRefs > 0:
				return "poor", "Has test references only"
			}
			return "missing", "No test infrastructure"
		case "trigger_testing":
			switch {
			case hasTriggerTests && negativeCount >= 2:
				return "excellent", fmt.Sprintf("Has trigger tests and %d negative guidance", negativeCount)
			case hasTriggerTests || negativeCount >= 2:
				return "good", "Has trigger tests or negative trigger guidance"
			case negativeCount >= 1:
				return "fair", "Has negative trigger guidance only"
			}
			return "missing", "No trigger testing"
		}
		return "missing", "Unknown criterion"
	})

	return finish("behavioral_readiness", cfg, res, "Behavioral readiness is adequate")
}

// graded gives full credit at the threshold, half credit for any presence.
func graded(count, threshold int) float64 {
	return graded2(count, threshold, 1)
}

// graded2 gives full credit at full, half credit at half.
func graded2(count, full, half int) float64 {
	switch {
	case count >= full:
		return 1
	case count >= half:
		return 0.5
	}
	return 0
}

func binary(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

// testScenarioFiles reports whether the skill bundles a tests directory and
// returns its top-level YAML scenario files.
func testScenarioFiles(sk *skill.Skill) (bool, []skill.File) {
	hasDir := false
	var scenarios []skill.File
	for _, f := range sk.Files {
		if !strings.HasPrefix(f.Path, "tests/") {
			continue
		}
		hasDir = true
		if strings.Count(f.Path, "/") != 1 {
			continue
		}
		ext := path.Ext(f.Path)
		if ext == ".yaml" || ext == ".yml" {
			scenarios = append(scenarios, f)
		}
	}
	return hasDir, scenarios
}
