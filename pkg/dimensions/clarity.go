package dimensions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
)

// imperativeVerbs are the leading verbs that mark a line as an instruction.
var imperativeVerbs = map[string]bool{
	"create": true, "add": true, "run": true, "use": true, "check": true,
	"verify": true, "configure": true, "install": true, "define": true,
	"set": true, "read": true, "write": true, "update": true, "remove": true,
	"build": true, "test": true, "deploy": true, "start": true, "stop": true,
	"open": true, "close": true, "parse": true, "extract": true,
	"validate": true, "follow": true, "ensure": true, "return": true,
	"invoke": true, "call": true, "execute": true, "import": true,
	"export": true, "handle": true, "catch": true, "raise": true,
	"throw": true, "log": true, "print": true, "display": true, "show": true,
}

var (
	hedgingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bmight\b`),
		regexp.MustCompile(`(?i)\bcould\b`),
		regexp.MustCompile(`(?i)\bmaybe\b`),
		regexp.MustCompile(`(?i)\bperhaps\b`),
		regexp.MustCompile(`(?i)\bas needed\b`),
		regexp.MustCompile(`(?i)\bif appropriate\b`),
		regexp.MustCompile(`(?i)\bwhen necessary\b`),
		regexp.MustCompile(`(?i)\bas applicable\b`),
		regexp.MustCompile(`(?i)\bif desired\b`),
		regexp.MustCompile(`(?i)\boptionally\b`),
		regexp.MustCompile(`(?i)\bmight want to\b`),
		regexp.MustCompile(`(?i)\bmight consider\b`),
	}

	actionablePatterns = []*regexp.Regexp{
		regexp.MustCompile("`[^`]+`"),
		regexp.MustCompile(`(?i)\.[a-z]{2,4}(?:\s|$|[,;:])`),
		regexp.MustCompile(`(?i)\b[a-zA-Z_][a-zA-Z0-9_]*\.py\b`),
		regexp.MustCompile(`(?i)\b[a-zA-Z_][a-zA-Z0-9_]*\.sh\b`),
		regexp.MustCompile(`(?i)\b(script|command|tool|function|method|class)\b`),
		regexp.MustCompile(`(?i)\b(import|from|export|return|yield)\b`),
	}

	contradictionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)always\s+\w+\s+but\s+\w+`),
		regexp.MustCompile(`(?i)never\s+\w+\s+but\s+\w+`),
		regexp.MustCompile(`(?i)do\s+this\s+but\s+(?:don't|do\s+not)\s+\w+`),
	}
	alwaysStatement = regexp.MustCompile(`(?i)always\s+(.+?)[.;,\n]`)
	neverStatement  = regexp.MustCompile(`(?i)never\s+(.+?)[.;,\n]`)

	firstWordSplit = regexp.MustCompile(`[\s\-*]+`)
)

var clarityScorer = rubric.NewScorer([]rubric.Criterion{
	{
		Name:        "ambiguity",
		Description: "Absence of hedging and ambiguous language",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "No hedging phrases (might, could, maybe, etc.)"),
			level("good", rubric.ScoreGood, "1-2 hedging phrases (minor ambiguity)"),
			level("fair", rubric.ScoreFair, "3-4 hedging phrases (moderate ambiguity)"),
			level("poor", rubric.ScorePoor, "5+ hedging phrases (significant ambiguity)"),
			level("missing", rubric.ScoreMissing, "No content to evaluate"),
		},
	},
	{
		Name:        "imperative_form",
		Description: "Use of imperative verb form in instructions",
		Weight:      0.25,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "80%+ of lines use imperative form"),
			level("good", rubric.ScoreGood, "60-79% of lines use imperative form"),
			level("fair", rubric.ScoreFair, "40-59% of lines use imperative form"),
			level("poor", rubric.ScorePoor, "Less than 40% use imperative form"),
			level("missing", rubric.ScoreMissing, "No instruction content"),
		},
	},
	{
		Name:        "actionability",
		Description: "Presence of specific, actionable references",
		Weight:      0.25,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "60%+ of lines have actionable references"),
			level("good", rubric.ScoreGood, "40-59% of lines have actionable references"),
			level("fair", rubric.ScoreFair, "20-39% of lines have actionable references"),
			level("poor", rubric.ScorePoor, "Less than 20% have actionable references"),
			level("missing", rubric.ScoreMissing, "No instruction content"),
		},
	},
	{
		Name:        "contradictions",
		Description: "Absence of contradictory instructions",
		Weight:      0.20,
		Levels: []rubric.Level{
			level("excellent", rubric.ScoreExcellent, "No contradictions detected"),
			level("good", rubric.ScoreGood, "Minor potential conflict (but/however)"),
			level("fair", rubric.ScoreFair, "Potential always/never contradiction"),
			level("poor", rubric.ScorePoor, "Multiple contradictions detected"),
			level("missing", rubric.ScoreMissing, "No content to evaluate"),
		},
	},
})

// InstructionClarity scores how unambiguously the document instructs:
// hedging density, imperative form, actionable references, and
// contradiction detection.
func InstructionClarity(in Input, cfg *config.Config) rubric.DimensionScore {
	sk := in.Skill
	if !hasDocument(sk) {
		return absent("instruction_clarity", cfg, "SKILL.md not found", "Create SKILL.md with clear instructions")
	}

	body := sk.Body
	lines := strings.Split(body, "\n")

	totalInstructionLike := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			totalInstructionLike++
		}
	}

	hedgingCount := sumMatches(hedgingPatterns, body)

	imperativeCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		parts := firstWordSplit.Split(strings.ToLower(trimmed), -1)
		if len(parts) > 0 && imperativeVerbs[parts[0]] {
			imperativeCount++
		}
	}

	actionableCount := 0
	for _, line := range lines {
		if anyMatches(actionablePatterns, line) {
			actionableCount++
		}
	}

	denominator := totalInstructionLike
	if denominator < 1 {
		denominator = 1
	}
	imperativeRatio := float64(imperativeCount) / float64(denominator)
	actionableRatio := float64(actionableCount) / float64(denominator)

	foundBut := 0
	for _, p := range contradictionPatterns {
		if p.MatchString(body) {
			foundBut++
		}
	}
	hasOverlap := alwaysNeverOverlap(body)

	res := clarityScorer.Evaluate(func(c rubric.Criterion) (string, string) {
		switch c.Name {
		case "ambiguity":
			switch {
			case totalInstructionLike == 0:
				return "missing", "No content to evaluate"
			case hedgingCount == 0:
				return "excellent", "No hedging phrases found"
			case hedgingCount <= 2:
				return "good", fmt.Sprintf("Minor hedging: %d phrases", hedgingCount)
			case hedgingCount <= 4:
				return "fair", fmt.Sprintf("Moderate hedging: %d phrases", hedgingCount)
			}
			return "poor", fmt.Sprintf("Significant hedging: %d phrases", hedgingCount)
		case "imperative_form":
			if totalInstructionLike == 0 {
				return "missing", "No instruction content"
			}
			pct := imperativeRatio * 100
			switch {
			case imperativeRatio >= 0.8:
				return "excellent", fmt.Sprintf("High imperative form (%.0f%% of lines)", pct)
			case imperativeRatio >= 0.6:
				return "good", fmt.Sprintf("Good imperative form (%.0f%% of lines)", pct)
			case imperativeRatio >= 0.4:
				return "fair", fmt.Sprintf("Moderate imperative form (%.0f%% of lines)", pct)
			}
			return "poor", fmt.Sprintf("Low imperative form (%.0f%% of lines)", pct)
		case "actionability":
			if totalInstructionLike == 0 {
				return "missing", "No instruction content"
			}
			pct := actionableRatio * 100
			switch {
			case actionableRatio >= 0.6:
				return "excellent", fmt.Sprintf("Highly actionable (%.0f%% of lines)", pct)
			case actionableRatio >= 0.4:
				return "good", fmt.Sprintf("Good actionability (%.0f%% of lines)", pct)
			case actionableRatio >= 0.2:
				return "fair", fmt.Sprintf("Moderate actionability (%.0f%% of lines)", pct)
			}
			return "poor", fmt.Sprintf("Low actionability (%.0f%% of lines)", pct)
		case "contradictions":
			switch {
			case totalInstructionLike == 0:
				return "missing", "No content to evaluate"
			case foundBut == 0 && !hasOverlap:
				return "excellent", "No contradictions detected"
			case hasOverlap:
				return "fair", "Potential always/never contradiction"
			case foundBut >= 2:
				return "poor", fmt.Sprintf("Multiple contradictions: %d", foundBut)
			}
			return "good", fmt.Sprintf("Minor potential conflict: %d", foundBut)
		}
		return "missing", "Unknown criterion"
	})

	return finish("instruction_clarity", cfg, res, "Instruction clarity is adequate")
}

// alwaysNeverOverlap flags word overlap between the first "always ..." and
// the first "never ..." statements, a cheap proxy for contradictory rules.
func alwaysNeverOverlap(body string) bool {
	always := alwaysStatement.FindStringSubmatch(body)
	never := neverStatement.FindStringSubmatch(body)
	if always == nil || never == nil {
		return false
	}
	alwaysWords := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(always[1])) {
		alwaysWords[w] = true
	}
	for _, w := range strings.Fields(strings.ToLower(never[1])) {
		if alwaysWords[w] {
			return true
		}
	}
	return false
}
