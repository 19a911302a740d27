package dimensions

import (
	"fmt"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
)

// charsPerToken is the rough character-to-token conversion used for sizing.
const charsPerToken = 4

// duplicateMinLength is the shortest line length counted toward redundancy;
// shorter lines repeat legitimately (list markers, fences).
const duplicateMinLength = 20

var efficiencyScorer = rubric.NewScorer([]rubric.Criterion{
	{
		Name:        "token_efficiency",
		Description: "Token count relative to content value",
		Weight:      0.50,
		Levels: []rubric.Level{
			level("efficient", rubric.ScoreExcellent, "<500 tokens - highly efficient"),
			level("reasonable", rubric.ScoreGood, "500-1500 tokens - reasonable size"),
			level("large", rubric.ScoreFair, "1500-3000 tokens - consider splitting"),
			level("excessive", rubric.ScorePoor, "3000-5000 tokens - strongly consider splitting"),
			level("bloated", rubric.ScoreMissing, ">5000 tokens - must split into smaller skills"),
		},
	},
	{
		Name:        "content_redundancy",
		Description: "Absence of duplicate or redundant content",
		Weight:      0.30,
		Levels: []rubric.Level{
			level("clean", rubric.ScoreExcellent, "No duplicate lines found"),
			level("minimal", rubric.ScoreGood, "1-2 duplicate lines (acceptable)"),
			level("moderate", rubric.ScoreFair, "3-5 duplicate lines - review recommended"),
			level("redundant", rubric.ScorePoor, "6-10 duplicate lines - consolidation needed"),
			level("severe", rubric.ScoreMissing, "Many duplicates - significant consolidation required"),
		},
	},
	{
		Name:        "conciseness",
		Description: "Average words per line (brevity)",
		Weight:      0.20,
		Levels: []rubric.Level{
			level("concise", rubric.ScoreExcellent, "<20 words/line - very concise"),
			level("clear", rubric.ScoreGood, "20-30 words/line - appropriate"),
			level("verbose", rubric.ScoreFair, "30-40 words/line - somewhat verbose"),
			level("wordy", rubric.ScorePoor, "40-50 words/line - needs editing"),
			level("bloated", rubric.ScoreMissing, ">50 words/line - split into multiple lines"),
		},
	},
})

// Efficiency scores the document's size and redundancy.
func Efficiency(in Input, cfg *config.Config) rubric.DimensionScore {
	sk := in.Skill
	if !hasDocument(sk) {
		return absent("efficiency", cfg, "SKILL.md not found", "Create SKILL.md")
	}

	document := sk.Document()
	tokenEstimate := len(document) / charsPerToken

	var nonEmpty []string
	for _, line := range strings.Split(document, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			nonEmpty = append(nonEmpty, trimmed)
		}
	}

	seen := map[string]bool{}
	duplicates := 0
	for _, line := range nonEmpty {
		lower := strings.ToLower(line)
		if len(lower) <= duplicateMinLength {
			continue
		}
		if seen[lower] {
			duplicates++
		}
		seen[lower] = true
	}

	totalWords := 0
	for _, line := range nonEmpty {
		totalWords += len(strings.Fields(line))
	}
	avgWordsPerLine := 0.0
	if len(nonEmpty) > 0 {
		avgWordsPerLine = float64(totalWords) / float64(len(nonEmpty))
	}

	res := efficiencyScorer.Evaluate(func(c rubric.Criterion) (string, string) {
		switch c.Name {
		case "token_efficiency":
			switch {
			case tokenEstimate < 500:
				return "efficient", fmt.Sprintf("~%d tokens (efficient)", tokenEstimate)
			case tokenEstimate < 1500:
				return "reasonable", fmt.Sprintf("~%d tokens (reasonable)", tokenEstimate)
			case tokenEstimate < 3000:
				return "large", fmt.Sprintf("~%d tokens (large)", tokenEstimate)
			case tokenEstimate < 5000:
				return "excessive", fmt.Sprintf("~%d tokens (excessive)", tokenEstimate)
			}
			return "bloated", fmt.Sprintf("~%d tokens (must split)", tokenEstimate)
		case "content_redundancy":
			switch {
			case duplicates == 0:
				return "clean", "No duplicate lines"
			case duplicates <= 2:
				return "minimal", fmt.Sprintf("%d duplicate line(s)", duplicates)
			case duplicates <= 5:
				return "moderate", fmt.Sprintf("%d duplicate lines", duplicates)
			case duplicates <= 10:
				return "redundant", fmt.Sprintf("%d duplicate lines", duplicates)
			}
			return "severe", fmt.Sprintf("%d duplicate lines", duplicates)
		case "conciseness":
			switch {
			case avgWordsPerLine < 20:
				return "concise", fmt.Sprintf("%.1f words/line (concise)", avgWordsPerLine)
			case avgWordsPerLine < 30:
				return "clear", fmt.Sprintf("%.1f words/line (clear)", avgWordsPerLine)
			case avgWordsPerLine < 40:
				return "verbose", fmt.Sprintf("%.1f words/line (verbose)", avgWordsPerLine)
			case avgWordsPerLine < 50:
				return "wordy", fmt.Sprintf("%.1f words/line (wordy)", avgWordsPerLine)
			}
			return "bloated", fmt.Sprintf("%.1f words/line (bloated)", avgWordsPerLine)
		}
		return "bloated", "Unknown criterion"
	})

	return finish("efficiency", cfg, res, "Content is efficient")
}
