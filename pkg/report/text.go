package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	gradeStyles = map[string]lipgloss.Style{
		"A": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#9ece6a"}),
		"B": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#9ece6a"}),
		"C": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#b58900", Dark: "#e0af68"}),
		"D": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#f7768e"}),
		"F": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#f7768e"}),
	}
)

// TextFormatter renders the plain-text report, the default for terminals.
type TextFormatter struct{}

func (f *TextFormatter) Format(r *EvaluationReport) (string, error) {
	rule := strings.Repeat("=", 70)
	thin := strings.Repeat("-", 70)

	var b strings.Builder
	writeln := func(lines ...string) {
		for _, l := range lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}

	writeln(rule,
		titleStyle.Render("SKILL EVALUATION REPORT"),
		"Skill: "+r.SkillName,
		"Path: "+r.SkillPath,
		rule,
		"")

	writeln("## Phase 1: Structural Validation", thin)
	if r.Validation.Passed {
		writeln("PASSED: structure and frontmatter conform")
	} else {
		writeln("FAILED:")
		for _, p := range r.Validation.Problems {
			writeln("  - " + p)
		}
	}
	writeln("")

	writeln("## Phase 2: Quality Assessment", thin, "")
	for _, d := range r.Dimensions {
		writeln("### " + titleCase(d.Name))
		writeln("Score: " + formatScore1(d.Score) + "/100 | " +
			"Weight: " + formatScore(d.Weight*100) + "% | " +
			"Weighted: " + formatScore2(d.WeightedScore()))
		writeln("")
		if len(d.Findings) > 0 {
			writeln("Findings:")
			for _, finding := range d.Findings {
				writeln("  * " + finding)
			}
			writeln("")
		}
		if len(d.Recommendations) > 0 {
			writeln("Recommendations:")
			for _, rec := range d.Recommendations {
				writeln("  > " + rec)
			}
			writeln("")
		}
	}

	writeln("## Overall Score", thin)
	writeln("Total Score: " + formatScore2(r.TotalScore) + "/100")
	gradeLine := "Grade: " + r.Grade + " - " + r.GradeDescription
	if style, ok := gradeStyles[r.Grade]; ok {
		gradeLine = "Grade: " + style.Render(r.Grade+" - "+r.GradeDescription)
	}
	writeln(gradeLine, "")

	if len(r.Strengths) > 0 {
		writeln("## Strengths", thin)
		for _, s := range r.Strengths {
			writeln("  + " + s)
		}
		writeln("")
	}

	writeRecommendationBucket(writeln, thin, "Critical (fix immediately)", r.Recommendations.Critical)
	writeRecommendationBucket(writeln, thin, "High Priority", r.Recommendations.High)
	writeRecommendationBucket(writeln, thin, "Medium Priority", r.Recommendations.Medium)

	writeln("### Grading Scale")
	for _, g := range GradeScale {
		writeln(g.Letter + " (" + formatScore1(g.MinScore) + "-" + formatScore1(g.MaxScore) + ") | " + g.Description)
	}
	writeln("", rule)

	return b.String(), nil
}

func writeRecommendationBucket(writeln func(...string), thin, heading string, items []Recommendation) {
	if len(items) == 0 {
		return
	}
	writeln("## "+heading, thin)
	for _, item := range items {
		writeln("  [" + titleCase(item.Dimension) + "] " + item.Message)
	}
	writeln("")
}
