package report

import (
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

const markdownTemplate = `# Skill Quality Evaluation: {{.SkillName}}

**Quality:** {{.QualityLevel}}
**Readiness:** {{.Readiness}}
**Path:** ` + "`{{.SkillPath}}`" + `

---

## Phase 1: Structural Validation

{{.ValidationLine}}

---

## Phase 2: Quality Assessment

### Summary

| Dimension | Score | Weight | Weighted |
|-----------|-------|--------|----------|
{{.ScoresTable}}

### Dimension Details

{{.DimensionDetails}}
---

## Overall Score

**Total Score:** {{.TotalScore}}/100

**Grade:** {{.Grade}} - {{.GradeDescription}}

---

## Recommendations

### Critical (Fix Immediately)

{{.Critical}}

### High Priority

{{.High}}

### Medium Priority

{{.Medium}}

---

## Positive Aspects

{{.Strengths}}
`

// qualityLevels maps grade letters to one-word quality labels.
var qualityLevels = map[string]string{
	"A": "Excellent",
	"B": "Good",
	"C": "Fair",
	"D": "Needs Work",
	"F": "Poor",
}

// MarkdownFormatter renders a GitHub-flavored Markdown report.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(r *EvaluationReport) (string, error) {
	tmpl, err := template.New("report").Parse(markdownTemplate)
	if err != nil {
		return "", errors.Wrap(err, "parsing markdown report template")
	}

	data := struct {
		SkillName        string
		SkillPath        string
		QualityLevel     string
		Readiness        string
		ValidationLine   string
		ScoresTable      string
		DimensionDetails string
		TotalScore       string
		Grade            string
		GradeDescription string
		Critical         string
		High             string
		Medium           string
		Strengths        string
	}{
		SkillName:        r.SkillName,
		SkillPath:        r.SkillPath,
		QualityLevel:     qualityLevels[r.Grade],
		Readiness:        r.GradeDescription,
		ValidationLine:   validationLine(r.Validation),
		ScoresTable:      scoresTable(r),
		DimensionDetails: dimensionDetails(r),
		TotalScore:       formatScore2(r.TotalScore),
		Grade:            r.Grade,
		GradeDescription: r.GradeDescription,
		Critical:         recommendationList(r.Recommendations.Critical),
		High:             recommendationList(r.Recommendations.High),
		Medium:           recommendationList(r.Recommendations.Medium),
		Strengths:        strengthsList(r.Strengths),
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", errors.Wrap(err, "rendering markdown report")
	}
	return b.String(), nil
}

func validationLine(v Validation) string {
	if v.Passed {
		return "✅ **PASSED:** structure and frontmatter conform"
	}
	var b strings.Builder
	b.WriteString("❌ **FAILED:**\n")
	for _, p := range v.Problems {
		b.WriteString("- " + p + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func scoresTable(r *EvaluationReport) string {
	rows := make([]string, 0, len(r.Dimensions))
	for _, d := range r.Dimensions {
		rows = append(rows, "| "+titleCase(d.Name)+" | "+
			formatScore1(d.Score)+"/100 | "+
			formatScore(d.Weight*100)+"% | "+
			formatScore2(d.WeightedScore())+" |")
	}
	return strings.Join(rows, "\n")
}

func dimensionDetails(r *EvaluationReport) string {
	var b strings.Builder
	for _, d := range r.Dimensions {
		b.WriteString("#### " + titleCase(d.Name) + "\n\n")
		if len(d.Findings) > 0 {
			b.WriteString("**Findings:**\n")
			for _, finding := range d.Findings {
				b.WriteString("- " + finding + "\n")
			}
			b.WriteString("\n")
		}
		if len(d.Recommendations) > 0 {
			b.WriteString("**Recommendations:**\n")
			for _, rec := range d.Recommendations {
				b.WriteString("- " + rec + "\n")
			}
			b.WriteString("\n")
		}
		if len(d.Findings) == 0 && len(d.Recommendations) == 0 {
			b.WriteString("*No issues found.*\n\n")
		}
	}
	return b.String()
}

func recommendationList(items []Recommendation) string {
	if len(items) == 0 {
		return "*None*"
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- **"+titleCase(item.Dimension)+":** "+item.Message)
	}
	return strings.Join(lines, "\n")
}

func strengthsList(strengths []string) string {
	if len(strengths) == 0 {
		return "*No significant strengths identified.*"
	}
	lines := make([]string, 0, len(strengths))
	for _, s := range strengths {
		lines = append(lines, "- **"+s+"**")
	}
	return strings.Join(lines, "\n")
}
