package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/rubric"
	"github.com/jingkaihe/skillgrade/pkg/rules"
	"github.com/jingkaihe/skillgrade/pkg/skill"
)

func validSkill() *skill.Skill {
	document := "---\nname: pdf-tools\ndescription: Extracts text from PDFs. Use when handling PDF files.\n---\n\n# pdf-tools\n\nExtract text from PDF documents.\n"
	return &skill.Skill{
		Name:      "pdf-tools",
		Directory: "/skills/pdf-tools",
		Frontmatter: map[string]interface{}{
			"name":        "pdf-tools",
			"description": "Extracts text from PDFs. Use when handling PDF files.",
		},
		Files: []skill.File{
			{Path: skill.DocumentName, Content: document, Size: int64(len(document))},
		},
	}
}

func TestGradeFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "A"},
		{95, "A"},
		{90, "A"},
		{89.999, "B"},
		{70, "B"},
		{69.9, "C"},
		{50, "C"},
		{49.9, "D"},
		{30, "D"},
		{29.999, "F"},
		{0, "F"},
		{-5, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFromScore(tt.score).Letter, "score %v", tt.score)
	}
}

func TestBuildComputesWeightedTotalAndGrade(t *testing.T) {
	dims := []rubric.DimensionScore{
		{Name: "content", Score: 80, Weight: 0.5},
		{Name: "security", Score: 60, Weight: 0.5},
	}

	r := Build(Params{
		Skill:      validSkill(),
		Config:     config.Default(),
		Dimensions: dims,
	})

	assert.Equal(t, 70.0, r.TotalScore)
	assert.Equal(t, "B", r.Grade)
	assert.Equal(t, "Minor fixes needed", r.GradeDescription)
	assert.Equal(t, "pdf-tools", r.SkillName)
	assert.Equal(t, "/skills/pdf-tools", r.SkillPath)
	assert.True(t, r.Validation.Passed)
	assert.Equal(t, "default", r.ConfigSource)
}

func TestBuildRecordsValidationProblems(t *testing.T) {
	sk := validSkill()
	delete(sk.Frontmatter, "description")

	r := Build(Params{Skill: sk, Config: config.Default()})

	assert.False(t, r.Validation.Passed)
	assert.Contains(t, r.Validation.Problems, "missing 'description' in frontmatter")
}

func TestCategorizeBucketsByPriority(t *testing.T) {
	dims := []rubric.DimensionScore{
		{Name: "security", Score: 45, Weight: 0.17, Recommendations: []string{"remove shell execution"}},
		{Name: "content", Score: 55, Weight: 0.20, Recommendations: []string{"add a quick start section"}},
		{Name: "structure", Score: 80, Weight: 0.10, Recommendations: []string{"add a references directory"}},
	}

	recs := categorize(dims, nil, config.Default())

	require.Len(t, recs.Critical, 1)
	assert.Equal(t, "security", recs.Critical[0].Dimension)
	assert.Equal(t, "remove shell execution", recs.Critical[0].Message)

	require.Len(t, recs.High, 1)
	assert.Equal(t, "content", recs.High[0].Dimension)

	require.Len(t, recs.Medium, 1)
	assert.Equal(t, "structure", recs.Medium[0].Dimension)
}

func TestCategorizeErrorFindingForcesSecurityCritical(t *testing.T) {
	dims := []rubric.DimensionScore{
		{Name: "security", Score: 85, Weight: 0.17, Recommendations: []string{"review the subprocess call"}},
	}
	findings := []rules.Finding{
		{RuleID: "SEC001", File: "scripts/run.py", Line: 3, Severity: rules.SeverityError, Message: "shell execution"},
	}

	recs := categorize(dims, findings, config.Default())

	require.Len(t, recs.Critical, 1)
	assert.Empty(t, recs.High)
	assert.Empty(t, recs.Medium)
}

func TestCategorizeWithoutErrorFindingSecurityAboveThresholdIsMedium(t *testing.T) {
	dims := []rubric.DimensionScore{
		{Name: "security", Score: 85, Weight: 0.17, Recommendations: []string{"document security considerations"}},
	}

	recs := categorize(dims, nil, config.Default())

	assert.Empty(t, recs.Critical)
	assert.Empty(t, recs.High)
	require.Len(t, recs.Medium, 1)
}

func TestCategorizeDeduplicatesByMessage(t *testing.T) {
	dims := []rubric.DimensionScore{
		{Name: "content", Score: 40, Weight: 0.20, Recommendations: []string{"add examples", "add examples"}},
		{Name: "structure", Score: 80, Weight: 0.10, Recommendations: []string{"add examples"}},
	}

	recs := categorize(dims, nil, config.Default())

	require.Len(t, recs.High, 1)
	assert.Empty(t, recs.Medium)
}

func TestStrengthsListsExcellentDimensions(t *testing.T) {
	dims := []rubric.DimensionScore{
		{Name: "frontmatter", Score: 100, Weight: 0.08},
		{Name: "trigger_design", Score: 95, Weight: 0.08},
		{Name: "content", Score: 89, Weight: 0.20},
	}

	got := strengths(dims, config.Default())

	require.Len(t, got, 2)
	assert.Equal(t, "Frontmatter (100/100)", got[0])
	assert.Equal(t, "Trigger Design (95/100)", got[1])
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Security", titleCase("security"))
	assert.Equal(t, "Trigger Design", titleCase("trigger_design"))
	assert.Equal(t, "Best Practices", titleCase("best_practices"))
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	r := Build(Params{
		Skill:  validSkill(),
		Config: config.Default(),
		Dimensions: []rubric.DimensionScore{
			{Name: "content", Score: 75, Weight: 1.0, Findings: []string{"content_length: good (75%) - 42 lines"}},
		},
	})

	f, err := NewFormatter("json")
	require.NoError(t, err)
	out, err := f.Format(r)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 75.0, decoded["total_score"])
	assert.Equal(t, "B", decoded["grade"])
	assert.Equal(t, "pdf-tools", decoded["skill_name"])
}

func TestSchemaDescribesReportContract(t *testing.T) {
	out, err := Schema()
	require.NoError(t, err)
	assert.Contains(t, string(out), "total_score")
	assert.Contains(t, string(out), "recommendations")
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"", "text", "json", "markdown", "md"} {
		f, err := NewFormatter(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	_, err := NewFormatter("xml")
	assert.Error(t, err)
}
