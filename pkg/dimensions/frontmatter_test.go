package dimensions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jingkaihe/skillgrade/pkg/config"
)

func TestFrontmatterFullScore(t *testing.T) {
	sk := testSkill(map[string]interface{}{
		"name":        "pdf-tools",
		"description": "Use this skill when the user asks to extract PDF text.",
	}, "# pdf-tools\n", nil)

	score := Frontmatter(Input{Skill: sk}, config.Default())
	assert.InDelta(t, 100.0, score.Score, 1e-9)
	assert.Contains(t, score.Recommendations, "Frontmatter is adequate")
}

func TestFrontmatterMissingDescription(t *testing.T) {
	sk := testSkill(map[string]interface{}{"name": "pdf-tools"}, "# pdf-tools\n", nil)

	score := Frontmatter(Input{Skill: sk}, config.Default())
	// partial 50*0.40 + missing 0*0.35 + perfect 100*0.25
	assert.InDelta(t, 45.0, score.Score, 1e-9)
	assert.NotEmpty(t, score.Recommendations)
}

func TestFrontmatterBadName(t *testing.T) {
	sk := testSkill(map[string]interface{}{
		"name":        "PDF_Tools",
		"description": "Use this skill when the user asks to extract PDF text.",
	}, "body\n", nil)

	score := Frontmatter(Input{Skill: sk}, config.Default())
	// complete 40 + excellent 35 + invalid 0
	assert.InDelta(t, 75.0, score.Score, 1e-9)
}

func TestFrontmatterHyphenPlacement(t *testing.T) {
	sk := testSkill(map[string]interface{}{
		"name":        "pdf--tools",
		"description": "Use this skill when the user asks to extract PDF text.",
	}, "body\n", nil)

	score := Frontmatter(Input{Skill: sk}, config.Default())
	// complete 40 + excellent 35 + minor_issues 12.5
	assert.InDelta(t, 87.5, score.Score, 1e-9)
}

func TestFrontmatterShortDescription(t *testing.T) {
	sk := testSkill(map[string]interface{}{
		"name":        "pdf-tools",
		"description": "PDF helper",
	}, "body\n", nil)

	score := Frontmatter(Input{Skill: sk}, config.Default())
	// complete 40 + poor 25*0.35 + perfect 25
	assert.InDelta(t, 73.75, score.Score, 1e-9)
}

func TestFrontmatterMissingDocument(t *testing.T) {
	score := Frontmatter(Input{Skill: emptySkill()}, config.Default())
	assert.Zero(t, score.Score)
	assert.Contains(t, score.Findings, "SKILL.md not found")
}

func TestFrontmatterMalformed(t *testing.T) {
	sk := testSkill(nil, "no frontmatter here\n", nil)
	sk.ParseWarnings = []string{"frontmatter: missing opening fence"}

	score := Frontmatter(Input{Skill: sk}, config.Default())
	assert.Zero(t, score.Score)
	assert.Contains(t, score.Findings, "frontmatter: missing opening fence")
}
