package dimensions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jingkaihe/skillgrade/pkg/config"
)

func TestEfficiencyCompactDocument(t *testing.T) {
	score := Efficiency(Input{Skill: wellFormedSkill()}, config.Default())
	assert.InDelta(t, 100.0, score.Score, 1e-9)
}

func TestEfficiencyDuplicateLines(t *testing.T) {
	dup := "This exact sentence repeats itself throughout the document.\n"
	body := "# doc\n" + strings.Repeat(dup, 4)
	sk := testSkill(map[string]interface{}{"name": "echoes"}, body, nil)

	score := Efficiency(Input{Skill: sk}, config.Default())
	assert.Contains(t, strings.Join(score.Findings, "\n"), "content_redundancy: moderate")
}

func TestEfficiencyBloatedDocument(t *testing.T) {
	long := strings.Repeat("word ", 11) // 55 chars per line
	body := strings.Repeat(long+"\n", 400)
	sk := testSkill(map[string]interface{}{"name": "bloat"}, body, nil)

	score := Efficiency(Input{Skill: sk}, config.Default())
	joined := strings.Join(score.Findings, "\n")
	assert.Contains(t, joined, "token_efficiency: bloated")
	assert.NotEmpty(t, score.Recommendations)
}

func TestEfficiencyMissingDocument(t *testing.T) {
	score := Efficiency(Input{Skill: emptySkill()}, config.Default())
	assert.Zero(t, score.Score)
}
