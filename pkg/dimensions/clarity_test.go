package dimensions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jingkaihe/skillgrade/pkg/config"
)

func TestInstructionClarityImperativeBody(t *testing.T) {
	body := "Run the `extract.py` script.\n" +
		"Use the `merge` command on the output.\n" +
		"Check the result against `expected.json`.\n" +
		"Validate the totals with the `audit` tool.\n"
	sk := testSkill(map[string]interface{}{"name": "crisp"}, body, nil)

	score := InstructionClarity(Input{Skill: sk}, config.Default())
	assert.InDelta(t, 100.0, score.Score, 1e-9)
}

func TestInstructionClarityHedging(t *testing.T) {
	body := "You might want to run the script.\n" +
		"It could perhaps help, maybe.\n" +
		"Optionally adjust the settings as needed.\n"
	sk := testSkill(map[string]interface{}{"name": "vague"}, body, nil)

	score := InstructionClarity(Input{Skill: sk}, config.Default())
	assert.Contains(t, strings.Join(score.Findings, "\n"), "ambiguity: poor")
	assert.Less(t, score.Score, 50.0)
}

func TestInstructionClarityAlwaysNeverOverlap(t *testing.T) {
	body := "Run the tests.\n" +
		"Always quote the user input.\n" +
		"Never quote the user input.\n"
	sk := testSkill(map[string]interface{}{"name": "conflicted"}, body, nil)

	score := InstructionClarity(Input{Skill: sk}, config.Default())
	assert.Contains(t, strings.Join(score.Findings, "\n"), "contradictions: fair")
}

func TestInstructionClarityEmptyBody(t *testing.T) {
	sk := testSkill(map[string]interface{}{"name": "hollow"}, "# heading only\n", nil)

	score := InstructionClarity(Input{Skill: sk}, config.Default())
	assert.Zero(t, score.Score)
}

func TestAlwaysNeverOverlap(t *testing.T) {
	assert.True(t, alwaysNeverOverlap("Always escape input.\nNever escape twice.\n"))
	assert.False(t, alwaysNeverOverlap("Always commit.\nNever push directly.\n"))
	assert.False(t, alwaysNeverOverlap("Always commit.\n"))
}
