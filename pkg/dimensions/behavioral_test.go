package dimensions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jingkaihe/skillgrade/pkg/config"
)

func TestBehavioralReadinessRichSkill(t *testing.T) {
	body := "## Examples\n\n" +
		"```python\nprint(1)\n```\n" +
		"```python\nprint(2)\n```\n" +
		"```python\nprint(3)\n```\n" +
		"Given a PDF, When extraction runs, Then text appears.\n\n" +
		"## Common Mistakes\n\n" +
		"Don't pass unsanitized paths. Never run output in a shell. Avoid temp files. Do not skip validation.\n" +
		"Bad: `os.system(cmd)` ❌\n" +
		"Good: `subprocess.run(args)` ✅\n" +
		"Wrong: silent failure. Correct: raise the error.\n\n" +
		"## Troubleshooting\n\n" +
		"If extraction fails, retry with the fallback to the slow parser.\n" +
		"An error or exception or timeout or crash or failure should be logged.\n\n" +
		"Handle the edge case where input is empty and the corner case where pages are missing.\n" +
		"Respect maximum size, minimum size, null bytes, and optional fields. An edge case may hide here.\n" +
		"Watch the edge case of zero pages.\n"
	sk := testSkill(map[string]interface{}{"name": "ready"}, body, map[string]string{
		"tests/scenarios.yaml": "should_trigger:\n  - extract text\nshould_not_trigger:\n  - write prose\n",
	})

	score := BehavioralReadiness(Input{Skill: sk}, config.Default())
	joined := strings.Join(score.Findings, "\n")
	assert.Contains(t, joined, "examples: excellent")
	assert.Contains(t, joined, "anti_patterns: excellent")
	assert.Contains(t, joined, "error_handling: excellent")
	assert.Contains(t, joined, "edge_cases: excellent")
	assert.Contains(t, joined, "test_infrastructure: excellent")
}

func TestBehavioralReadinessTriggerTests(t *testing.T) {
	body := "Do not use this skill for prose writing.\nShould not trigger on general questions.\n"
	sk := testSkill(map[string]interface{}{"name": "triggers"}, body, map[string]string{
		"tests/scenarios.yaml": "trigger_tests:\n  - input: extract\n",
	})

	score := BehavioralReadiness(Input{Skill: sk}, config.Default())
	assert.Contains(t, strings.Join(score.Findings, "\n"), "trigger_testing: excellent")
}

func TestBehavioralReadinessBareSkill(t *testing.T) {
	sk := testSkill(map[string]interface{}{"name": "bare"}, "Just prose with no guidance.\n", nil)
	score := BehavioralReadiness(Input{Skill: sk}, config.Default())
	assert.Less(t, score.Score, 30.0)
}

func TestGradedCredit(t *testing.T) {
	assert.Equal(t, 1.0, graded(3, 3))
	assert.Equal(t, 0.5, graded(1, 3))
	assert.Equal(t, 0.0, graded(0, 3))
	assert.Equal(t, 0.5, graded2(3, 5, 2))
}
