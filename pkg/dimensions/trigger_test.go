package dimensions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jingkaihe/skillgrade/pkg/config"
)

func TestTriggerDesignRichDescription(t *testing.T) {
	sk := testSkill(map[string]interface{}{
		"name": "pdf-tools",
		"description": `Use this skill when the user asks to "extract text", "parse tables", ` +
			`or "merge PDFs", mentions a PDF error message, or runs the ` + "`pdftool`" + ` command after a crash.`,
	}, "# pdf-tools\n", nil)

	score := TriggerDesign(Input{Skill: sk}, config.Default())
	assert.InDelta(t, 100.0, score.Score, 1e-9)
}

func TestTriggerDesignNoQuotedPhrases(t *testing.T) {
	sk := testSkill(map[string]interface{}{
		"name":        "pdf-tools",
		"description": "Provides guidance and helps with PDF processing tasks in general.",
	}, "# pdf-tools\n", nil)

	score := TriggerDesign(Input{Skill: sk}, config.Default())
	joined := strings.Join(score.Findings, "\n")
	assert.Contains(t, joined, "trigger_phrases: poor")
	assert.Contains(t, joined, "keyword_specificity: fair")
	assert.Less(t, score.Score, 50.0)
}

func TestTriggerDesignWorkflowSummaryFlagged(t *testing.T) {
	sk := testSkill(map[string]interface{}{
		"name": "steps",
		"description": `This skill provides PDF handling. First it analyzes the file, then it ` +
			`identifies tables, and finally it applies the extraction so results stay consistent.`,
	}, "# steps\n", nil)

	score := TriggerDesign(Input{Skill: sk}, config.Default())
	assert.Contains(t, strings.Join(score.Findings, "\n"), "anti_patterns: fair")
}

func TestTriggerDesignMissingDocument(t *testing.T) {
	score := TriggerDesign(Input{Skill: emptySkill()}, config.Default())
	assert.Zero(t, score.Score)
}
