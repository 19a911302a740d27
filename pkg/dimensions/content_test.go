package dimensions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jingkaihe/skillgrade/pkg/config"
)

func TestContentFullScore(t *testing.T) {
	score := Content(Input{Skill: wellFormedSkill()}, config.Default())
	assert.InDelta(t, 100.0, score.Score, 1e-9)
}

func TestContentMinimalBody(t *testing.T) {
	sk := testSkill(map[string]interface{}{"name": "tiny"}, "just one line of prose\n", nil)
	score := Content(Input{Skill: sk}, config.Default())

	// brief 50*0.20 + missing 0*0.30 + minimal 25*0.30 + poor 25*0.20
	assert.InDelta(t, 22.5, score.Score, 1e-9)
	assert.NotEmpty(t, score.Recommendations)
}

func TestContentTodoPenalty(t *testing.T) {
	body := strings.Repeat("Some filler prose line for length purposes.\n", 25) +
		"## Overview\n\nText.\n\n[TODO: write the rest]\n"
	sk := testSkill(map[string]interface{}{"name": "draft"}, body, nil)

	score := Content(Input{Skill: sk}, config.Default())
	assert.Contains(t, strings.Join(score.Findings, "\n"), "incomplete")
}

func TestContentExternalOnlyWorkflow(t *testing.T) {
	body := `## Overview

Prose about the skill.

## Usage

[full workflow](references/workflow.md)
`
	sk := testSkill(map[string]interface{}{"name": "thin"}, body, nil)
	score := Content(Input{Skill: sk}, config.Default())
	assert.Contains(t, strings.Join(score.Findings, "\n"), "external_only")
}

func TestContentMissingDocument(t *testing.T) {
	score := Content(Input{Skill: emptySkill()}, config.Default())
	assert.Zero(t, score.Score)
}
