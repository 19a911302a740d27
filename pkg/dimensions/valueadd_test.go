package dimensions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jingkaihe/skillgrade/pkg/config"
)

func TestValueAddArtifactLevels(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name: "all three directories",
			files: map[string]string{
				"scripts/run.py":    "print('x')\n",
				"references/ref.md": "# ref\n",
				"assets/logo.txt":   "logo\n",
			},
			want: "artifacts: excellent",
		},
		{
			name: "scripts and references",
			files: map[string]string{
				"scripts/run.py":    "print('x')\n",
				"references/ref.md": "# ref\n",
			},
			want: "artifacts: good",
		},
		{
			name:  "scripts only",
			files: map[string]string{"scripts/run.sh": "echo hi\n"},
			want:  "artifacts: fair",
		},
		{
			name:  "nothing",
			files: nil,
			want:  "artifacts: missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sk := testSkill(map[string]interface{}{"name": "arts"}, "Run `scripts/run.py` now.\n", tt.files)
			score := ValueAdd(Input{Skill: sk}, config.Default())
			assert.Contains(t, strings.Join(score.Findings, "\n"), tt.want)
		})
	}
}

func TestValueAddSpecificBody(t *testing.T) {
	body := "Run `python3 scripts/extract.py` with the --verbose flag.\n" +
		"Step 1: import resolve from ./resolver and set $OUTPUT_DIR.\n" +
		"Error: parse failure - rerun with --retry.\n"
	sk := testSkill(map[string]interface{}{"name": "specific"}, body, map[string]string{
		"scripts/extract.py": "print('x')\n",
	})

	score := ValueAdd(Input{Skill: sk}, config.Default())
	joined := strings.Join(score.Findings, "\n")
	assert.Contains(t, joined, "specificity: excellent")
	assert.Contains(t, joined, "anti_patterns: excellent")
}

func TestValueAddGenericAdviceFlagged(t *testing.T) {
	body := "Follow best practices and write clean code.\n" +
		"Be consistent and keep it simple at every step.\n" +
		"Think about the tradeoffs and make informed decisions.\n"
	sk := testSkill(map[string]interface{}{"name": "generic"}, body, nil)

	score := ValueAdd(Input{Skill: sk}, config.Default())
	joined := strings.Join(score.Findings, "\n")
	assert.Contains(t, joined, "generic advice")
}

func TestValueAddMissingDocument(t *testing.T) {
	score := ValueAdd(Input{Skill: emptySkill()}, config.Default())
	assert.Zero(t, score.Score)
}
