package dimensions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillgrade/pkg/config"
)

func TestBestPracticesFullScore(t *testing.T) {
	score := BestPractices(Input{Skill: wellFormedSkill()}, config.Default())
	assert.InDelta(t, 100.0, score.Score, 1e-9)
	assert.Contains(t, score.Recommendations, "Follows best practices")
}

func TestBestPracticesTodoCount(t *testing.T) {
	body := "## When to use\n\nTODO: first\nTODO: second\nTODO: third\n"
	sk := testSkill(map[string]interface{}{
		"name":        "drafty",
		"description": "Use this skill when drafting PDF extraction flows.",
	}, body, nil)

	score := BestPractices(Input{Skill: sk}, config.Default())
	assert.Contains(t, strings.Join(score.Findings, "\n"), "todo_resolution: moderate")
}

func TestBestPracticesScriptHygiene(t *testing.T) {
	sk := testSkill(map[string]interface{}{
		"name":        "scripted",
		"description": "Use this skill when running the bundled scripts.",
	}, "## When to use\n\nRun the scripts.\n", map[string]string{
		"scripts/good.py":     "#!/usr/bin/env python3\nfrom __future__ import annotations\n",
		"scripts/bad.py":      "import os\n",
		"scripts/__init__.py": "",
	})

	score := BestPractices(Input{Skill: sk}, config.Default())
	// 1 of 2 real scripts has a shebang.
	assert.Contains(t, strings.Join(score.Findings, "\n"), "1/2 have shebang")
}

func TestBestPracticesMissingDocument(t *testing.T) {
	score := BestPractices(Input{Skill: emptySkill()}, config.Default())
	assert.Zero(t, score.Score)
}

func TestCodeQualityNeutralWithoutScripts(t *testing.T) {
	sk := testSkill(map[string]interface{}{"name": "proseonly"}, "prose\n", nil)
	score := CodeQuality(Input{Skill: sk}, config.Default())

	assert.InDelta(t, 50.0, score.Score, 1e-9)
	assert.Contains(t, score.Findings, "No scripts directory")
	assert.Empty(t, score.Recommendations)
}

func TestCodeQualityNeutralWithoutPythonScripts(t *testing.T) {
	sk := testSkill(map[string]interface{}{"name": "shellonly"}, "prose\n", map[string]string{
		"scripts/run.sh": "echo hi\n",
	})
	score := CodeQuality(Input{Skill: sk}, config.Default())

	assert.InDelta(t, 50.0, score.Score, 1e-9)
	assert.Contains(t, score.Findings, "No Python scripts found")
}

func TestCodeQualityFullHygiene(t *testing.T) {
	script := `#!/usr/bin/env python3
"""Extract text from PDFs."""

def run(path: str) -> str:
    try:
        return path
    except ValueError:
        raise

if __name__ == "__main__":
    run("x")
`
	sk := testSkill(map[string]interface{}{"name": "tidy"}, "prose\n", map[string]string{
		"scripts/extract.py": script,
	})

	score := CodeQuality(Input{Skill: sk}, config.Default())
	assert.InDelta(t, 100.0, score.Score, 1e-9)
}

func TestCodeQualityBareExceptReported(t *testing.T) {
	script := "try:\n    pass\nexcept:\n    pass\n"
	sk := testSkill(map[string]interface{}{"name": "sloppy"}, "prose\n", map[string]string{
		"scripts/run.py": script,
	})

	score := CodeQuality(Input{Skill: sk}, config.Default())
	require.NotEmpty(t, score.Findings)
	assert.Contains(t, score.Findings, "Found 1 bare except clauses")
	assert.Less(t, score.Score, 50.0)
}
