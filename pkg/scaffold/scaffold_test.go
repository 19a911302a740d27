package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillgrade/pkg/skill"
)

func TestCreateGeneric(t *testing.T) {
	dir, err := Create("pdf-tools", Options{Dir: t.TempDir()})
	require.NoError(t, err)

	doc, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "name: pdf-tools")
	assert.Contains(t, string(doc), "# Pdf Tools")
	assert.Contains(t, string(doc), "[TODO:")

	script, err := os.Stat(filepath.Join(dir, "scripts", "example.py"))
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.NotZero(t, script.Mode()&0o111)
	}

	assert.FileExists(t, filepath.Join(dir, "references", "api_reference.md"))
	assert.DirExists(t, filepath.Join(dir, "assets"))
}

func TestCreateRendersPlaceholders(t *testing.T) {
	dir, err := Create("web3-audit", Options{Dir: t.TempDir(), Type: "technique"})
	require.NoError(t, err)

	doc, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "name: web3-audit")
	assert.Contains(t, string(doc), "# Web3 Audit")
	assert.Contains(t, string(doc), "## When to Use")
	assert.NotContains(t, string(doc), "{{")

	script, err := os.ReadFile(filepath.Join(dir, "scripts", "example.py"))
	require.NoError(t, err)
	assert.Contains(t, string(script), "Web3 Audit Utility")
	assert.NotContains(t, string(script), "{{.")
}

func TestCreateTypedTemplates(t *testing.T) {
	headings := map[string]string{
		"technique": "## When to Use",
		"pattern":   "## Trade-offs",
		"reference": "## Quick Lookup",
	}
	for skillType, heading := range headings {
		t.Run(skillType, func(t *testing.T) {
			dir, err := Create("my-skill", Options{Dir: t.TempDir(), Type: skillType})
			require.NoError(t, err)
			doc, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
			require.NoError(t, err)
			assert.Contains(t, string(doc), heading)
		})
	}
}

func TestCreateScaffoldLoads(t *testing.T) {
	dir, err := Create("fresh-skill", Options{Dir: t.TempDir()})
	require.NoError(t, err)

	sk, err := skill.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "fresh-skill", sk.Frontmatter["name"])

	problems := skill.Validate(sk)
	require.NotEmpty(t, problems)
	assert.Contains(t, problems[0], "[TODO:]")
}

func TestCreateRejectsBadName(t *testing.T) {
	_, err := Create("Bad_Name", Options{Dir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hyphen-case")
}

func TestCreateRejectsBadType(t *testing.T) {
	_, err := Create("ok-skill", Options{Dir: t.TempDir(), Type: "tutorial"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid skill type")
}

func TestCreateRejectsExistingDirectory(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "taken"), 0o755))

	_, err := Create("taken", Options{Dir: parent})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
