package skill

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

const validDoc = `---
name: pdf-tools
description: Extract text and tables from PDF files
---

# PDF Tools

Use this skill when working with PDF files.
`

func TestLoad(t *testing.T) {
	dir := writeSkill(t, map[string]string{
		"SKILL.md":           validDoc,
		"scripts/extract.py": "#!/usr/bin/env python3\nprint('hi')\n",
		"references/api.md":  "# API\n",
	})

	sk, err := Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "pdf-tools", sk.Name)
	assert.Equal(t, "Extract text and tables from PDF files", sk.Description)
	assert.True(t, sk.Structure.HasScripts)
	assert.True(t, sk.Structure.HasReferences)
	assert.False(t, sk.Structure.HasAssets)
	assert.False(t, sk.Structure.DeeplyNested)
	assert.Empty(t, sk.ParseWarnings)
	assert.Len(t, sk.Files, 3)

	scripts := sk.ScriptFiles()
	require.Len(t, scripts, 1)
	assert.Equal(t, "python", scripts[0].Language)

	assert.Contains(t, sk.Body, "# PDF Tools")
	assert.NotContains(t, sk.Body, "name: pdf-tools")
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/skill")
	assert.Error(t, err)
}

func TestLoadPathIsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SKILL.md")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	_, err := Load(context.Background(), path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLoadMissingFrontmatter(t *testing.T) {
	dir := writeSkill(t, map[string]string{
		"SKILL.md": "# No frontmatter here\n",
	})

	sk, err := Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Empty(t, sk.Frontmatter)
	assert.NotEmpty(t, sk.ParseWarnings)
	assert.Equal(t, filepath.Base(dir), sk.Name)
}

func TestLoadMissingDocument(t *testing.T) {
	dir := writeSkill(t, map[string]string{
		"README.md": "# readme\n",
	})

	sk, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Contains(t, sk.ParseWarnings, "SKILL.md not found")
}

func TestLoadDeepNesting(t *testing.T) {
	dir := writeSkill(t, map[string]string{
		"SKILL.md":                "---\nname: deep\ndescription: nested\n---\nbody",
		"references/a/b/deep.md":  "# deep\n",
		"references/shallow.md":   "# shallow\n",
		"scripts/helpers/util.py": "x = 1\n",
	})

	sk, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, sk.Structure.DeeplyNested)
}

func TestLoadSkipsVendorDirs(t *testing.T) {
	dir := writeSkill(t, map[string]string{
		"SKILL.md":                  validDoc,
		"node_modules/pkg/index.js": "eval('x')\n",
		"__pycache__/mod.pyc":       "binary",
	})

	sk, err := Load(context.Background(), dir)
	require.NoError(t, err)
	for _, f := range sk.Files {
		assert.NotContains(t, f.Path, "node_modules")
		assert.NotContains(t, f.Path, "__pycache__")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  string
		expected string
	}{
		{"python extension", "scripts/run.py", "", "python"},
		{"typescript tsx", "src/app.tsx", "", "typescript"},
		{"javascript mjs", "lib/index.mjs", "", "javascript"},
		{"go file", "main.go", "", "go"},
		{"bash script", "setup.sh", "", "bash"},
		{"unknown extension", "data.csv", "", ""},
		{"shebang python", "scripts/run", "#!/usr/bin/env python3\nprint()", "python"},
		{"shebang bash", "scripts/setup", "#!/bin/bash\necho hi", "bash"},
		{"shebang node", "scripts/cli", "#!/usr/bin/env node\nconsole.log()", "javascript"},
		{"no shebang no extension", "LICENSE", "MIT License", ""},
		{"extension beats shebang", "run.rb", "#!/usr/bin/env python3", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectLanguage(tt.path, tt.content))
		})
	}
}

func TestFilesByLanguage(t *testing.T) {
	dir := writeSkill(t, map[string]string{
		"SKILL.md":           validDoc,
		"scripts/a.py":       "x = 1\n",
		"scripts/b.py":       "y = 2\n",
		"scripts/c.sh":       "echo hi\n",
		"references/spec.md": "# spec\n",
	})

	sk, err := Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Len(t, sk.FilesByLanguage("python"), 2)
	assert.Len(t, sk.FilesByLanguage("bash"), 1)
	assert.Empty(t, sk.FilesByLanguage("go"))
}
