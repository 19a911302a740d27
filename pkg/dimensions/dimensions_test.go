package dimensions

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/skill"
)

// testSkill assembles a Skill in memory. The frontmatter map is rendered
// into the document text so evaluators that inspect the raw document see a
// consistent picture.
func testSkill(frontmatter map[string]interface{}, body string, files map[string]string) *skill.Skill {
	var doc strings.Builder
	if frontmatter != nil {
		doc.WriteString("---\n")
		keys := make([]string, 0, len(frontmatter))
		for k := range frontmatter {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&doc, "%s: %v\n", k, frontmatter[k])
		}
		doc.WriteString("---\n")
	}
	doc.WriteString(body)

	sk := &skill.Skill{
		Name:        "test-skill",
		Directory:   "/tmp/test-skill",
		Frontmatter: frontmatter,
		Body:        body,
		Files: []skill.File{
			{Path: skill.DocumentName, Content: doc.String(), Size: int64(doc.Len())},
		},
	}
	if name, ok := frontmatter["name"].(string); ok {
		sk.Name = name
	}
	if desc, ok := frontmatter["description"].(string); ok {
		sk.Description = desc
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		f := skill.File{Path: p, Content: files[p], Size: int64(len(files[p]))}
		if strings.HasSuffix(p, ".py") {
			f.Language = "python"
		}
		sk.Files = append(sk.Files, f)
		switch {
		case strings.HasPrefix(p, "scripts/"):
			sk.Structure.HasScripts = true
		case strings.HasPrefix(p, "references/"):
			sk.Structure.HasReferences = true
		case strings.HasPrefix(p, "assets/"):
			sk.Structure.HasAssets = true
		}
	}
	return sk
}

func emptySkill() *skill.Skill {
	return &skill.Skill{Name: "empty", Directory: "/tmp/empty"}
}

const wellFormedBody = `# pdf-tools

## Overview

Extract text and tables from PDF files with the bundled scripts.
The scripts wrap pdfplumber and handle encrypted inputs.
Large documents are streamed page by page to bound memory use.

## Quick Start

Run ` + "`python3 scripts/extract.py input.pdf`" + ` to extract text.
Check the output in ` + "`out/`" + ` before further processing.

## When to use

1. Use when the user asks to extract text from a PDF.
2. Use when tables must be pulled into CSV form.
3. Use when merging or splitting documents.

## Security

Validate untrusted file paths before passing them to the scripts.
Never run extracted content through a shell.

## Examples

` + "```bash" + `
python3 scripts/extract.py report.pdf
` + "```" + `

See the references directory for the full API notes.
`

func wellFormedSkill() *skill.Skill {
	return testSkill(
		map[string]interface{}{
			"name":        "pdf-tools",
			"description": `Use this skill when the user asks to "extract text", "parse tables", or mentions PDF processing errors.`,
		},
		wellFormedBody,
		map[string]string{
			"scripts/extract.py":  "#!/usr/bin/env python3\nfrom __future__ import annotations\n\"\"\"Extract text.\"\"\"\n\ndef run(path: str) -> str:\n    try:\n        return path\n    except ValueError:\n        raise\n\nif __name__ == \"__main__\":\n    run(\"x\")\n",
			"references/api.md":   "# API\nSecurity notes live here.\n",
			"assets/template.txt": "template\n",
		},
	)
}

func TestEvaluateAllCoversEveryDimension(t *testing.T) {
	cfg := config.Default()
	scores := EvaluateAll(Input{Skill: wellFormedSkill()}, cfg)

	require.Len(t, scores, len(config.Dimensions))
	for i, score := range scores {
		assert.Equal(t, config.Dimensions[i], score.Name)
		assert.InDelta(t, cfg.Weights[score.Name], score.Weight, 1e-9)
		assert.GreaterOrEqual(t, score.Score, 0.0)
		assert.LessOrEqual(t, score.Score, 100.0)
		assert.NotEmpty(t, score.Findings)
	}
}

func TestEvaluateAllMissingDocumentStillScoresEveryDimension(t *testing.T) {
	cfg := config.Default()
	scores := EvaluateAll(Input{Skill: emptySkill()}, cfg)

	require.Len(t, scores, len(config.Dimensions))
	for _, score := range scores {
		if score.Name == "code_quality" {
			// No scripts to grade is neutral, not a failure.
			assert.InDelta(t, 50.0, score.Score, 1e-9)
			continue
		}
		assert.LessOrEqual(t, score.Score, 50.0, "dimension %s", score.Name)
	}
}

func TestEvaluateUnknownDimension(t *testing.T) {
	_, ok := Evaluate("sorcery", Input{Skill: emptySkill()}, config.Default())
	assert.False(t, ok)
}
