package engine

import (
	"context"
	"regexp"
	"strings"

	"github.com/jingkaihe/skillgrade/pkg/rules"
	"github.com/jingkaihe/skillgrade/pkg/skill"
)

var fencePattern = regexp.MustCompile("(?is)```([a-z0-9]*)[ \t]*\n(.*?)```")

// fenceLanguages maps code-fence info strings to rule-engine languages.
var fenceLanguages = map[string]string{
	"python":     "python",
	"py":         "python",
	"typescript": "typescript",
	"ts":         "typescript",
	"javascript": "javascript",
	"js":         "javascript",
	"go":         "go",
	"golang":     "go",
	"bash":       "bash",
	"sh":         "bash",
	"shell":      "bash",
}

// codeBlock is one fenced block extracted from a markdown document.
type codeBlock struct {
	language  string
	content   string
	startLine int
}

// scanMarkdown applies the rule catalog to fenced code blocks inside a
// markdown document. Prose is ignored entirely; only code the document tells
// the reader to run is scanned. Reported line numbers point into the
// markdown file.
func (e *Engine) scanMarkdown(ctx context.Context, f skill.File) []rules.Finding {
	var findings []rules.Finding
	for _, block := range extractCodeBlocks(f.Content) {
		findings = append(findings, e.scanSource(ctx, f.Path, block.language, block.content, block.startLine)...)
	}
	return findings
}

func extractCodeBlocks(content string) []codeBlock {
	matches := fencePattern.FindAllStringSubmatchIndex(content, -1)
	blocks := make([]codeBlock, 0, len(matches))
	for _, m := range matches {
		info := strings.ToLower(content[m[2]:m[3]])
		body := content[m[4]:m[5]]
		// First line of the block body sits one line below the opening fence.
		startLine := strings.Count(content[:m[0]], "\n") + 1
		blocks = append(blocks, codeBlock{
			language:  fenceLanguages[info],
			content:   body,
			startLine: startLine,
		})
	}
	return blocks
}
