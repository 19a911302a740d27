// Package engine matches the security rule catalog against a skill's files.
// Each rule carries one of three pattern strategies: syntax-tree matching for
// call expressions, a generalized structural grep for languages without an
// installed grammar, and plain regex matching applied line by line.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgrade/pkg/config"
	"github.com/jingkaihe/skillgrade/pkg/logger"
	"github.com/jingkaihe/skillgrade/pkg/rules"
	"github.com/jingkaihe/skillgrade/pkg/skill"
	"github.com/jingkaihe/skillgrade/pkg/treesitter"
)

// DegradedRuleID marks the informational finding emitted when a file cannot
// be parsed into a syntax tree and its AST rules are skipped.
const DegradedRuleID = "ENG001"

const maxSnippetLength = 120

// vendorPathPatterns name directories whose contents are bundled third-party
// reference material, never the skill's own code.
var vendorPathPatterns = []string{
	"**/node_modules/**",
	"**/vendor/**",
	"**/third_party/**",
	"**/site-packages/**",
	"**/dist/**",
	"**/.venv/**",
}

// Engine scans skill files against an active rule catalog. It is safe for
// concurrent use; scan results are memoized by file content hash.
type Engine struct {
	catalog     *rules.Catalog
	cfg         *config.Config
	vendorGlobs []glob.Glob

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	hash     string
	findings []rules.Finding
}

// New builds an Engine for the given catalog and configuration.
func New(catalog *rules.Catalog, cfg *config.Config) *Engine {
	globs := make([]glob.Glob, 0, len(vendorPathPatterns))
	for _, p := range vendorPathPatterns {
		globs = append(globs, glob.MustCompile(p, '/'))
	}
	return &Engine{
		catalog:     catalog,
		cfg:         cfg,
		vendorGlobs: globs,
		cache:       make(map[string]cacheEntry),
	}
}

// Scan evaluates every file in the skill and returns the accumulated
// findings, ordered by file, line, and rule id. Per-file problems never
// abort the scan; they are aggregated into the returned error for logging.
func (e *Engine) Scan(ctx context.Context, sk *skill.Skill) ([]rules.Finding, error) {
	var findings []rules.Finding
	var scanErrs *multierror.Error

	for _, f := range sk.Files {
		if e.isVendorPath(f.Path) {
			logger.G(ctx).WithField("file", f.Path).Debug("Skipping vendored path")
			continue
		}

		fileFindings, err := e.scanFileCached(ctx, f)
		if err != nil {
			scanErrs = multierror.Append(scanErrs, errors.Wrapf(err, "scanning %s", f.Path))
			continue
		}
		findings = append(findings, fileFindings...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].RuleID < findings[j].RuleID
	})

	return findings, scanErrs.ErrorOrNil()
}

func (e *Engine) isVendorPath(path string) bool {
	for _, g := range e.vendorGlobs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func (e *Engine) scanFileCached(ctx context.Context, f skill.File) ([]rules.Finding, error) {
	sum := sha256.Sum256([]byte(f.Content))
	hash := hex.EncodeToString(sum[:])

	e.mu.Lock()
	if entry, ok := e.cache[f.Path]; ok && entry.hash == hash {
		e.mu.Unlock()
		return entry.findings, nil
	}
	e.mu.Unlock()

	findings, err := e.scanFile(ctx, f)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[f.Path] = cacheEntry{hash: hash, findings: findings}
	e.mu.Unlock()

	return findings, nil
}

func (e *Engine) scanFile(ctx context.Context, f skill.File) ([]rules.Finding, error) {
	if strings.HasSuffix(f.Path, ".md") {
		return e.scanMarkdown(ctx, f), nil
	}
	return e.scanSource(ctx, f.Path, f.Language, f.Content, 0), nil
}

// scanSource matches the active rules for a language against source text.
// lineOffset shifts reported line numbers for embedded code blocks.
func (e *Engine) scanSource(ctx context.Context, path, language, content string, lineOffset int) []rules.Finding {
	if language != "" && !e.cfg.SupportsLanguage(language) {
		logger.G(ctx).WithField("file", path).WithField("language", language).Debug("Language not enabled; generic rules only")
		language = ""
	}

	active := e.catalog.ForLanguage(language)
	if len(active) == 0 {
		return nil
	}

	lines := strings.Split(content, "\n")
	suppressed := ruleDefinitionLines(lines)

	var findings []rules.Finding
	var calls []treesitter.Call
	callsLoaded := false
	callsOK := false
	astDegraded := false

	for _, rule := range active {
		switch rule.Kind {
		case rules.KindAST:
			if !callsLoaded {
				callsLoaded = true
				var err error
				calls, err = treesitter.ExtractCalls(language, []byte(content))
				switch {
				case err == nil:
					callsOK = true
				case errors.Is(err, treesitter.ErrUnavailable):
					// No grammar on this machine; fall back to line matching.
				default:
					logger.G(ctx).WithField("file", path).WithError(err).Debug("Syntax tree unavailable")
					astDegraded = true
				}
			}
			switch {
			case callsOK:
				findings = append(findings, matchCalls(rule, calls, lines, suppressed, path, lineOffset)...)
			case astDegraded:
				// Parse failure degrades this file to regex-only matching.
			default:
				findings = append(findings, matchStructural(rule, language, lines, suppressed, path, lineOffset)...)
			}
		case rules.KindStructural:
			findings = append(findings, matchStructural(rule, language, lines, suppressed, path, lineOffset)...)
		case rules.KindRegex:
			findings = append(findings, matchRegex(rule, lines, suppressed, path, lineOffset)...)
		}
	}

	if astDegraded {
		findings = append(findings, rules.Finding{
			RuleID:   DegradedRuleID,
			File:     path,
			Line:     lineOffset + 1,
			Severity: rules.SeverityInfo,
			Message:  "file could not be parsed; syntax-tree rules skipped, regex rules still applied",
		})
	}

	return findings
}

func matchCalls(rule rules.Rule, calls []treesitter.Call, lines []string, suppressed map[int]bool, path string, lineOffset int) []rules.Finding {
	callee := rule.CalleePath()
	var findings []rules.Finding
	for _, c := range calls {
		if c.Callee != callee {
			continue
		}
		if suppressed[c.Line] {
			continue
		}
		findings = append(findings, newFinding(rule, path, c.Line+lineOffset, snippetAt(lines, c.Line)))
	}
	return findings
}

// matchStructural matches the rule's pattern against code only: string
// literal contents and line comments are masked out before the predicate
// runs, so a pattern quoted in documentation text or commented out never
// fires. Snippets keep the raw line.
func matchStructural(rule rules.Rule, language string, lines []string, suppressed map[int]bool, path string, lineOffset int) []rules.Finding {
	match := structuralMatcher(rule)
	var findings []rules.Finding
	for i, line := range lines {
		lineNum := i + 1
		if suppressed[lineNum] {
			continue
		}
		if match(maskLiterals(line, language)) {
			findings = append(findings, newFinding(rule, path, lineNum+lineOffset, snippet(line)))
		}
	}
	return findings
}

// lineComments maps languages to their line-comment marker. Block
// comments and multi-line strings are outside the reach of line-based
// matching.
var lineComments = map[string]string{
	"python":     "#",
	"bash":       "#",
	"javascript": "//",
	"typescript": "//",
	"go":         "//",
}

// maskLiterals blanks string-literal contents and truncates the line at
// its comment marker. Lines in languages without a known comment syntax
// pass through untouched.
func maskLiterals(line, language string) string {
	marker, known := lineComments[language]
	if !known {
		return line
	}

	out := []byte(line)
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			switch c {
			case '\\':
				out[i] = ' '
				if i+1 < len(out) {
					out[i+1] = ' '
				}
				i++
			case quote:
				quote = 0
			default:
				out[i] = ' '
			}
			continue
		}
		switch {
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case strings.HasPrefix(line[i:], marker):
			return string(out[:i])
		}
	}
	return string(out)
}

// structuralMatcher builds a line predicate from the rule's pattern shape:
// a call pattern requires the callee followed by an opening parenthesis, an
// assignment pattern requires the target followed by "=", and a bare pattern
// is a plain substring.
func structuralMatcher(rule rules.Rule) func(string) bool {
	switch rule.Shape() {
	case rules.ShapeCall:
		needle := rule.CalleePath() + "("
		if strings.HasPrefix(rule.Pattern, "new ") {
			needle = "new " + needle
		}
		return func(line string) bool {
			return strings.Contains(line, needle)
		}
	case rules.ShapeAssign:
		target := strings.TrimSpace(rule.Pattern[:strings.Index(rule.Pattern, "=")])
		return func(line string) bool {
			idx := strings.Index(line, target)
			if idx < 0 {
				return false
			}
			rest := strings.TrimLeft(line[idx+len(target):], " \t")
			return strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "==")
		}
	default:
		needle := strings.TrimSuffix(rule.Pattern, "$$")
		return func(line string) bool {
			return strings.Contains(line, needle)
		}
	}
}

func matchRegex(rule rules.Rule, lines []string, suppressed map[int]bool, path string, lineOffset int) []rules.Finding {
	re := rule.Regex()
	if re == nil {
		return nil
	}
	var findings []rules.Finding
	for i, line := range lines {
		lineNum := i + 1
		if suppressed[lineNum] {
			continue
		}
		if re.MatchString(line) {
			findings = append(findings, newFinding(rule, path, lineNum+lineOffset, snippet(line)))
		}
	}
	return findings
}

func newFinding(rule rules.Rule, path string, line int, snip string) rules.Finding {
	return rules.Finding{
		RuleID:   rule.ID,
		File:     path,
		Line:     line,
		Severity: rule.Severity,
		Message:  rule.Message,
		Snippet:  snip,
	}
}

func snippetAt(lines []string, lineNum int) string {
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return snippet(lines[lineNum-1])
}

func snippet(line string) string {
	s := strings.TrimSpace(line)
	if len(s) > maxSnippetLength {
		s = s[:maxSnippetLength] + "..."
	}
	return s
}
