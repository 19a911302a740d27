package skill

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/jingkaihe/skillgrade/pkg/logger"
)

// languageExtensions maps file extensions to the languages the rule engine
// understands. Files outside this map are kept as opaque text.
var languageExtensions = map[string]string{
	".py":   "python",
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".go":   "go",
	".sh":   "bash",
	".bash": "bash",
}

// shebangLanguages resolves interpreter names found on a #! line for files
// without a recognized extension.
var shebangLanguages = map[string]string{
	"python":  "python",
	"python3": "python",
	"node":    "javascript",
	"bash":    "bash",
	"sh":      "bash",
}

// maxFileSize caps how much of a single file is read into memory. Larger
// files are truncated; rule matching on instructional content does not need
// more.
const maxFileSize = 1 << 20

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
}

// Load reads a skill directory into a Skill. It returns an error only when
// the path does not exist or is not a directory; every other problem is
// recorded in ParseWarnings and the load continues.
func Load(ctx context.Context, path string) (*Skill, error) {
	log := logger.G(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "skill path %q does not exist", path)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("skill path %q is not a directory", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve skill path")
	}

	sk := &Skill{
		Directory:   abs,
		Frontmatter: map[string]interface{}{},
	}

	if err := collectFiles(sk, abs); err != nil {
		return nil, err
	}

	doc := sk.Document()
	if doc == "" {
		sk.ParseWarnings = append(sk.ParseWarnings, DocumentName+" not found")
		log.WithField("path", abs).Warn("Skill has no instruction document")
		return sk, nil
	}

	fm, body, err := parseFrontmatter(doc)
	if err != nil {
		sk.ParseWarnings = append(sk.ParseWarnings, "malformed frontmatter: "+err.Error())
		log.WithField("path", abs).WithError(err).Warn("Failed to parse frontmatter")
		sk.Body = doc
		return sk, nil
	}
	if fm == nil {
		sk.ParseWarnings = append(sk.ParseWarnings, "missing frontmatter")
		sk.Body = doc
		return sk, nil
	}

	sk.Frontmatter = normalizeMap(fm)
	sk.Body = body
	if name, ok := sk.Frontmatter["name"].(string); ok {
		sk.Name = name
	}
	if desc, ok := sk.Frontmatter["description"].(string); ok {
		sk.Description = desc
	}
	if sk.Name == "" {
		sk.Name = filepath.Base(abs)
	}

	log.WithFields(map[string]interface{}{
		"skill": sk.Name,
		"files": len(sk.Files),
	}).Debug("Loaded skill")

	return sk, nil
}

func collectFiles(sk *Skill, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			sk.ParseWarnings = append(sk.ParseWarnings, "unreadable entry: "+path)
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			switch rel {
			case "references":
				sk.Structure.HasReferences = true
			case "scripts":
				sk.Structure.HasScripts = true
			case "assets":
				sk.Structure.HasAssets = true
			}
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			sk.ParseWarnings = append(sk.ParseWarnings, "unreadable entry: "+path)
			return nil
		}

		content, readErr := readFileCapped(path)
		if readErr != nil {
			sk.ParseWarnings = append(sk.ParseWarnings, "unreadable file: "+rel)
			return nil
		}

		if strings.Count(rel, "/") > 2 {
			sk.Structure.DeeplyNested = true
		}

		sk.Files = append(sk.Files, File{
			Path:     rel,
			Language: DetectLanguage(rel, content),
			Content:  content,
			Size:     info.Size(),
		})
		return nil
	})
}

func readFileCapped(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) > maxFileSize {
		data = data[:maxFileSize]
	}
	return string(data), nil
}

// DetectLanguage classifies a file by extension, falling back to the shebang
// line for extensionless scripts.
func DetectLanguage(path, content string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := languageExtensions[ext]; ok {
		return lang
	}
	if ext != "" {
		return ""
	}
	if !strings.HasPrefix(content, "#!") {
		return ""
	}
	line := content
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(strings.TrimPrefix(line, "#!"))
	if len(fields) == 0 {
		return ""
	}
	interp := filepath.Base(fields[0])
	if interp == "env" && len(fields) > 1 {
		interp = filepath.Base(fields[1])
	}
	return shebangLanguages[interp]
}

// parseFrontmatter extracts the YAML frontmatter map and the body text that
// follows it. A document without a frontmatter block returns a nil map.
func parseFrontmatter(content string) (map[string]interface{}, string, error) {
	if !strings.HasPrefix(content, "---") {
		return nil, content, nil
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			meta.Meta,
		),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert([]byte(content), &buf, parser.WithContext(pctx)); err != nil {
		return nil, content, errors.Wrap(err, "failed to convert markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, content, errors.New("invalid frontmatter block")
	}
	return metaData, extractBodyContent(content), nil
}

// extractBodyContent returns the markdown body after the frontmatter fence.
func extractBodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}
	if frontmatterEnd == -1 {
		return content
	}
	return strings.Join(lines[frontmatterEnd+1:], "\n")
}

// normalizeMap converts the map[interface{}]interface{} values the YAML
// decoder produces into string-keyed maps so the result is JSON-encodable.
func normalizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			if ks, ok := k.(string); ok {
				out[ks] = normalizeValue(item)
			}
		}
		return out
	case map[string]interface{}:
		return normalizeMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
