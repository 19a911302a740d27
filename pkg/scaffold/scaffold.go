// Package scaffold creates new skill directories from embedded templates.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgrade/pkg/skill"
)

//go:embed templates/*
var templateFS embed.FS

// Types lists the skill templates that Create accepts besides the
// generic default.
var Types = []string{"technique", "pattern", "reference"}

// Options controls where and from which template a skill is created.
type Options struct {
	// Type selects a specialized template. Empty means the generic one.
	Type string
	// Dir is the parent directory for the new skill. Defaults to ".".
	Dir string
}

// templateData is what the embedded templates render against.
type templateData struct {
	Name  string
	Title string
}

// Create scaffolds a new skill directory named after the skill under
// opts.Dir and returns its path. The directory must not already exist.
func Create(name string, opts Options) (string, error) {
	if problem := skill.ValidateName(name); problem != "" {
		return "", errors.New(problem)
	}
	if opts.Type != "" && !validType(opts.Type) {
		return "", errors.Errorf("invalid skill type %q, must be one of: %s", opts.Type, strings.Join(Types, ", "))
	}

	parent := opts.Dir
	if parent == "" {
		parent = "."
	}
	dir, err := filepath.Abs(filepath.Join(parent, name))
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve skill directory")
	}
	if _, err := os.Stat(dir); err == nil {
		return "", errors.Errorf("skill directory already exists: %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create skill directory")
	}

	data := templateData{Name: name, Title: titleForName(name)}

	docTemplate := "templates/skill.md.tmpl"
	if opts.Type != "" {
		docTemplate = fmt.Sprintf("templates/skill-%s.md.tmpl", opts.Type)
	}
	if err := renderFile(docTemplate, filepath.Join(dir, skill.DocumentName), 0o644, data); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create scripts directory")
	}
	if err := renderFile("templates/example-script.py.tmpl", filepath.Join(dir, "scripts", "example.py"), 0o755, data); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Join(dir, "references"), 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create references directory")
	}
	if err := renderFile("templates/example-reference.md.tmpl", filepath.Join(dir, "references", "api_reference.md"), 0o644, data); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create assets directory")
	}

	return dir, nil
}

func validType(t string) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

func renderFile(templatePath, dest string, mode os.FileMode, data templateData) error {
	content, err := templateFS.ReadFile(templatePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read template %s", templatePath)
	}
	tmpl, err := template.New(filepath.Base(templatePath)).Parse(string(content))
	if err != nil {
		return errors.Wrapf(err, "failed to parse template %s", templatePath)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return errors.Wrapf(err, "failed to render template %s", templatePath)
	}
	if err := os.WriteFile(dest, buf.Bytes(), mode); err != nil {
		return errors.Wrapf(err, "failed to write %s", dest)
	}
	return nil
}

// titleForName turns a hyphen-case skill name into a display title,
// e.g. "pdf-tools" becomes "Pdf Tools".
func titleForName(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
