// Package skill loads a skill directory into a normalized in-memory
// representation: frontmatter, instruction body, per-file source text with
// detected languages, and directory-structure metadata.
package skill

import "strings"

// DocumentName is the instruction document every skill must carry at its root.
const DocumentName = "SKILL.md"

// File is one source file inside a skill directory.
type File struct {
	// Path is relative to the skill directory, using forward slashes.
	Path string `json:"path"`
	// Language is the detected source language, or empty when unrecognized.
	// Unrecognized files are still scanned by language-agnostic rules.
	Language string `json:"language,omitempty"`
	Content  string `json:"-"`
	Size     int64  `json:"size"`
}

// Structure captures the directory conventions the rubric scores against.
type Structure struct {
	HasReferences bool `json:"hasReferences"`
	HasScripts    bool `json:"hasScripts"`
	HasAssets     bool `json:"hasAssets"`
	// DeeplyNested is set when any file sits more than two directory levels
	// below the instruction document.
	DeeplyNested bool `json:"deeplyNested"`
}

// Skill is the immutable unit of evaluation. It is constructed once per run
// and read-only afterward.
type Skill struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Directory   string                 `json:"directory"`
	Frontmatter map[string]interface{} `json:"frontmatter"`
	Body        string                 `json:"-"`
	Files       []File                 `json:"files"`
	Structure   Structure              `json:"structure"`
	// ParseWarnings records recoverable problems hit while loading, such as
	// malformed frontmatter. They feed the frontmatter dimension.
	ParseWarnings []string `json:"parseWarnings,omitempty"`
}

// Document returns the raw instruction document text, frontmatter included.
func (s *Skill) Document() string {
	for _, f := range s.Files {
		if f.Path == DocumentName {
			return f.Content
		}
	}
	return ""
}

// ScriptFiles returns files under the scripts directory.
func (s *Skill) ScriptFiles() []File {
	var out []File
	for _, f := range s.Files {
		if isUnder(f.Path, "scripts") {
			out = append(out, f)
		}
	}
	return out
}

// ReferenceFiles returns files under the references directory.
func (s *Skill) ReferenceFiles() []File {
	var out []File
	for _, f := range s.Files {
		if isUnder(f.Path, "references") {
			out = append(out, f)
		}
	}
	return out
}

// FilesByLanguage returns files whose detected language matches.
func (s *Skill) FilesByLanguage(language string) []File {
	var out []File
	for _, f := range s.Files {
		if f.Language == language {
			out = append(out, f)
		}
	}
	return out
}

func isUnder(path, dir string) bool {
	return strings.HasPrefix(path, dir+"/")
}
