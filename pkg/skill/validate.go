package skill

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var allowedFrontmatterKeys = map[string]bool{
	"name":        true,
	"description": true,
	"version":     true,
}

var hyphenCase = regexp.MustCompile(`^[a-z0-9-]+$`)

const (
	maxNameLength        = 64
	maxDescriptionLength = 1024
)

// Validate checks a loaded skill's structure and frontmatter against the
// publishing conventions. It returns every violation rather than stopping at
// the first one.
func Validate(sk *Skill) []string {
	var problems []string

	doc := sk.Document()
	if doc == "" {
		return []string{DocumentName + " not found"}
	}
	if !strings.HasPrefix(doc, "---") {
		problems = append(problems, "no YAML frontmatter found")
	}
	for _, w := range sk.ParseWarnings {
		if strings.Contains(w, "frontmatter") {
			problems = append(problems, w)
		}
	}

	var unexpected []string
	for key := range sk.Frontmatter {
		if !allowedFrontmatterKeys[key] {
			unexpected = append(unexpected, key)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		problems = append(problems, fmt.Sprintf("unexpected frontmatter key(s): %s", strings.Join(unexpected, ", ")))
	}

	if _, ok := sk.Frontmatter["name"]; !ok {
		problems = append(problems, "missing 'name' in frontmatter")
	} else if err := ValidateName(frontmatterString(sk.Frontmatter, "name")); err != "" {
		problems = append(problems, err)
	}

	if _, ok := sk.Frontmatter["description"]; !ok {
		problems = append(problems, "missing 'description' in frontmatter")
	} else if err := validateDescription(frontmatterString(sk.Frontmatter, "description")); err != "" {
		problems = append(problems, err)
	}

	if strings.Contains(doc, "[TODO:") {
		problems = append(problems, DocumentName+" contains unresolved [TODO:] placeholders")
	}

	return problems
}

// ValidateName checks the hyphen-case naming convention. It returns an empty
// string when the name is acceptable.
func ValidateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "name must not be empty"
	}
	if !hyphenCase.MatchString(name) {
		return fmt.Sprintf("name %q must be hyphen-case (lowercase, digits, hyphens only)", name)
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") || strings.Contains(name, "--") {
		return fmt.Sprintf("name %q cannot start/end with hyphen or contain consecutive hyphens", name)
	}
	if len(name) > maxNameLength {
		return fmt.Sprintf("name too long (%d chars), maximum is %d", len(name), maxNameLength)
	}
	return ""
}

func validateDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "description must not be empty"
	}
	if strings.ContainsAny(desc, "<>") {
		return "description cannot contain angle brackets"
	}
	if len(desc) > maxDescriptionLength {
		return fmt.Sprintf("description too long (%d chars), maximum is %d", len(desc), maxDescriptionLength)
	}
	return ""
}

func frontmatterString(fm map[string]interface{}, key string) string {
	if s, ok := fm[key].(string); ok {
		return s
	}
	return ""
}
