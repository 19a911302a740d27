// Package rules defines the built-in static-analysis rule catalog and the
// finding types produced when rules match skill files.
package rules

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Severity classifies how dangerous a matched pattern is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Category groups rules by the class of risk they detect.
type Category string

const (
	CategoryCodeInjection  Category = "code_injection"
	CategoryFileSystem     Category = "file_system"
	CategorySensitiveFile  Category = "sensitive_file"
	CategoryNetwork        Category = "network"
	CategoryDownloadExec   Category = "download_exec"
	CategoryPackageInstall Category = "package_install"
	CategoryQuality        Category = "quality"
)

// PatternKind selects the matching strategy for a rule. The engine
// dispatches on this with an exhaustive switch; adding a rule is a data
// change, not a new type.
type PatternKind int

const (
	// KindAST matches call-expression shapes in a parsed syntax tree.
	KindAST PatternKind = iota
	// KindStructural matches callee/assignment shapes with a token-level
	// heuristic, for files without a loadable grammar.
	KindStructural
	// KindRegex matches a compiled regular expression line by line.
	KindRegex
)

// Rule is a named, versioned detection definition. Rules are static and
// never mutate after catalog initialization.
type Rule struct {
	ID        string
	Category  Category
	Severity  Severity
	Kind      PatternKind
	Pattern   string
	Message   string
	Languages []string

	regex *regexp.Regexp
}

// Finding is the result of one rule matching one location.
type Finding struct {
	RuleID   string   `json:"rule_id"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Snippet  string   `json:"snippet"`
}

// AppliesTo reports whether the rule covers the given detected language.
// Rules declaring "all" apply to every file, including files with
// unrecognized extensions (empty language).
func (r *Rule) AppliesTo(language string) bool {
	for _, lang := range r.Languages {
		if lang == "all" || lang == language {
			return true
		}
	}
	return false
}

// Regex returns the compiled expression for KindRegex rules.
func (r *Rule) Regex() *regexp.Regexp {
	return r.regex
}

// PatternShape distinguishes what construct an AST or structural pattern
// describes.
type PatternShape int

const (
	// ShapeCall matches a call expression, e.g. "os.system($$$)".
	ShapeCall PatternShape = iota
	// ShapeAssign matches an assignment target, e.g. "innerHTML = $$$".
	ShapeAssign
	// ShapeBare matches any occurrence of the token outside comments and
	// string literals, e.g. "dangerouslySetInnerHTML".
	ShapeBare
)

// Shape classifies the rule's pattern construct.
func (r *Rule) Shape() PatternShape {
	switch {
	case strings.Contains(r.Pattern, "="):
		return ShapeAssign
	case strings.Contains(r.Pattern, "("):
		return ShapeCall
	default:
		return ShapeBare
	}
}

// CalleePath returns the dotted callee chain of an AST or structural
// pattern, e.g. "os.system($$$)" yields "os.system".
func (r *Rule) CalleePath() string {
	pattern := strings.TrimPrefix(r.Pattern, "new ")
	if idx := strings.IndexAny(pattern, "(= "); idx >= 0 {
		pattern = pattern[:idx]
	}
	return pattern
}

// Catalog is the active rule set for one evaluation: the built-in rules
// minus any disabled by configuration.
type Catalog struct {
	rules []Rule
}

// NewCatalog compiles the built-in rules and removes the disabled ids.
// Disabled entries may be literal ids or glob patterns such as "SEC02*".
func NewCatalog(disabled []string) (*Catalog, error) {
	matchers := make([]glob.Glob, 0, len(disabled))
	for _, pattern := range disabled {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid disabled rule pattern %q", pattern)
		}
		matchers = append(matchers, g)
	}

	catalog := &Catalog{rules: make([]Rule, 0, len(builtinRules))}
	for _, rule := range builtinRules {
		skip := false
		for _, m := range matchers {
			if m.Match(rule.ID) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		if rule.Kind == KindRegex {
			compiled, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return nil, errors.Wrapf(err, "rule %s has invalid pattern", rule.ID)
			}
			rule.regex = compiled
		}
		catalog.rules = append(catalog.rules, rule)
	}

	return catalog, nil
}

// Rules returns every active rule.
func (c *Catalog) Rules() []Rule {
	return c.rules
}

// ForLanguage returns the active rules applicable to the given language.
func (c *Catalog) ForLanguage(language string) []Rule {
	matched := make([]Rule, 0, len(c.rules))
	for _, rule := range c.rules {
		if rule.AppliesTo(language) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// Lookup returns the rule with the given id, if active.
func (c *Catalog) Lookup(id string) (Rule, bool) {
	for _, rule := range c.rules {
		if rule.ID == id {
			return rule, true
		}
	}
	return Rule{}, false
}

// Size returns the number of active rules.
func (c *Catalog) Size() int {
	return len(c.rules)
}
