package engine

import (
	"regexp"
	"strings"
)

// ruleIDLiteral matches a quoted rule identifier such as "SEC001" or 'Q001'.
var ruleIDLiteral = regexp.MustCompile(`["'][A-Z]{1,4}\d{3}["']`)

// definitionWindow bounds how many lines below a rule-id literal still count
// as part of the same declarative definition.
const definitionWindow = 8

// ruleDefinitionLines returns the line numbers (one-based) that belong to
// declarative rule definitions: a quoted rule-id literal with a nearby
// "pattern" or "message" key. Scanning a file that documents or declares the
// rules themselves must not flag the dangerous constructs they describe.
func ruleDefinitionLines(lines []string) map[int]bool {
	suppressed := make(map[int]bool)

	for i, line := range lines {
		if !ruleIDLiteral.MatchString(line) {
			continue
		}

		end := i + definitionWindow
		if end > len(lines) {
			end = len(lines)
		}

		declarative := false
		for j := i; j < end; j++ {
			if strings.TrimSpace(lines[j]) == "" {
				end = j
				break
			}
			if isDeclarativeKeyLine(lines[j]) {
				declarative = true
			}
		}
		if !declarative {
			continue
		}
		for j := i; j < end; j++ {
			suppressed[j+1] = true
		}
	}

	return suppressed
}

func isDeclarativeKeyLine(line string) bool {
	lower := strings.ToLower(line)
	for _, key := range []string{"pattern", "message"} {
		idx := strings.Index(lower, key)
		if idx < 0 {
			continue
		}
		rest := strings.TrimLeft(lower[idx+len(key):], " \t\"'")
		if strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "=") {
			return true
		}
	}
	return false
}
