package config

import (
	"strconv"
	"strings"
)

// parseSimpleYAML handles a constrained YAML subset sufficient for the
// known configuration schema: nested mappings via indentation, inline
// comments after '#', inline lists, and scalar coercion for booleans,
// integers, floats (including scientific notation), and null. It never
// fails; unparseable lines are skipped.
func parseSimpleYAML(text string) map[string]interface{} {
	result := make(map[string]interface{})

	type frame struct {
		indent int
		dict   map[string]interface{}
	}
	stack := []frame{{indent: -1, dict: result}}

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimLeft(line, " \t")
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		indent := len(line) - len(stripped)

		for len(stack) > 1 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		key, value, found := strings.Cut(stripped, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = cleanValue(value)

		current := stack[len(stack)-1].dict
		switch {
		case value == "":
			nested := make(map[string]interface{})
			current[key] = nested
			stack = append(stack, frame{indent: indent, dict: nested})
		case strings.HasPrefix(value, "["):
			current[key] = parseInlineList(value)
		default:
			current[key] = coerceScalar(value)
		}
	}

	return result
}

// cleanValue trims whitespace, strips an inline comment when the value is
// unquoted, and removes surrounding quotes.
func cleanValue(value string) string {
	value = strings.TrimSpace(value)

	quoted := strings.HasPrefix(value, `"`) || strings.HasPrefix(value, `'`)
	if !quoted {
		if idx := strings.Index(value, "#"); idx >= 0 {
			value = strings.TrimSpace(value[:idx])
		}
	}

	if len(value) >= 2 {
		if (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
			(strings.HasPrefix(value, `'`) && strings.HasSuffix(value, `'`)) {
			value = value[1 : len(value)-1]
		}
	}

	return value
}

// parseInlineList parses "[a, b, c]" into a slice of coerced scalars.
// "[]" yields an empty list.
func parseInlineList(value string) []interface{} {
	inner := strings.TrimPrefix(value, "[")
	inner = strings.TrimSuffix(inner, "]")
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return []interface{}{}
	}

	parts := strings.Split(inner, ",")
	items := make([]interface{}, 0, len(parts))
	for _, part := range parts {
		items = append(items, coerceScalar(cleanValue(part)))
	}
	return items
}

// coerceScalar converts a raw string into bool, nil, int, or float when it
// looks like one, otherwise keeps the string unchanged.
func coerceScalar(value string) interface{} {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	case "null", "~":
		return nil
	}

	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}

	return value
}
