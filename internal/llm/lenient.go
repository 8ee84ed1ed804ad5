package llm

import (
	"strings"
)

// CleanJSONText recovers a JSON object from free-form completion text:
// markdown fences are stripped, then the first balanced {...} span is taken.
// When no span balances it falls back to first '{' through last '}'.
func CleanJSONText(s string) string {
	for _, fence := range []string{"```json", "```JSON", "```"} {
		s = strings.ReplaceAll(s, fence, "")
	}
	s = strings.TrimSpace(s)

	if span, ok := firstBalancedObject(s); ok {
		return span
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// firstBalancedObject scans from the first '{' and tracks depth, ignoring
// braces inside string literals.
func firstBalancedObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
