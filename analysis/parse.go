package analysis

import "strings"

// StripCodeFences removes a leading ```json or ``` fence and a trailing ```
// fence, if present. Models sometimes wrap their JSON despite being told
// not to.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// SalvageJSON cuts the substring from the first '{' to the last '}' so that
// prose wrapped around an otherwise valid object can still be parsed. It
// returns the original string when no such span exists.
func SalvageJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s, false
	}
	return s[start : end+1], true
}
