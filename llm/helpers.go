package llm

import "strings"

// StripCodeFence removes a surrounding markdown code fence, with or without
// a language tag. Text without a leading fence is returned trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s[3:], "\n"); idx >= 0 {
		s = s[3+idx+1:]
	} else {
		s = s[3:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
