package core

import "strings"

// TrimCodeFence removes a single wrapping markdown code fence from a
// generation response, plus surrounding whitespace. The JSON inside is still
// parsed strictly; anything malformed beyond the fence is rejected wholesale
// by the caller.
func TrimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest := s[3:]
	if i := strings.Index(rest, "\n"); i >= 0 {
		rest = rest[i+1:]
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, "```")
	return strings.TrimSpace(rest)
}
