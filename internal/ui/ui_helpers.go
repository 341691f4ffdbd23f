package ui

import (
	"strings"
)

// mention addresses a chat user by display name.
func mention(name string) string {
	return "@" + safe(name)
}

// fallback to falsy data
func safe(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return "—"
	}
	return t
}

func quote(s string) string {
	return `"` + strings.TrimSpace(s) + `"`
}

func nameList(names []string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, safe(n))
	}
	return strings.Join(out, ", ")
}
