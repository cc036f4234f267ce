package utils

import (
	"strings"
)

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanList trims every entry of a tag-like list, drops blanks and
// duplicates, and keeps the original order.
func CleanList(items []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, it := range items {
		it = NormalizeSpace(it)
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
