package common

import "strings"

// SplitUpper splits a comma separated list, trims and upper-cases each item,
// and drops empty items and repeats. Order of first appearance is kept.
func SplitUpper(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		item := strings.ToUpper(strings.TrimSpace(part))
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
