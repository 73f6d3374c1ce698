package utils

import "strings"

// ContainsString returns true iff the provided string slice hay contains string
// needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// ContainsAnySubstring returns true iff s contains at least one non-empty
// element of subs as a substring.
func ContainsAnySubstring(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// DedupStrings keeps the first occurrence of every string, preserving order.
func DedupStrings(in ...[]string) []string {
	seen := map[string]bool{}
	res := []string{}
	for _, list := range in {
		for _, s := range list {
			if seen[s] {
				continue
			}
			seen[s] = true
			res = append(res, s)
		}
	}
	return res
}
