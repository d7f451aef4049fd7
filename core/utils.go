package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// UniqueStrings cleans every item of `ss`, drops blanks and duplicates, and keeps the first occurrence order.
func UniqueStrings(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	res := make([]string, 0, len(ss))
	for _, s := range ss {
		s = CleanString(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		res = append(res, s)
	}
	return res
}
