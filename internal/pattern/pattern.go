// Package pattern holds regex substitution helpers for serialized HTML.
// Replacement values are always inserted literally, so "$" or "\" in user
// input never expands as a group reference.
package pattern

import (
	"regexp"
)

// KeepPrefix replaces every match of re with its first capture group
// followed by value. re must define at least one group.
func KeepPrefix(s string, re *regexp.Regexp, value string) (string, bool) {
	locs := re.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s, false
	}

	var out []byte
	last := 0
	for _, loc := range locs {
		out = append(out, s[last:loc[0]]...)
		if len(loc) >= 4 && loc[2] >= 0 {
			out = append(out, s[loc[2]:loc[3]]...)
		}
		out = append(out, value...)
		last = loc[1]
	}
	out = append(out, s[last:]...)
	return string(out), true
}

// ReplaceFirst replaces the first match of re with repl.
func ReplaceFirst(s string, re *regexp.Regexp, repl string) (string, bool) {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s, false
	}
	return s[:loc[0]] + repl + s[loc[1]:], true
}

// ReplaceAll replaces every match of re with repl.
func ReplaceAll(s string, re *regexp.Regexp, repl string) (string, bool) {
	if !re.MatchString(s) {
		return s, false
	}
	return re.ReplaceAllLiteralString(s, repl), true
}
