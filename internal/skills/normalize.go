// Package skills provides skill-name normalization and set operations used for exact-match scoring.
package skills

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Set is a set of normalized skill names
type Set map[string]struct{}

// Normalize canonicalizes a skill name for set comparison.
// It folds compatibility forms (NFKC), lowercases, and removes every period and
// whitespace character, so "React.js" and "react js" both become "reactjs".
func Normalize(skill string) string {
	lower := strings.ToLower(norm.NFKC.String(strings.TrimSpace(skill)))
	return strings.Map(func(r rune) rune {
		if r == '.' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, lower)
}

// NormalizeSet normalizes every skill and collects the distinct non-empty results
func NormalizeSet(skills []string) Set {
	set := make(Set, len(skills))
	for _, skill := range skills {
		if normalized := Normalize(skill); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the normalized skill is in the set
func (s Set) Contains(skill string) bool {
	_, ok := s[skill]
	return ok
}

// CountIn returns how many members of s are also members of other
func (s Set) CountIn(other Set) int {
	count := 0
	for skill := range s {
		if other.Contains(skill) {
			count++
		}
	}
	return count
}

// Intersect returns the sorted members present in both sets
func Intersect(a, b Set) []string {
	matched := make([]string, 0)
	for skill := range a {
		if b.Contains(skill) {
			matched = append(matched, skill)
		}
	}
	sort.Strings(matched)
	return matched
}
