// Package slug turns display names into URL and key friendly identifiers.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate lowercases name and joins its ASCII letter and digit runs with
// single hyphens.
//
//	"Vue Mastery Socks" → "vue-mastery-socks"
//	"  80% cotton!  "   → "80-cotton"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
