// Package slug derives URL path segments from review titles.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate lowercases title and collapses every run of characters outside
// [a-z0-9] into a single hyphen, so punctuation, unit marks, and repeated
// whitespace never leak into URLs.
//
//	"Best Mice"            → "best-mice"
//	"Top 5 TVs of 2025!"   → "top-5-tvs-of-2025"
//	"Best 65" OLED TVs"    → "best-65-oled-tvs"
func Generate(title string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
