// Package slug derives URL-safe article identifiers from titles and keeps
// them unique against the article store.
package slug

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptySlug is returned by callers when a title produces no slug at all.
var ErrEmptySlug = errors.New("title does not contain any slug characters")

// space is the whitespace set of browser regexps, which is wider than
// Go's ASCII-only \s.
const space = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	disallowed = regexp.MustCompile(`[^\w` + space + `-]`)
	separators = regexp.MustCompile(`[` + space + `_-]+`)
)

// Generate turns a title into a lowercase, hyphen-delimited slug.
// It never fails; an empty result means the title had nothing usable.
func Generate(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = disallowed.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
