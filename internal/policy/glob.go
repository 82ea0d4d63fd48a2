package policy

import (
	"regexp"
	"strings"
)

// globToRegexp translates a shell-style glob (supporting `**` for
// arbitrary-depth path segments, `*` for a single segment, `?` for one
// character) into an anchored regular expression. Grounded on the
// matching semantics of the Rust original's `glob::Pattern`; no pack
// dependency offers `**` glob matching (the pack carries no glob
// library at all), so this is implemented against the standard
// library rather than introducing an unwired third-party dependency
// for one small translation function.
func globToRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		case '.', '+', '(', ')', '|', '^', '$', '{', '}', '[', ']', '\\':
			b.WriteString("\\")
			b.WriteRune(runes[i])
		default:
			b.WriteRune(runes[i])
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return regexp.MustCompile("$^") // matches nothing
	}
	return re
}

// globMatch reports whether path matches pattern.
func globMatch(pattern, path string) bool {
	return globToRegexp(pattern).MatchString(path)
}

// GlobMatch reports whether path matches a shell-style glob pattern
// supporting `**` for arbitrary-depth segments. Exported so
// internal/config can reuse the same translator for its
// ignore.paths/duplicate_pairs glob matching rather than duplicating
// it.
func GlobMatch(pattern, path string) bool {
	return globMatch(pattern, path)
}
