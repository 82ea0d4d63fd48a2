package policy

import "fmt"

// MatchKind identifies which exception rule, if any, fired. Mirrors
// the Rust original's ExceptionMatch enum.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchIgnoredPath
	MatchIgnoredFile
	MatchAcceptablePattern
	MatchBoilerplate
	MatchReExportOnly
)

// Match is the result of checking a file pair against a Config. Detail
// carries the specific pattern, filename, or reason that matched.
type Match struct {
	Kind   MatchKind
	Detail string
}

// IsException reports whether this Match exempts the pair from a
// DryViolation claim.
func (m Match) IsException() bool {
	return m.Kind != MatchNone
}

// Reason renders a human-readable explanation for the match, mirroring
// the Rust original's ExceptionMatch::reason.
func (m Match) Reason() string {
	switch m.Kind {
	case MatchIgnoredPath:
		return fmt.Sprintf("path matches ignored pattern %q", m.Detail)
	case MatchIgnoredFile:
		return fmt.Sprintf("filename %q is in the ignore list", m.Detail)
	case MatchAcceptablePattern:
		return fmt.Sprintf("both files match the acceptable pattern pair %q", m.Detail)
	case MatchBoilerplate:
		return fmt.Sprintf("both files are boilerplate (%s)", m.Detail)
	case MatchReExportOnly:
		return "both files are re-export-only barrel files"
	default:
		return "no exception applies"
	}
}
