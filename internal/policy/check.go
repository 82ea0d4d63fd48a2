package policy

import (
	"path"
	"strings"
)

// CheckException evaluates a file pair against cfg and returns the
// first exception rule that applies, in the priority order used by
// the Rust original's check_exception: ignored path, ignored
// filename, acceptable pattern pair, boilerplate, then re-export-only.
// contentA and contentB may be nil when file contents were not
// fetched; content-based rules are simply skipped in that case.
func CheckException(cfg Config, fileA, fileB string, contentA, contentB *string) Match {
	if m, ok := matchIgnoredPath(cfg, fileA, fileB); ok {
		return m
	}
	if m, ok := matchIgnoredFile(cfg, fileA, fileB); ok {
		return m
	}
	if m, ok := matchAcceptablePattern(cfg, fileA, fileB); ok {
		return m
	}
	if contentA != nil && contentB != nil {
		if m, ok := matchBoilerplate(cfg, *contentA, *contentB); ok {
			return m
		}
		if m, ok := matchReExportOnly(*contentA, *contentB); ok {
			return m
		}
	}
	return Match{Kind: MatchNone}
}

func matchIgnoredPath(cfg Config, fileA, fileB string) (Match, bool) {
	for _, pattern := range cfg.IgnorePaths {
		if globMatch(pattern, fileA) || globMatch(pattern, fileB) {
			return Match{Kind: MatchIgnoredPath, Detail: pattern}, true
		}
	}
	return Match{}, false
}

func matchIgnoredFile(cfg Config, fileA, fileB string) (Match, bool) {
	baseA, baseB := path.Base(fileA), path.Base(fileB)
	for _, name := range cfg.IgnoreFiles {
		if baseA == name || baseB == name {
			return Match{Kind: MatchIgnoredFile, Detail: name}, true
		}
	}
	return Match{}, false
}

// matchAcceptablePattern checks each "left:right" pair from
// cfg.AcceptablePatterns against both orderings of the file pair,
// case-insensitively substring-matching the path — reproducing the
// Rust original's check in both directions since callers don't
// guarantee a stable pairing order.
func matchAcceptablePattern(cfg Config, fileA, fileB string) (Match, bool) {
	lowerA, lowerB := strings.ToLower(fileA), strings.ToLower(fileB)
	for _, pair := range cfg.AcceptablePatterns {
		left, right, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		if (strings.Contains(lowerA, left) && strings.Contains(lowerB, right)) ||
			(strings.Contains(lowerB, left) && strings.Contains(lowerA, right)) {
			return Match{Kind: MatchAcceptablePattern, Detail: pair}, true
		}
	}
	return Match{}, false
}

func matchBoilerplate(cfg Config, contentA, contentB string) (Match, bool) {
	linesA := countLines(contentA)
	linesB := countLines(contentB)
	if linesA <= cfg.BoilerplateMaxLines && linesB <= cfg.BoilerplateMaxLines {
		return Match{Kind: MatchBoilerplate, Detail: "both files at or under the boilerplate line threshold"}, true
	}
	return Match{}, false
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

func matchReExportOnly(contentA, contentB string) (Match, bool) {
	if isReExportOnly(contentA) && isReExportOnly(contentB) {
		return Match{Kind: MatchReExportOnly}, true
	}
	return Match{}, false
}

// reExportPrefixes are the statement prefixes that mark a line as a
// barrel re-export rather than real logic, transcribed from the Rust
// original's is_reexport_only.
var reExportPrefixes = []string{
	"export * from",
	"export {",
	"export type {",
	"export default from",
	"import ",
}

// isReExportOnly reports whether content is a barrel file: at most ten
// non-blank, non-comment lines, every one of which starts with a
// re-export or import prefix.
func isReExportOnly(content string) bool {
	lines := strings.Split(content, "\n")
	var significant int
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*") {
			continue
		}
		significant++
		if significant > 10 {
			return false
		}
		matched := false
		for _, prefix := range reExportPrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// ThresholdForDomain classifies path into one of spec.md §4.J's
// domains by directory convention and returns the matching similarity
// floor. There is no Rust-original equivalent to ground this
// classification on; the heuristic below is an original design
// decision, documented in DESIGN.md. Checked in this order: a
// `workers/` or `functions/` segment reads as serverless; `packages/`,
// `shared/`, or `lib/` reads as a shared library; `routes/`,
// `components/`, or a `.tsx`/`.jsx`/`.svelte`/`.vue` extension reads as
// UI; anything else falls back to the fallback threshold.
func ThresholdForDomain(cfg Config, filePath string) float64 {
	lower := strings.ToLower(filePath)

	switch {
	case strings.Contains(lower, "/workers/") || strings.Contains(lower, "/functions/"):
		return cfg.DomainThresholds.Serverless
	case strings.Contains(lower, "/packages/") || strings.Contains(lower, "/shared/") || strings.Contains(lower, "/lib/"):
		return cfg.DomainThresholds.SharedLib
	case strings.Contains(lower, "/routes/") || strings.Contains(lower, "/components/") ||
		strings.HasSuffix(lower, ".tsx") || strings.HasSuffix(lower, ".jsx") ||
		strings.HasSuffix(lower, ".svelte") || strings.HasSuffix(lower, ".vue"):
		return cfg.DomainThresholds.UI
	default:
		return cfg.DomainThresholds.Fallback
	}
}
