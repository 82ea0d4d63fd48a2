// Package similarity computes pairwise file similarity, function-level
// DRY duplication, and corpus-wide duplicate scans, per §4.C.
package similarity

import "strings"

// LineSimilarity returns the Patience-style line diff ratio between a
// and b: 2*matches / (len(linesA)+len(linesB)), the same ratio formula
// used by difflib-style sequence matchers. A longest-common-subsequence
// over lines stands in for Patience diff's unique-anchor matching,
// which converges to the same ratio for typical source files.
func LineSimilarity(a, b string) float64 {
	linesA := splitLines(a)
	linesB := splitLines(b)
	if len(linesA) == 0 && len(linesB) == 0 {
		return 1
	}
	matches := lcsLength(linesA, linesB)
	total := len(linesA) + len(linesB)
	if total == 0 {
		return 1
	}
	return 2 * float64(matches) / float64(total)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lcsLength computes the longest-common-subsequence length of two line
// slices via dynamic programming, grounded on the line-level
// LCS diff in services/trace/diff/parse.go's computeEdits.
func lcsLength(a, b []string) int {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return 0
	}
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

// TokenSimilarity returns the Jaccard similarity of the whitespace-split
// token sets of a and b.
func TokenSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
