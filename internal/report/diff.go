package report

import (
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// DiffHunk is one parsed, renderable hunk of a preview diff between a
// duplicate pair's contents.
type DiffHunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Body     string
}

// PreviewDiff builds a unified diff between contentA and contentB and
// parses it into hunks for display: generate a unified diff string
// with a line-level LCS, then hand it to go-diff's ParseMultiFileDiff
// for hunk extraction, rather than rendering raw unified-diff text
// directly.
func PreviewDiff(fileA, fileB, contentA, contentB string) ([]DiffHunk, error) {
	if contentA == contentB {
		return nil, nil
	}
	unified := generateUnifiedDiff(fileA, fileB, contentA, contentB)
	if unified == "" {
		return nil, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff([]byte(unified))
	if err != nil {
		return nil, fmt.Errorf("report: parsing preview diff: %w", err)
	}

	var hunks []DiffHunk
	for _, fd := range fileDiffs {
		for _, h := range fd.Hunks {
			hunks = append(hunks, DiffHunk{
				OldStart: int(h.OrigStartLine),
				OldLines: int(h.OrigLines),
				NewStart: int(h.NewStartLine),
				NewLines: int(h.NewLines),
				Body:     string(h.Body),
			})
		}
	}
	return hunks, nil
}

// generateUnifiedDiff produces a minimal unified diff between two
// line sequences using a bounded longest-common-subsequence alignment:
// good enough for the short preview windows a duplicate-pair report
// renders, not a general-purpose diff engine.
func generateUnifiedDiff(fileA, fileB, contentA, contentB string) string {
	linesA := strings.Split(contentA, "\n")
	linesB := strings.Split(contentB, "\n")
	if len(linesA) == 1 && linesA[0] == "" {
		linesA = nil
	}
	if len(linesB) == 1 && linesB[0] == "" {
		linesB = nil
	}
	if len(linesA) == 0 && len(linesB) == 0 {
		return ""
	}

	ops := lcsDiff(linesA, linesB)

	var body strings.Builder
	oldLine, newLine := 1, 1
	var oldCount, newCount int
	for _, op := range ops {
		switch op.kind {
		case opEqual:
			body.WriteString(" " + op.text + "\n")
			oldLine++
			newLine++
			oldCount++
			newCount++
		case opDelete:
			body.WriteString("-" + op.text + "\n")
			oldLine++
			oldCount++
		case opInsert:
			body.WriteString("+" + op.text + "\n")
			newLine++
			newCount++
		}
	}

	header := fmt.Sprintf("--- a/%s\n+++ b/%s\n@@ -1,%d +1,%d @@\n", fileA, fileB, oldCount, newCount)
	return header + body.String()
}

type opKind int

const (
	opEqual opKind = iota
	opDelete
	opInsert
)

type editOp struct {
	kind opKind
	text string
}

// lcsDiff aligns two line sequences via a dynamic-programming longest
// common subsequence, then walks the table back into a minimal
// equal/delete/insert operation sequence.
func lcsDiff(a, b []string) []editOp {
	m, n := len(a), len(b)
	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else if table[i+1][j] >= table[i][j+1] {
				table[i][j] = table[i+1][j]
			} else {
				table[i][j] = table[i][j+1]
			}
		}
	}

	var ops []editOp
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case a[i] == b[j]:
			ops = append(ops, editOp{kind: opEqual, text: a[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			ops = append(ops, editOp{kind: opDelete, text: a[i]})
			i++
		default:
			ops = append(ops, editOp{kind: opInsert, text: b[j]})
			j++
		}
	}
	for ; i < m; i++ {
		ops = append(ops, editOp{kind: opDelete, text: a[i]})
	}
	for ; j < n; j++ {
		ops = append(ops, editOp{kind: opInsert, text: b[j]})
	}
	return ops
}
