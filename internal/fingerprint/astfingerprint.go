package fingerprint

import (
	"fmt"
	"math"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// AstFingerprint is the deterministic structural summary of §3: a
// node-kind occurrence histogram, a per-depth node-count histogram, an
// ordered sequence of normalized function signatures (parameter names
// dropped, count kept), and an ordered sequence of control-flow node
// kinds encountered in traversal order.
type AstFingerprint struct {
	NodeKindCounts  map[string]int
	DepthHistogram  []int
	Signatures      []string
	ControlFlowKinds []string
}

// controlFlowKinds lists the tree-sitter node types, across the four
// supported grammars, that represent a branch or loop. A single shared
// set is sufficient because grammars rarely collide on these names.
var controlFlowKinds = map[string]bool{
	"if_statement":            true,
	"if_expression":           true,
	"for_statement":           true,
	"for_expression":          true,
	"while_statement":         true,
	"while_expression":        true,
	"loop_expression":         true,
	"switch_statement":        true,
	"match_expression":        true,
	"try_statement":           true,
	"try_expression":          true,
	"catch_clause":            true,
	"conditional_expression":  true,
	"ternary_expression":      true,
}

// functionKinds maps tree-sitter node types that introduce a callable
// to the field name holding its parameter list, across the four
// supported grammars.
var functionKinds = map[string]string{
	"function_declaration":  "parameters",
	"function_expression":   "parameters",
	"arrow_function":        "parameters",
	"method_definition":     "parameters",
	"function_item":         "parameters",
	"function_definition":   "parameters",
}

// FingerprintNode walks root in pre-order, iteratively (an explicit
// stack bounds recursion depth on pathological inputs), and produces
// its AstFingerprint. source is the original file content, needed to
// read node text for signature names.
func FingerprintNode(root *sitter.Node, source []byte) AstFingerprint {
	fp := AstFingerprint{NodeKindCounts: make(map[string]int)}
	if root == nil {
		return fp
	}

	type frame struct {
		node  *sitter.Node
		depth int
	}
	stack := []frame{{node: root, depth: 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := top.node
		kind := node.Type()
		fp.NodeKindCounts[kind]++

		for len(fp.DepthHistogram) <= top.depth {
			fp.DepthHistogram = append(fp.DepthHistogram, 0)
		}
		fp.DepthHistogram[top.depth]++

		if controlFlowKinds[kind] {
			fp.ControlFlowKinds = append(fp.ControlFlowKinds, kind)
		}

		if paramsField, ok := functionKinds[kind]; ok {
			fp.Signatures = append(fp.Signatures, normalizedSignature(node, source, paramsField))
		}

		// Push children in reverse so traversal order matches
		// pre-order left-to-right when popped.
		count := int(node.NamedChildCount())
		for i := count - 1; i >= 0; i-- {
			stack = append(stack, frame{node: node.NamedChild(i), depth: top.depth + 1})
		}
	}

	return fp
}

func normalizedSignature(node *sitter.Node, source []byte, paramsField string) string {
	name := "<anonymous>"
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name = nameNode.Content(source)
	}
	paramCount := 0
	if params := node.ChildByFieldName(paramsField); params != nil {
		paramCount = int(params.NamedChildCount())
	}
	return fmt.Sprintf("%s(%d)", name, paramCount)
}

// CosineOfNodeKinds computes cosine similarity between two node-kind
// occurrence histograms.
func CosineOfNodeKinds(a, b map[string]int) float64 {
	keys := make(map[string]bool, len(a)+len(b))
	for k := range a {
		keys[k] = true
	}
	for k := range b {
		keys[k] = true
	}
	var dot, normA, normB float64
	for k := range keys {
		av, bv := float64(a[k]), float64(b[k])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// IoUOfDepthHistograms computes intersection-over-union of two
// per-depth occurrence counts, treating each depth as a bucket whose
// contribution is min(a,b) for intersection and max(a,b) for union.
func IoUOfDepthHistograms(a, b []int) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	var intersection, union float64
	for i := 0; i < maxLen; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av < bv {
			intersection += float64(av)
		} else {
			intersection += float64(bv)
		}
		if av > bv {
			union += float64(av)
		} else {
			union += float64(bv)
		}
	}
	if union == 0 {
		return 0
	}
	return intersection / union
}

// JaccardOfSignatures computes Jaccard similarity between two ordered
// signature sequences, treated as sets.
func JaccardOfSignatures(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	intersection := 0
	for k := range setA {
		if setB[k] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

// LcsRatioOfControlFlow computes the longest-common-subsequence ratio
// of two control-flow node-kind sequences: LCS length divided by the
// length of the longer sequence.
func LcsRatioOfControlFlow(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] > table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 0
	}
	return float64(table[len(a)][len(b)]) / float64(longer)
}

// AstSimilarity combines the four §4.C AST-similarity components with
// their spec weights: 0.30 cosine of node-kind distributions, 0.20 IoU
// of depth histograms, 0.30 Jaccard of signature sets, 0.20 LCS ratio
// of control-flow sequences. When both sides have no signatures, or
// both have no control-flow nodes, that component counts as identical
// (1), so a fingerprint compared with itself always scores 1.
func AstSimilarity(a, b AstFingerprint) float64 {
	cosine := CosineOfNodeKinds(a.NodeKindCounts, b.NodeKindCounts)
	iou := IoUOfDepthHistograms(a.DepthHistogram, b.DepthHistogram)
	jaccard := JaccardOfSignatures(a.Signatures, b.Signatures)
	if len(a.Signatures) == 0 && len(b.Signatures) == 0 {
		jaccard = 1
	}
	lcs := LcsRatioOfControlFlow(a.ControlFlowKinds, b.ControlFlowKinds)
	if len(a.ControlFlowKinds) == 0 && len(b.ControlFlowKinds) == 0 {
		lcs = 1
	}
	return 0.30*cosine + 0.20*iou + 0.30*jaccard + 0.20*lcs
}

// SortedNodeKinds returns the fingerprint's node kinds sorted
// alphabetically, useful for deterministic debug output.
func (f AstFingerprint) SortedNodeKinds() []string {
	kinds := make([]string, 0, len(f.NodeKindCounts))
	for k := range f.NodeKindCounts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
