package fingerprint

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseJS(t *testing.T, src string) (*sitter.Node, []byte) {
	t.Helper()
	content := []byte(src)
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree.RootNode(), content
}

func TestFingerprintNodeRenameInvariance(t *testing.T) {
	rootA, srcA := parseJS(t, `function f(x){return x.length>0}`)
	rootB, srcB := parseJS(t, `function f(y){return y.length>0}`)

	fpA := FingerprintNode(rootA, srcA)
	fpB := FingerprintNode(rootB, srcB)

	assert.Equal(t, fpA.NodeKindCounts, fpB.NodeKindCounts)
	assert.Equal(t, fpA.Signatures, fpB.Signatures)
	assert.GreaterOrEqual(t, AstSimilarity(fpA, fpB), 0.80)
}

func TestFingerprintNodeControlFlowCapture(t *testing.T) {
	root, src := parseJS(t, `function f(x){ if (x) { return 1 } else { return 2 } }`)
	fp := FingerprintNode(root, src)
	assert.Contains(t, fp.ControlFlowKinds, "if_statement")
}

func TestFingerprintNodeEmptyTree(t *testing.T) {
	fp := FingerprintNode(nil, nil)
	assert.Empty(t, fp.NodeKindCounts)
	assert.Empty(t, fp.Signatures)
}

func TestAstSimilarityIdenticalFingerprintsIsOne(t *testing.T) {
	root, src := parseJS(t, `function add(a, b) { return a + b; }`)
	fp := FingerprintNode(root, src)
	assert.InDelta(t, 1.0, AstSimilarity(fp, fp), 1e-9)
}

func TestJaccardOfSignaturesDisjointSets(t *testing.T) {
	assert.Equal(t, 0.0, JaccardOfSignatures([]string{"a(1)"}, []string{"b(2)"}))
}

func TestLcsRatioOfControlFlow(t *testing.T) {
	a := []string{"if_statement", "for_statement"}
	b := []string{"if_statement", "for_statement"}
	assert.Equal(t, 1.0, LcsRatioOfControlFlow(a, b))
	assert.Equal(t, 0.0, LcsRatioOfControlFlow(nil, nil))
}
