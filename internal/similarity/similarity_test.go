package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePairIdenticalFilesScoreOne(t *testing.T) {
	content := "function validate(x) { return x.length > 0; }"
	ev := ComputePair("a.js", "b.js", content, content)
	assert.InDelta(t, 1.0, ev.Similarity, 0.001)
	assert.Equal(t, ev.HashA, ev.HashB)
}

func TestComputePairDifferentFilesLowScore(t *testing.T) {
	a := `
function calculate(x, y) {
	for (let i = 0; i < 10; i++) {
		x = x * y;
	}
	return x;
}
`
	b := `
const config = {
	name: "app",
	version: "1.0.0",
};
export default config;
`
	ev := ComputePair("a.js", "b.js", a, b)
	assert.Less(t, ev.Similarity, 0.5)
}

func TestComputePairNearDuplicateMediumScore(t *testing.T) {
	a := `
function validateEmail(email) {
	const regex = /^[^\s@]+@[^\s@]+\.[^\s@]+$/;
	return regex.test(email);
}
export { validateEmail };
`
	b := `
function validateEmail(email) {
	const pattern = /^[^\s@]+@[^\s@]+\.[^\s@]+$/;
	return pattern.test(email);
}
export { validateEmail };
`
	ev := ComputePair("a.js", "b.js", a, b)
	assert.Greater(t, ev.Similarity, 0.4)
	assert.Less(t, ev.Similarity, 0.99)
}

func TestScanDuplicatesSkipsCrossBucketPairs(t *testing.T) {
	small := File{Path: "small.txt", Content: "x"}
	large := File{Path: "large.txt", Content: string(make([]byte, 5000))}
	pairs := ScanDuplicates(context.Background(), []File{small, large}, 0.0)
	assert.Empty(t, pairs)
}

func TestFindFunctionDryConfirmsSimilarBodies(t *testing.T) {
	functions := []FunctionBody{
		{FilePath: "a.js", Name: "handle", Body: "return res send req body end"},
		{FilePath: "b.js", Name: "handle", Body: "return res send req body end"},
		{FilePath: "c.js", Name: "unrelated", Body: "const x = Math random Date now"},
	}
	results := FindFunctionDry(functions, 0.5)
	assert.Len(t, results, 1)
}
