package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLSHInsertRejectsWrongLength(t *testing.T) {
	idx := NewLSHIndex(DefaultLSHConfig())
	sig := NewSignature("x", 64) // not 128
	err := idx.Insert(sig)
	require.Error(t, err)
}

func TestLSHFindsCandidatesForSimilarDocuments(t *testing.T) {
	idx := NewLSHIndex(DefaultLSHConfig())
	cfg := DefaultMinHashConfig()

	base := "function handleRequest(req, res) { return res.send(req.body); }"
	nearDup := "function handleRequest(request, response) { return response.send(request.body); }"
	unrelated := "const x = Math.random() * Date.now();"

	sigA := Signature("a", base, cfg)
	sigB := Signature("b", nearDup, cfg)
	sigC := Signature("c", unrelated, cfg)

	require.NoError(t, idx.Insert(sigA))
	require.NoError(t, idx.Insert(sigB))
	require.NoError(t, idx.Insert(sigC))

	assert.Equal(t, 3, idx.Len())

	candidates := idx.Candidates(sigA)
	assert.Contains(t, candidates, "b")
}

func TestLSHAllCandidatePairsNoDuplicatesOrSelfPairs(t *testing.T) {
	idx := NewLSHIndex(LSHConfig{NumBands: 2, RowsPerBand: 2})
	sigA := NewSignature("a", 4)
	sigB := NewSignature("b", 4)
	for i := range sigA.Values {
		sigA.Values[i] = uint64(i)
		sigB.Values[i] = uint64(i)
	}
	require.NoError(t, idx.Insert(sigA))
	require.NoError(t, idx.Insert(sigB))

	var pairs [][2]string
	idx.AllCandidatePairs(func(a, b string) bool {
		pairs = append(pairs, [2]string{a, b})
		return true
	})
	assert.Len(t, pairs, 1)
	assert.Equal(t, [2]string{"a", "b"}, pairs[0])
}

func TestNewLSHIndexPanicsOnBadConfig(t *testing.T) {
	assert.Panics(t, func() { NewLSHIndex(LSHConfig{NumBands: 0, RowsPerBand: 8}) })
}
