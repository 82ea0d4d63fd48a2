package fingerprint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSignatureAllMaxOnEmptySet(t *testing.T) {
	sig := Signature("empty", "", DefaultMinHashConfig())
	for _, v := range sig.Values {
		assert.Equal(t, uint64(math.MaxUint64), v)
	}
}

func TestSignatureDeterministic(t *testing.T) {
	cfg := DefaultMinHashConfig()
	a := Signature("a", "the quick brown fox", cfg)
	b := Signature("b", "the quick brown fox", cfg)
	assert.Equal(t, a.Values, b.Values)
}

func TestSimilarityIdenticalTextIsOne(t *testing.T) {
	cfg := MinHashConfig{NumHashes: 64, ShingleSize: 3}
	a := Signature("a", "function add(a, b) { return a + b; }", cfg)
	b := Signature("b", "function add(a, b) { return a + b; }", cfg)
	assert.Equal(t, 1.0, Similarity(a, b))
}

func TestSimilarityDisjointTextIsLow(t *testing.T) {
	cfg := MinHashConfig{NumHashes: 128, ShingleSize: 3}
	a := Signature("a", "abcdefghijklmnop", cfg)
	b := Signature("b", "zzzzzzzzzzzzzzzz", cfg)
	assert.Less(t, Similarity(a, b), 0.5)
}

func TestMergeTakesElementwiseMin(t *testing.T) {
	cfg := MinHashConfig{NumHashes: 8, ShingleSize: 3}
	a := Signature("a", "hello world", cfg)
	b := Signature("b", "hello there", cfg)
	merged := Merge(a, b)
	for i := range merged.Values {
		expected := a.Values[i]
		if b.Values[i] < expected {
			expected = b.Values[i]
		}
		assert.Equal(t, expected, merged.Values[i])
	}
}

func TestShingleNormalizesCase(t *testing.T) {
	a := Shingle("Hello   World", 3)
	b := Shingle("hello world", 3)
	assert.Equal(t, a, b)
}
