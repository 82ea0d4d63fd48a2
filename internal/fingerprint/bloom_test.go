package fingerprint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBloomFilterNoFalseNegatives(t *testing.T) {
	b := NewBloomFilter(1000, 0.01)
	keys := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		keys = append(keys, fmt.Sprintf("key-%d", i))
	}
	for _, k := range keys {
		b.Insert(k)
	}
	for _, k := range keys {
		assert.True(t, b.Contains(k), "false negative for %s", k)
	}
}

func TestBloomFilterSizingClamped(t *testing.T) {
	m, k := bloomSize(1, 0.5)
	assert.GreaterOrEqual(t, m, uint64(minBloomBits))
	assert.LessOrEqual(t, k, maxBloomK)
	assert.GreaterOrEqual(t, k, 1)

	m, _ = bloomSize(1_000_000_000, 1e-20)
	assert.LessOrEqual(t, m, uint64(maxBloomBits))
}

func TestBloomFilterAbsentKeyUsuallyFalse(t *testing.T) {
	b := NewBloomFilter(10, 0.01)
	b.Insert("present")
	assert.False(t, b.Contains("definitely-not-inserted-xyz"))
}
