package fingerprint

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHyperLogLogAccuracyAtPrecision14(t *testing.T) {
	for _, n := range []int{1_000, 10_000, 100_000} {
		hll := NewHyperLogLog(14)
		for i := 0; i < n; i++ {
			hll.Add(fmt.Sprintf("item-%d", i))
		}
		estimate := float64(hll.Cardinality())
		relErr := math.Abs(estimate-float64(n)) / float64(n)
		assert.LessOrEqualf(t, relErr, 0.05, "n=%d estimate=%f relErr=%f", n, estimate, relErr)
	}
}

func TestHyperLogLogPrecisionClamped(t *testing.T) {
	low := NewHyperLogLog(0)
	assert.Len(t, low.registers, 1<<minPrecision)

	high := NewHyperLogLog(100)
	assert.Len(t, high.registers, 1<<maxPrecision)
}

func TestHyperLogLogMergeIsUnion(t *testing.T) {
	a := NewHyperLogLog(10)
	b := NewHyperLogLog(10)
	for i := 0; i < 500; i++ {
		a.Add(fmt.Sprintf("a-%d", i))
	}
	for i := 0; i < 500; i++ {
		b.Add(fmt.Sprintf("b-%d", i))
	}
	a.Merge(b)
	estimate := float64(a.Cardinality())
	assert.InEpsilon(t, 1000, estimate, 0.2)
}
