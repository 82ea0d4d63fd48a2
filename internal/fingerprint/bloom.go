package fingerprint

import (
	"hash/fnv"
	"math"
)

const (
	// goldenRatio64 seeds the second hash function distinctly from the
	// first, per §4.B.
	goldenRatio64 = 0x9e3779b97f4a7c15

	minBloomBits = 64
	maxBloomBits = 1 << 32
	maxBloomK    = 30
)

// BloomFilter is a fixed-size bit array with k hash functions, sized
// for a target false-positive rate and expected insert count. It never
// produces false negatives.
type BloomFilter struct {
	bits []uint64 // word-aligned bit storage
	m    uint64   // total bits
	k    int
}

// bloomSize computes m = ceil(-n*ln(p) / (ln2)^2) clamped to
// [minBloomBits, maxBloomBits], and k = ceil((m/n)*ln2) clamped to
// [1, maxBloomK], per §3.
func bloomSize(n int, p float64) (m uint64, k int) {
	if n <= 0 {
		n = 1
	}
	if p <= 0 {
		p = 1e-9
	}
	raw := math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2))
	m = uint64(raw)
	if m < minBloomBits {
		m = minBloomBits
	}
	if m > maxBloomBits {
		m = maxBloomBits
	}

	rawK := math.Ceil((float64(m) / float64(n)) * math.Ln2)
	k = int(rawK)
	if k < 1 {
		k = 1
	}
	if k > maxBloomK {
		k = maxBloomK
	}
	return m, k
}

// NewBloomFilter builds a filter sized for expectedInserts items at
// target false-positive rate falsePositiveRate.
func NewBloomFilter(expectedInserts int, falsePositiveRate float64) *BloomFilter {
	m, k := bloomSize(expectedInserts, falsePositiveRate)
	words := (m + 63) / 64
	return &BloomFilter{bits: make([]uint64, words), m: words * 64, k: k}
}

func bloomHashPair(key string) (h1, h2 uint64) {
	fnvHash := fnv.New64a()
	_, _ = fnvHash.Write([]byte(key))
	h1 = fnvHash.Sum64()

	fnvHash2 := fnv.New64a()
	_, _ = fnvHash2.Write([]byte(key))
	_, _ = fnvHash2.Write([]byte{0xc1, 0x5b})
	h2 = fnvHash2.Sum64() ^ goldenRatio64
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}

// Insert adds key using double hashing h1 + i*h2 mod m for i in [0,k).
func (b *BloomFilter) Insert(key string) {
	h1, h2 := bloomHashPair(key)
	for i := 0; i < b.k; i++ {
		pos := (h1 + uint64(i)*h2) % b.m
		b.setBit(pos)
	}
}

// Contains reports whether key may have been inserted (true = maybe,
// false = definitely not — no false negatives).
func (b *BloomFilter) Contains(key string) bool {
	h1, h2 := bloomHashPair(key)
	for i := 0; i < b.k; i++ {
		pos := (h1 + uint64(i)*h2) % b.m
		if !b.getBit(pos) {
			return false
		}
	}
	return true
}

func (b *BloomFilter) setBit(pos uint64) {
	word, bit := pos/64, pos%64
	b.bits[word] |= 1 << bit
}

func (b *BloomFilter) getBit(pos uint64) bool {
	word, bit := pos/64, pos%64
	return b.bits[word]&(1<<bit) != 0
}

// NumBits returns the total bit-array size m.
func (b *BloomFilter) NumBits() uint64 { return b.m }

// NumHashes returns k.
func (b *BloomFilter) NumHashes() int { return b.k }
