// Package fingerprint implements the kernels of §4.B: deterministic AST
// fingerprints, MinHash signatures, LSH banding, Bloom filters,
// HyperLogLog cardinality sketches, and SHA-256 content hashing.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns the lowercase hex SHA-256 digest of content, used
// as the Similarity evidence's staleness check.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
