package registry

import (
	"sort"
	"strings"
)

// Variant names one of the five evidence kinds §4.G persists.
type Variant string

const (
	VariantSimilarity   Variant = "similarity"
	VariantUsage        Variant = "usage"
	VariantConnectivity Variant = "connectivity"
	VariantEnvironment  Variant = "environment"
	VariantFunctionDry  Variant = "function_dry"
)

// keySeparator joins a variant's input components; chosen over a
// path separator since file paths themselves may appear as
// components.
const keySeparator = "\x1f"

// SimilarityKey canonically encodes an unordered file-pair: the two
// paths are sorted so (a, b) and (b, a) hash to the same key.
func SimilarityKey(pathA, pathB string) string {
	pair := []string{pathA, pathB}
	sort.Strings(pair)
	return encodeKey(VariantSimilarity, pair[0], pair[1])
}

// UsageKey canonically encodes a symbol lookup scoped to a search
// root.
func UsageKey(symbol, searchRoot string) string {
	return encodeKey(VariantUsage, symbol, searchRoot)
}

// ConnectivityKey canonically encodes a single module's connectivity
// evidence by its absolute path.
func ConnectivityKey(modulePath string) string {
	return encodeKey(VariantConnectivity, modulePath)
}

// EnvironmentKey canonically encodes a single entry point's
// environment-safety evidence by its absolute path.
func EnvironmentKey(entryPoint string) string {
	return encodeKey(VariantEnvironment, entryPoint)
}

// FunctionDryKey canonically encodes a directory's function-level DRY
// scan evidence.
func FunctionDryKey(directory string) string {
	return encodeKey(VariantFunctionDry, directory)
}

// SimilarityContentHashes orders (hashA, hashB) to match SimilarityKey's
// sorted-path ordering, so EvidenceRecord.ContentHashes can later be
// compared against freshly computed hashes regardless of which order a
// caller happened to pass pathA/pathB in.
func SimilarityContentHashes(pathA, pathB, hashA, hashB string) []string {
	if pathA <= pathB {
		return []string{hashA, hashB}
	}
	return []string{hashB, hashA}
}

func encodeKey(variant Variant, components ...string) string {
	return string(variant) + keySeparator + strings.Join(components, keySeparator)
}
