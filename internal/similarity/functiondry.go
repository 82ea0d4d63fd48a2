package similarity

import (
	"strings"

	"github.com/groundlang/ground/internal/fingerprint"
)

// FunctionBody names one extracted function for DRY scanning: its
// identity (file + name, used as the LSH item ID) and the whitespace
// token stream of its body text.
type FunctionBody struct {
	FilePath string
	Name     string
	Body     string
}

func (f FunctionBody) id() string {
	return f.FilePath + "::" + f.Name
}

// DryCandidate is a confirmed function-level duplication.
type DryCandidate struct {
	A, B       FunctionBody
	Similarity float64
}

// FindFunctionDry computes a MinHash signature over each function's
// body token stream, inserts all signatures into an LSH index, then
// confirms every candidate pair the index surfaces against threshold
// using direct MinHash similarity. Per §4.C, LSH only narrows the
// search; the reported similarity is always the direct pairwise score.
func FindFunctionDry(functions []FunctionBody, threshold float64) []DryCandidate {
	cfg := fingerprint.DefaultMinHashConfig()
	index := fingerprint.NewLSHIndex(fingerprint.DefaultLSHConfig())

	signatures := make(map[string]*fingerprint.MinHashSignature, len(functions))
	byID := make(map[string]FunctionBody, len(functions))

	for _, fn := range functions {
		id := fn.id()
		tokens := strings.Fields(fn.Body)
		sig := fingerprint.SignatureOverSet(id, tokens, cfg)
		signatures[id] = sig
		byID[id] = fn
		_ = index.Insert(sig)
	}

	seen := make(map[[2]string]bool)
	var results []DryCandidate
	index.AllCandidatePairs(func(a, b string) bool {
		key := [2]string{a, b}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			return true
		}
		seen[key] = true

		sim := fingerprint.Similarity(signatures[a], signatures[b])
		if sim >= threshold {
			results = append(results, DryCandidate{A: byID[a], B: byID[b], Similarity: sim})
		}
		return true
	})
	return results
}
