package similarity

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/groundlang/ground/internal/fingerprint"
	"github.com/groundlang/ground/internal/metrics"
)

// Evidence records the composite similarity result for one file pair,
// including the component scores that fed the composite so the claim
// gate and reports can explain a verdict.
type Evidence struct {
	ID            uuid.UUID
	FileA         string
	FileB         string
	Similarity    float64
	TokenOverlap  float64
	LineSimilarity float64
	AstSimilarity  *float64
	HashA         string
	HashB         string
	ComputedAt    time.Time
}

// MeetsThreshold reports whether the evidence clears a similarity bar.
func (e Evidence) MeetsThreshold(threshold float64) bool {
	return e.Similarity >= threshold
}

// ComputePair computes composite similarity between contentA and
// contentB, weighted 0.40 AST / 0.35 line / 0.25 token when the shared
// file extension has a tree-sitter grammar, else 0.60 line / 0.40
// token. The extension is taken from fileA; a mismatched pair of
// extensions still compares via content only (AST comparison is
// skipped), matching the reference implementation which keys AST
// support off a single extension.
func ComputePair(fileA, fileB, contentA, contentB string) Evidence {
	start := time.Now()
	defer func() { metrics.SimilarityDuration.Observe(time.Since(start).Seconds()) }()

	lineSim := LineSimilarity(contentA, contentB)
	tokenSim := TokenSimilarity(contentA, contentB)

	var astSim *float64
	ext := strings.ToLower(filepath.Ext(fileA))
	if fpA, ok := fingerprint.FingerprintSource([]byte(contentA), ext); ok {
		if fpB, ok2 := fingerprint.FingerprintSource([]byte(contentB), ext); ok2 {
			s := fingerprint.AstSimilarity(fpA, fpB)
			astSim = &s
		}
	}

	var composite float64
	if astSim != nil {
		composite = (*astSim)*0.40 + lineSim*0.35 + tokenSim*0.25
	} else {
		composite = lineSim*0.60 + tokenSim*0.40
	}

	return Evidence{
		ID:             uuid.New(),
		FileA:          fileA,
		FileB:          fileB,
		Similarity:     composite,
		TokenOverlap:   tokenSim,
		LineSimilarity: lineSim,
		AstSimilarity:  astSim,
		HashA:          fingerprint.ContentHash([]byte(contentA)),
		HashB:          fingerprint.ContentHash([]byte(contentB)),
		ComputedAt:     time.Now(),
	}
}
