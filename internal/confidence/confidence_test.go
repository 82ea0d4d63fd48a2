package confidence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/groundlang/ground/internal/environment"
	"github.com/groundlang/ground/internal/importgraph"
	"github.com/groundlang/ground/internal/similarity"
	"github.com/groundlang/ground/internal/usage"
)

func TestBuilderNoFactorsReturnsBaseRate(t *testing.T) {
	score := NewBuilder().Build()
	assert.InDelta(t, 0.5, score.Value, 1e-6)
	assert.Equal(t, ActionInvestigate, score.RecommendedAction)
}

func TestBuilderStrongPositiveFactorRecommendsAutoFix(t *testing.T) {
	score := NewBuilder().AddFactor("strong", "very strong positive evidence", 4.0).Build()
	assert.True(t, score.SafeToAutoFix)
	assert.Equal(t, ActionAutoFix, score.RecommendedAction)
	assert.Contains(t, score.Explanation, "Evidence for:")
}

func TestBuilderStrongNegativeFactorRecommendsSkip(t *testing.T) {
	score := NewBuilder().AddFactor("weak", "strong negative evidence", -4.0).Build()
	assert.Equal(t, ActionSkip, score.RecommendedAction)
	assert.Contains(t, score.Explanation, "Evidence against:")
}

func TestExplainOnlyTakesTopThreeOfEachSign(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 5; i++ {
		b.AddFactor("f", "positive factor", 0.5)
	}
	score := b.Build()
	assert.Equal(t, 5, len(score.Factors))
	assert.Equal(t, 3, strings.Count(score.Explanation, "positive factor"))
}

func TestOrphanConfidenceHighForZeroConnections(t *testing.T) {
	score := OrphanConfidence(importgraph.ConnectivityEvidence{})
	assert.Greater(t, score.Value, 0.5)
}

func TestOrphanConfidenceLowForArchitecturalBinding(t *testing.T) {
	evidence := importgraph.ConnectivityEvidence{Architectural: 1}
	score := OrphanConfidence(evidence)
	assert.Less(t, score.Value, 0.5)
}

func TestDeadExportConfidenceHighForZeroUsages(t *testing.T) {
	score := DeadExportConfidence(usage.Evidence{Count: 0})
	assert.Greater(t, score.Value, 0.5)
}

func TestDeadExportConfidenceLowForMultipleUsages(t *testing.T) {
	score := DeadExportConfidence(usage.Evidence{Count: 5})
	assert.Less(t, score.Value, 0.5)
}

func TestDuplicateConfidenceHighForHighSimilarity(t *testing.T) {
	ast := 0.95
	score := DuplicateConfidence(similarity.Evidence{Similarity: 0.95, AstSimilarity: &ast})
	assert.Greater(t, score.Value, 0.5)
}

func TestEnvironmentSafetyConfidenceHighOnError(t *testing.T) {
	evidence := environment.Evidence{Warnings: []environment.Warning{{Severity: environment.SeverityError}}}
	score := EnvironmentSafetyConfidence(evidence)
	assert.True(t, score.SafeToAutoFix)
}

func TestEnvironmentSafetyConfidenceLowWhenClean(t *testing.T) {
	score := EnvironmentSafetyConfidence(environment.Evidence{})
	assert.Less(t, score.Value, 0.5)
}
