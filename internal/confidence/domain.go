package confidence

import (
	"github.com/groundlang/ground/internal/environment"
	"github.com/groundlang/ground/internal/importgraph"
	"github.com/groundlang/ground/internal/similarity"
	"github.com/groundlang/ground/internal/usage"
)

// OrphanConfidence scores a Disconnection finding: low connection
// counts and the absence of any architectural binding both push
// confidence up; any architectural binding at all (a route, a cron,
// a queue consumer) is strong evidence the module is reachable some
// way the import graph can't see, so it pushes confidence down hard.
func OrphanConfidence(evidence importgraph.ConnectivityEvidence) Score {
	b := NewBuilder().WithBaseRate(0.5)
	total := evidence.TotalConnections()

	switch {
	case total == 0:
		b.AddFactorWithValue("zero_connections", "zero incoming or outgoing edges", 1.5, float64(total))
	case total <= 2:
		b.AddFactorWithValue("few_connections", "very few connections", 0.6, float64(total))
	default:
		b.AddFactorWithValue("many_connections", "multiple connections to other modules", -1.2, float64(total))
	}

	if evidence.Architectural > 0 {
		b.AddFactorWithValue("architectural_binding", "has a deployment-topology binding (route, cron, queue)", -2.0, float64(evidence.Architectural))
	} else {
		b.AddFactor("no_architectural_binding", "no deployment-topology bindings found", 0.4)
	}

	return b.Build()
}

// DeadExportConfidence scores a NoExistence finding: a zero usage
// count is strong positive evidence; any usage at all is strong
// negative evidence (the caller should not have reached this point
// per ClaimNoExistence's own gating, but confidence scoring is meant
// to stand alone for agents building scores ahead of a gate check).
func DeadExportConfidence(evidence usage.Evidence) Score {
	b := NewBuilder().WithBaseRate(0.5)

	switch {
	case evidence.Count == 0:
		b.AddFactor("zero_usages", "no references found anywhere in the search root", 1.8)
	case evidence.Count == 1:
		b.AddFactorWithValue("single_usage", "exactly one reference found", 0.3, 1)
	default:
		b.AddFactorWithValue("multiple_usages", "multiple references found", -2.0, float64(evidence.Count))
	}

	return b.Build()
}

// DuplicateConfidence scores a DryViolation finding directly from the
// similarity engine's component scores: a high AST-structural score
// is stronger evidence than high line/token scores alone, since two
// files can share tokens and line shape coincidentally but rarely
// share AST structure by accident.
func DuplicateConfidence(evidence similarity.Evidence) Score {
	b := NewBuilder().WithBaseRate(0.5)

	b.AddFactorWithValue("composite_similarity", "overall similarity score", (evidence.Similarity-0.5)*2, evidence.Similarity)

	if evidence.AstSimilarity != nil {
		b.AddFactorWithValue("ast_similarity", "matching AST structure", (*evidence.AstSimilarity-0.5)*1.5, *evidence.AstSimilarity)
	} else {
		b.AddFactor("no_ast_signal", "no AST fingerprint available for this file pair", -0.3)
	}

	return b.Build()
}

// EnvironmentSafetyConfidence scores an environment-mismatch finding:
// any Error-severity warning is near-certain since it asserts the
// code WILL fail at runtime, not merely that it might.
func EnvironmentSafetyConfidence(evidence environment.Evidence) Score {
	b := NewBuilder().WithBaseRate(0.5)

	var errorCount, warnCount int
	for _, w := range evidence.Warnings {
		switch w.Severity {
		case environment.SeverityError:
			errorCount++
		case environment.SeverityWarning:
			warnCount++
		}
	}

	if errorCount > 0 {
		b.AddFactorWithValue("cross_runtime_error", "runtime-specific API unreachable from this entry point's runtime", 2.2, float64(errorCount))
	}
	if warnCount > 0 {
		b.AddFactorWithValue("possible_mismatch", "runtime-specific API reachable under uncertain conditions", 0.5, float64(warnCount))
	}
	if errorCount == 0 && warnCount == 0 {
		b.AddFactor("no_mismatch_found", "no environment-specific API usage detected", -1.5)
	}

	return b.Build()
}
