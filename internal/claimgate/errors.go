// Package claimgate enforces §4.H: a claim (DryViolation, NoExistence,
// Disconnection) can only be constructed from a persisted evidence
// record, and only when that evidence actually supports it. Grounded
// on original_source/packages/ground/src/claims/mod.rs's
// ClaimRejected enum and lib.rs's claim_dry_violation/
// claim_no_existence/claim_disconnection gate functions, re-expressed
// as Go errors rather than a Rust enum since Go has no tagged unions.
package claimgate

import "fmt"

// NoEvidence is returned when no evidence record exists for the
// requested claim at all.
type NoEvidence struct {
	ClaimType  string
	Suggestion string
}

func (e *NoEvidence) Error() string {
	return fmt.Sprintf("no evidence found for %s. %s", e.ClaimType, e.Suggestion)
}

// BelowThreshold is returned when evidence exists but its measured
// value doesn't clear the claim's required threshold.
type BelowThreshold struct {
	Actual   float64
	Required float64
}

func (e *BelowThreshold) Error() string {
	return fmt.Sprintf("evidence below threshold: %.2f < %.2f", e.Actual, e.Required)
}

// EvidenceContradicts is returned when evidence exists and clears
// whatever numeric threshold applies, but the claim's own direction
// contradicts what the evidence shows (e.g. claiming "no existence"
// for a symbol the evidence shows is actually used), or when the
// evidence's recorded content hash no longer matches the source it
// was computed over.
type EvidenceContradicts struct {
	Reason string
}

func (e *EvidenceContradicts) Error() string {
	return fmt.Sprintf("evidence contradicts claim: %s", e.Reason)
}
