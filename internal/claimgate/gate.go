package claimgate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/groundlang/ground/internal/registry"
)

// DryViolationClaim asserts two files are duplicates severe enough to
// warrant a DRY refactor.
type DryViolationClaim struct {
	ID         uuid.UUID
	FileA      string
	FileB      string
	Reason     string
	Similarity float64
	EvidenceID uuid.UUID
	CreatedAt  time.Time
}

// ExistenceClaim asserts a symbol has not earned its existence: it is
// used fewer times than the threshold requires.
type ExistenceClaim struct {
	ID         uuid.UUID
	Symbol     string
	Reason     string
	UsageCount int
	EvidenceID uuid.UUID
	CreatedAt  time.Time
}

// ConnectivityClaim asserts a module is disconnected from the rest of
// the codebase: its connection count is below the threshold.
type ConnectivityClaim struct {
	ID          uuid.UUID
	ModulePath  string
	Reason      string
	Connections int
	EvidenceID  uuid.UUID
	CreatedAt   time.Time
}

type similarityPayload struct {
	Similarity float64 `json:"similarity"`
}

type usagePayload struct {
	Count int `json:"count"`
}

type connectivityPayload struct {
	TotalConnections int `json:"total_connections"`
}

// RecordSimilarityEvidence persists similarity evidence for (fileA,
// fileB) so a later ClaimDryViolation call has proof to check against.
// hashA/hashB are the content hashes (fingerprint.ContentHash) fileA
// and fileB hashed to at the moment similarity was computed, stored in
// registry.SimilarityKey's canonical path order so staleness
// comparisons line up regardless of caller argument order.
func RecordSimilarityEvidence(ctx context.Context, db *registry.DB, fileA, fileB, hashA, hashB string, similarity float64, computedAt time.Time) (registry.EvidenceRecord, error) {
	hashes := registry.SimilarityContentHashes(fileA, fileB, hashA, hashB)
	return registry.Record(ctx, db, registry.VariantSimilarity, registry.SimilarityKey(fileA, fileB), hashes, similarityPayload{Similarity: similarity}, computedAt)
}

// ClaimDryViolation looks up the persisted similarity evidence for
// (fileA, fileB) and, if it clears thresholds.DrySimilarity, returns a
// DryViolationClaim. currentHashA/currentHashB are the caller's
// just-computed content hashes for fileA/fileB (see
// fingerprint.ContentHash); if they no longer match the hashes the
// evidence was recorded against, the source changed since that
// computation ran and the claim is rejected as contradicted rather
// than asserted against stale proof. Grounded on lib.rs's
// claim_dry_violation.
func ClaimDryViolation(ctx context.Context, db *registry.DB, fileA, fileB, currentHashA, currentHashB, reason string, thresholds Thresholds) (DryViolationClaim, error) {
	key := registry.SimilarityKey(fileA, fileB)
	record, found, err := registry.Get(ctx, db, key)
	if err != nil {
		return DryViolationClaim{}, err
	}
	if !found {
		return DryViolationClaim{}, &NoEvidence{
			ClaimType:  "DRY violation",
			Suggestion: fmt.Sprintf("Run the ground_compare tool on %s and %s to compute similarity first", fileA, fileB),
		}
	}

	if current := registry.SimilarityContentHashes(fileA, fileB, currentHashA, currentHashB); len(record.ContentHashes) == 2 &&
		(record.ContentHashes[0] != current[0] || record.ContentHashes[1] != current[1]) {
		return DryViolationClaim{}, &EvidenceContradicts{
			Reason: fmt.Sprintf("content of %s or %s changed since similarity evidence was recorded", fileA, fileB),
		}
	}

	var payload similarityPayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return DryViolationClaim{}, fmt.Errorf("claimgate: decode similarity payload: %w", err)
	}
	if payload.Similarity < thresholds.DrySimilarity {
		return DryViolationClaim{}, &BelowThreshold{Actual: payload.Similarity, Required: thresholds.DrySimilarity}
	}

	return DryViolationClaim{
		ID:         uuid.New(),
		FileA:      fileA,
		FileB:      fileB,
		Reason:     reason,
		Similarity: payload.Similarity,
		EvidenceID: record.ID,
		CreatedAt:  time.Now(),
	}, nil
}

// ClaimNoExistence looks up the persisted usage evidence for (symbol,
// searchRoot) and, if the usage count is below
// thresholds.RamsMinUsage, returns an ExistenceClaim. If the count
// meets or exceeds the threshold the evidence contradicts the claim:
// the symbol IS used, so "no existence" cannot be asserted. Grounded
// on lib.rs's claim_no_existence.
func ClaimNoExistence(ctx context.Context, db *registry.DB, symbol, searchRoot, reason string, thresholds Thresholds) (ExistenceClaim, error) {
	key := registry.UsageKey(symbol, searchRoot)
	record, found, err := registry.Get(ctx, db, key)
	if err != nil {
		return ExistenceClaim{}, err
	}
	if !found {
		return ExistenceClaim{}, &NoEvidence{
			ClaimType:  "existence",
			Suggestion: fmt.Sprintf("Run the ground_find_dead_exports tool for %s to count its uses first", symbol),
		}
	}

	var payload usagePayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return ExistenceClaim{}, fmt.Errorf("claimgate: decode usage payload: %w", err)
	}
	if payload.Count >= thresholds.RamsMinUsage {
		return ExistenceClaim{}, &EvidenceContradicts{
			Reason: fmt.Sprintf("symbol %q is used %d time(s), at or above the existence threshold of %d", symbol, payload.Count, thresholds.RamsMinUsage),
		}
	}

	return ExistenceClaim{
		ID:         uuid.New(),
		Symbol:     symbol,
		Reason:     reason,
		UsageCount: payload.Count,
		EvidenceID: record.ID,
		CreatedAt:  time.Now(),
	}, nil
}

// ClaimDisconnection looks up the persisted connectivity evidence for
// modulePath and, if its total connection count is below
// thresholds.HeideggerMinConnections, returns a ConnectivityClaim.
// Grounded on lib.rs's claim_disconnection.
func ClaimDisconnection(ctx context.Context, db *registry.DB, modulePath, reason string, thresholds Thresholds) (ConnectivityClaim, error) {
	key := registry.ConnectivityKey(modulePath)
	record, found, err := registry.Get(ctx, db, key)
	if err != nil {
		return ConnectivityClaim{}, err
	}
	if !found {
		return ConnectivityClaim{}, &NoEvidence{
			ClaimType:  "disconnection",
			Suggestion: fmt.Sprintf("Run the ground_check_connections tool on %s to compute its connections first", modulePath),
		}
	}

	var payload connectivityPayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return ConnectivityClaim{}, fmt.Errorf("claimgate: decode connectivity payload: %w", err)
	}
	if payload.TotalConnections >= thresholds.HeideggerMinConnections {
		return ConnectivityClaim{}, &EvidenceContradicts{
			Reason: fmt.Sprintf("module %q has %d connection(s), at or above the disconnection threshold of %d", modulePath, payload.TotalConnections, thresholds.HeideggerMinConnections),
		}
	}

	return ConnectivityClaim{
		ID:          uuid.New(),
		ModulePath:  modulePath,
		Reason:      reason,
		Connections: payload.TotalConnections,
		EvidenceID:  record.ID,
		CreatedAt:   time.Now(),
	}, nil
}
