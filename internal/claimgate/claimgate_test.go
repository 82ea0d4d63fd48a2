package claimgate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundlang/ground/internal/registry"
)

func openTestDB(t *testing.T) *registry.DB {
	t.Helper()
	db, err := registry.OpenDB(registry.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestClaimDryViolationWithoutEvidenceIsRejected(t *testing.T) {
	db := openTestDB(t)
	_, err := ClaimDryViolation(context.Background(), db, "a.ts", "b.ts", "hashA", "hashB", "looks similar", DefaultThresholds())

	require.Error(t, err)
	var noEvidence *NoEvidence
	assert.True(t, errors.As(err, &noEvidence))
}

func TestClaimDryViolationBelowThreshold(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	key := registry.SimilarityKey("a.ts", "b.ts")
	hashes := registry.SimilarityContentHashes("a.ts", "b.ts", "hashA", "hashB")
	_, err := registry.Record(ctx, db, registry.VariantSimilarity, key, hashes, map[string]float64{"similarity": 0.5}, time.Now())
	require.NoError(t, err)

	_, err = ClaimDryViolation(ctx, db, "a.ts", "b.ts", "hashA", "hashB", "looks similar", DefaultThresholds())
	require.Error(t, err)
	var belowThreshold *BelowThreshold
	assert.True(t, errors.As(err, &belowThreshold))
}

func TestClaimDryViolationSucceeds(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	key := registry.SimilarityKey("a.ts", "b.ts")
	hashes := registry.SimilarityContentHashes("a.ts", "b.ts", "hashA", "hashB")
	_, err := registry.Record(ctx, db, registry.VariantSimilarity, key, hashes, map[string]float64{"similarity": 0.91}, time.Now())
	require.NoError(t, err)

	claim, err := ClaimDryViolation(ctx, db, "b.ts", "a.ts", "hashB", "hashA", "same validation logic", DefaultThresholds())
	require.NoError(t, err)
	assert.InDelta(t, 0.91, claim.Similarity, 1e-9)
	assert.Equal(t, "same validation logic", claim.Reason)
}

func TestClaimDryViolationRejectsStaleEvidence(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	key := registry.SimilarityKey("a.ts", "b.ts")
	hashes := registry.SimilarityContentHashes("a.ts", "b.ts", "hashA", "hashB")
	_, err := registry.Record(ctx, db, registry.VariantSimilarity, key, hashes, map[string]float64{"similarity": 0.91}, time.Now())
	require.NoError(t, err)

	_, err = ClaimDryViolation(ctx, db, "a.ts", "b.ts", "hashA-changed", "hashB", "same validation logic", DefaultThresholds())
	require.Error(t, err)
	var contradicts *EvidenceContradicts
	assert.True(t, errors.As(err, &contradicts))
}

func TestClaimNoExistenceContradictedByUsage(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	key := registry.UsageKey("helper", "/project")
	_, err := registry.Record(ctx, db, registry.VariantUsage, key, nil, map[string]int{"count": 3}, time.Now())
	require.NoError(t, err)

	_, err = ClaimNoExistence(ctx, db, "helper", "/project", "seems unused", DefaultThresholds())
	require.Error(t, err)
	var contradicts *EvidenceContradicts
	assert.True(t, errors.As(err, &contradicts))
}

func TestClaimNoExistenceSucceeds(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	key := registry.UsageKey("orphanFn", "/project")
	_, err := registry.Record(ctx, db, registry.VariantUsage, key, nil, map[string]int{"count": 0}, time.Now())
	require.NoError(t, err)

	claim, err := ClaimNoExistence(ctx, db, "orphanFn", "/project", "dead code", DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, 0, claim.UsageCount)
}

func TestClaimDisconnectionSucceeds(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	key := registry.ConnectivityKey("/project/orphan.ts")
	_, err := registry.Record(ctx, db, registry.VariantConnectivity, key, nil, map[string]int{"total_connections": 0}, time.Now())
	require.NoError(t, err)

	claim, err := ClaimDisconnection(ctx, db, "/project/orphan.ts", "nothing imports this", DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, 0, claim.Connections)
}

func TestClaimDisconnectionContradictedByConnections(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	key := registry.ConnectivityKey("/project/hub.ts")
	_, err := registry.Record(ctx, db, registry.VariantConnectivity, key, nil, map[string]int{"total_connections": 4}, time.Now())
	require.NoError(t, err)

	_, err = ClaimDisconnection(ctx, db, "/project/hub.ts", "seems orphaned", DefaultThresholds())
	require.Error(t, err)
	var contradicts *EvidenceContradicts
	assert.True(t, errors.As(err, &contradicts))
}
