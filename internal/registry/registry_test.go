package registry

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInMemory(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	err = db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("key"), []byte("value"))
	})
	require.NoError(t, err)

	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("key"))
		require.NoError(t, err)
		return item.Value(func(val []byte) error {
			assert.Equal(t, []byte("value"), val)
			return nil
		})
	})
	require.NoError(t, err)
}

func TestOpenWithPathPersists(t *testing.T) {
	dir, err := TempDir("registry-test-")
	require.NoError(t, err)
	defer CleanupDir(dir)

	db, err := OpenWithPath(dir)
	require.NoError(t, err)

	err = db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("persistent-key"), []byte("persistent-value"))
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db2, err := OpenWithPath(dir)
	require.NoError(t, err)
	defer db2.Close()

	err = db2.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("persistent-key"))
		require.NoError(t, err)
		return item.Value(func(val []byte) error {
			assert.Equal(t, []byte("persistent-value"), val)
			return nil
		})
	})
	require.NoError(t, err)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{InMemory: false, Path: ""})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.SyncWrites)
	assert.False(t, cfg.InMemory)
	assert.Equal(t, 1, cfg.NumVersionsToKeep)
	assert.Equal(t, 5*time.Minute, cfg.GCInterval)

	mem := InMemoryConfig()
	assert.True(t, mem.InMemory)
	assert.False(t, mem.SyncWrites)
	assert.Equal(t, time.Duration(0), mem.GCInterval)
}

func TestDBWithTxnRoundTrip(t *testing.T) {
	db, err := OpenDB(InMemoryConfig())
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set([]byte("txn-key"), []byte("txn-value"))
	}))

	require.NoError(t, db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("txn-key"))
		require.NoError(t, err)
		return item.Value(func(val []byte) error {
			assert.Equal(t, []byte("txn-value"), val)
			return nil
		})
	}))
}

func TestDBWithTxnContextCancelled(t *testing.T) {
	db, err := OpenDB(InMemoryConfig())
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = db.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set([]byte("key"), []byte("value"))
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}

func TestGCRunnerValidation(t *testing.T) {
	_, err := NewGCRunner(nil, time.Second, 0.5, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "db must not be nil")

	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewGCRunner(db, 0, 0.5, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "interval must be positive")

	_, err = NewGCRunner(db, time.Second, 1.5, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ratio must be between 0 and 1")
}

func TestGCRunnerStartStop(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	runner, err := NewGCRunner(db, 10*time.Millisecond, 0.5, nil)
	require.NoError(t, err)

	runner.Start()
	time.Sleep(25 * time.Millisecond)
	runner.Stop()
}

func TestSimilarityKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, SimilarityKey("b.ts", "a.ts"), SimilarityKey("a.ts", "b.ts"))
}

func TestRecordAndGetRoundTrip(t *testing.T) {
	db, err := OpenDB(InMemoryConfig())
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	key := SimilarityKey("a.ts", "b.ts")
	payload := map[string]float64{"similarity": 0.92}

	_, err = Record(ctx, db, VariantSimilarity, key, []string{"hash-a", "hash-b"}, payload, time.Now())
	require.NoError(t, err)

	record, found, err := Get(ctx, db, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, VariantSimilarity, record.Variant)
	assert.Equal(t, []string{"hash-a", "hash-b"}, record.ContentHashes)
}

func TestGetMissReturnsFalse(t *testing.T) {
	db, err := OpenDB(InMemoryConfig())
	require.NoError(t, err)
	defer db.Close()

	_, found, err := Get(context.Background(), db, "nonexistent")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRecordIsIdempotentOnSameKey(t *testing.T) {
	db, err := OpenDB(InMemoryConfig())
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	key := ConnectivityKey("/abs/module.ts")

	_, err = Record(ctx, db, VariantConnectivity, key, []string{"h1"}, map[string]int{"connections": 1}, time.Now())
	require.NoError(t, err)
	_, err = Record(ctx, db, VariantConnectivity, key, []string{"h2"}, map[string]int{"connections": 2}, time.Now())
	require.NoError(t, err)

	record, found, err := Get(ctx, db, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"h2"}, record.ContentHashes)
}

func TestSummaryCountsPerVariant(t *testing.T) {
	db, err := OpenDB(InMemoryConfig())
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = Record(ctx, db, VariantSimilarity, SimilarityKey("a.ts", "b.ts"), nil, "x", time.Now())
	require.NoError(t, err)
	_, err = Record(ctx, db, VariantEnvironment, EnvironmentKey("/entry.ts"), nil, "y", time.Now())
	require.NoError(t, err)
	_, err = Record(ctx, db, VariantEnvironment, EnvironmentKey("/entry2.ts"), nil, "z", time.Now())
	require.NoError(t, err)

	summary, err := Summary(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, summary[VariantSimilarity])
	assert.Equal(t, 2, summary[VariantEnvironment])
}
