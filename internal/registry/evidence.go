package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/groundlang/ground/internal/metrics"
)

// EvidenceRecord is the persisted unit of proof a claim gate (§4.H)
// retrieves before accepting DryViolation, NoExistence, or
// Disconnection claims: a computation's result plus the content
// hash(es) of the inputs it was computed over, so a stale record (an
// input changed since) can be detected by hash mismatch rather than
// trusted blindly.
type EvidenceRecord struct {
	ID            uuid.UUID       `json:"id"`
	Variant       Variant         `json:"variant"`
	Key           string          `json:"key"`
	ContentHashes []string        `json:"content_hashes"`
	Payload       json.RawMessage `json:"payload"`
	ComputedAt    time.Time       `json:"computed_at"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

// Record upserts an evidence record at key under variant. Writing
// twice with the same key is idempotent: the second write simply
// replaces the first, since Badger keys are unique and the write is a
// single transaction.
func Record(ctx context.Context, db *DB, variant Variant, key string, contentHashes []string, payload any, computedAt time.Time) (EvidenceRecord, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return EvidenceRecord{}, fmt.Errorf("registry: marshal payload: %w", err)
	}

	record := EvidenceRecord{
		ID:            uuid.New(),
		Variant:       variant,
		Key:           key,
		ContentHashes: contentHashes,
		Payload:       raw,
		ComputedAt:    computedAt,
		RecordedAt:    time.Now(),
	}

	value, err := json.Marshal(record)
	if err != nil {
		return EvidenceRecord{}, fmt.Errorf("registry: marshal record: %w", err)
	}

	err = db.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return EvidenceRecord{}, err
	}
	metrics.RegistryWritesTotal.WithLabelValues(string(variant)).Inc()
	return record, nil
}

// Get retrieves the most recent evidence record at key. The second
// result is false on a clean miss (no allocation beyond the lookup
// itself).
func Get(ctx context.Context, db *DB, key string) (EvidenceRecord, bool, error) {
	var record EvidenceRecord
	var found bool

	err := db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return EvidenceRecord{}, false, err
	}
	return record, found, nil
}

// Summary counts persisted evidence records per variant, by scanning
// all keys and bucketing on the variant prefix each key encodes.
func Summary(ctx context.Context, db *DB) (map[Variant]int, error) {
	counts := make(map[Variant]int)
	err := db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			if idx := strings.Index(key, keySeparator); idx > 0 {
				counts[Variant(key[:idx])]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
