// Package registry is Ground's durable evidence store (§4.G): a
// Badger-backed key/value database recording one EvidenceRecord per
// claim-gated computation, keyed canonically per variant, so repeated
// runs over an unchanged codebase reuse prior evidence instead of
// recomputing it.
package registry

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Config configures a Badger-backed DB, grounded on the storage
// contract badger_test.go exercises (OpenInMemory, OpenWithPath, Open,
// DefaultConfig, InMemoryConfig all match that contract; the
// implementation itself is written fresh since the pack carries only
// the test file).
type Config struct {
	InMemory          bool
	Path              string
	SyncWrites        bool
	NumVersionsToKeep int
	GCInterval        time.Duration
}

// DefaultConfig returns the persistent-mode defaults.
func DefaultConfig() Config {
	return Config{
		InMemory:          false,
		SyncWrites:        true,
		NumVersionsToKeep: 1,
		GCInterval:        5 * time.Minute,
	}
}

// InMemoryConfig returns defaults for a throwaway in-memory database
// (used by tests): sync writes and GC are both pointless without a
// disk to flush to.
func InMemoryConfig() Config {
	return Config{
		InMemory:          true,
		SyncWrites:        false,
		NumVersionsToKeep: 1,
		GCInterval:        0,
	}
}

// Open opens a raw *badger.DB per cfg.
func Open(cfg Config) (*badger.DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("registry: path is required for persistent mode")
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts = opts.WithInMemory(cfg.InMemory)
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(cfg.NumVersionsToKeep)
	opts = opts.WithLogger(nil)

	return badger.Open(opts)
}

// OpenInMemory opens a throwaway in-memory database.
func OpenInMemory() (*badger.DB, error) {
	return Open(InMemoryConfig())
}

// OpenWithPath opens a persistent database rooted at dir.
func OpenWithPath(dir string) (*badger.DB, error) {
	cfg := DefaultConfig()
	cfg.Path = dir
	return Open(cfg)
}

// DB wraps *badger.DB with context-aware transaction helpers.
type DB struct {
	badger *badger.DB
}

// OpenDB opens a managed DB per cfg.
func OpenDB(cfg Config) (*DB, error) {
	raw, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return &DB{badger: raw}, nil
}

// Close closes the underlying Badger database.
func (d *DB) Close() error { return d.badger.Close() }

// Raw exposes the underlying *badger.DB for callers needing direct
// transaction access.
func (d *DB) Raw() *badger.DB { return d.badger }

// WithTxn runs fn in a read-write transaction, aborting if ctx is
// already cancelled.
func (d *DB) WithTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("registry: context cancelled: %w", err)
	}
	return d.badger.Update(fn)
}

// WithReadTxn runs fn in a read-only transaction, aborting if ctx is
// already cancelled.
func (d *DB) WithReadTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("registry: context cancelled: %w", err)
	}
	return d.badger.View(fn)
}

// TempDir creates a new temporary directory with the given prefix,
// for tests that need a persistent Badger path.
func TempDir(prefix string) (string, error) {
	return os.MkdirTemp("", prefix)
}

// CleanupDir removes dir and its contents. A blank path is a no-op.
func CleanupDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.RemoveAll(dir)
}
