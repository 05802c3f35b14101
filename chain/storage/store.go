// Package storage defines the abstract key-value provider with atomic
// batch semantics that the energy core consumes, and a LevelDB-backed
// implementation of it.
package storage

import "errors"

// ErrNotFound is returned by Get when a key is absent.
var ErrNotFound = errors.New("storage: key not found")

// Provider is the minimal KV contract the energy core depends on: point
// get/put/delete plus a prefix iterator for the enumerations role configs
// and delegator indexes need (a stable ordering over role members and
// delegators).
type Provider interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Iterate(prefix []byte, fn func(key, value []byte) error) error

	// NewBatch begins an atomic write batch. Writes issued through the
	// batch are invisible to Get/Has/Iterate until Commit succeeds.
	NewBatch() Batch
}

// Batch accumulates writes for a single atomic commit. If the backend
// cannot provide batch atomicity, callers must degrade to the phased apply
// approach documented in SPEC_FULL.md §4.8/§4.9 and accept the residual
// inconsistency window; this package's LevelDB-backed Batch does not need
// to, since leveldb.Batch is natively atomic.
type Batch interface {
	Put(key, value []byte)
	Delete(key []byte)
	// Commit writes every Put/Delete issued since NewBatch as a single
	// atomic unit. All-or-nothing: a failure here must leave the store
	// exactly as it was before the batch began.
	Commit() error
}
