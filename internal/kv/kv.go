// Package kv provides the narrow key-value contract the address store is
// built on: point lookup, point write, and idempotent deletion. Backends
// include BadgerDB for an embedded table, S3 for object storage, and an
// in-memory map for tests. Implementations must be safe for concurrent use,
// and each operation must be individually atomic.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Store is a flat key-value store.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a key-value pair. Overwrites any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
