// Package store defines the backing-store contract consumed by prefkit
// settings: a durable, process-wide key to binary-blob store.
//
// Implementations in the subpackages cover the common backends (in-memory,
// files, SQLite, the OS keychain); anything satisfying Store can be plugged
// in instead.
package store

import "errors"

// ErrNotFound is returned by Read when the store has no entry for the key.
// Any other error from a Store method is an access failure.
var ErrNotFound = errors.New("store: key not found")

// Store is a key to binary-blob store. Implementations must be safe for
// concurrent use; a single key's bytes are read and replaced atomically.
type Store interface {
	// Has reports whether an entry exists for key.
	Has(key string) (bool, error)

	// Read returns the bytes stored at key, or ErrNotFound.
	Read(key string) ([]byte, error)

	// Write replaces the entry at key.
	Write(key string, data []byte) error

	// Remove deletes the entry at key. Removing a missing key is not an error.
	Remove(key string) error

	// Flush forces durability of prior writes before returning.
	Flush() error
}
