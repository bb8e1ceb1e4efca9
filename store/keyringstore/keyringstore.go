// Package keyringstore persists settings in the OS keychain (macOS
// Keychain, Windows Credential Manager, the Secret Service API on Linux).
//
// Suited to small, sensitive values; keychains impose per-item size limits
// on some platforms.
package keyringstore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	zkr "github.com/zalando/go-keyring"

	"github.com/prefkit/prefkit/store"
)

// Store keeps each entry as one keychain item under a shared service name,
// key as the account. Values are base64-encoded: keychains store strings,
// not bytes.
type Store struct {
	service string
}

// New returns a Store scoped to the given keychain service name.
func New(service string) *Store {
	return &Store{service: service}
}

func (s *Store) Has(key string) (bool, error) {
	_, err := zkr.Get(s.service, key)
	if errors.Is(err, zkr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("keychain get: %w", err)
	}
	return true, nil
}

func (s *Store) Read(key string) ([]byte, error) {
	encoded, err := zkr.Get(s.service, key)
	if errors.Is(err, zkr.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("keychain get: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("keychain decode: %w", err)
	}
	return data, nil
}

func (s *Store) Write(key string, data []byte) error {
	if err := zkr.Set(s.service, key, base64.StdEncoding.EncodeToString(data)); err != nil {
		return fmt.Errorf("keychain set: %w", err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	err := zkr.Delete(s.service, key)
	if err != nil && !errors.Is(err, zkr.ErrNotFound) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

// Flush is a no-op: keychain writes are synchronous on every supported
// platform.
func (s *Store) Flush() error { return nil }

// Available returns true if the OS keychain is functional. Returns false if
// PREFKIT_KEYRING_DISABLED=1 is set (opt-in for headless/CI). Otherwise
// probes the keychain with a test write/delete cycle.
func Available() bool {
	if os.Getenv("PREFKIT_KEYRING_DISABLED") == "1" {
		return false
	}
	const testService = "prefkit-keyring-probe"
	if err := zkr.Set(testService, "probe", "ok"); err != nil {
		return false
	}
	_ = zkr.Delete(testService, "probe")
	return true
}
