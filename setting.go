package prefkit

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prefkit/prefkit/codec"
	"github.com/prefkit/prefkit/notify"
	"github.com/prefkit/prefkit/store"
)

// Setting is a typed, cached view of one key in a backing store.
//
// All operations are safe for concurrent use. A single RWMutex serializes
// cache and store access per instance: reads run concurrently, writes run
// exclusively and atomically (cache update, encode, persist, flush,
// publish). Two Settings bound to the same key are not coordinated beyond
// the store's own per-key atomicity; each instance's cache reflects only
// writes it issued or re-read itself.
type Setting[T any] struct {
	key    string
	def    T
	store  store.Store
	codec  codec.Codec
	logger *slog.Logger
	strict bool

	mu       sync.RWMutex
	cached   *T
	gen      uint64 // bumped on every write/reset/invalidate
	notifier *notify.Notifier[T]
}

// New declares a setting under key with a default value, backed by st.
//
// If the store has no entry for key yet, the encoded default is written and
// flushed before New returns, so a known key always holds a decodable
// entry. The value is then loaded into the cache so the first access is
// cache-hot. Failures during this bootstrap are logged and tolerated: the
// setting still works with the in-memory default.
func New[T any](key string, def T, st store.Store, opts ...Option) *Setting[T] {
	cfg := config{
		codec:  codec.JSON(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Setting[T]{
		key:      key,
		def:      def,
		store:    st,
		codec:    cfg.codec,
		logger:   cfg.logger,
		strict:   cfg.strict,
		notifier: notify.New[T](),
	}

	ok, err := st.Has(key)
	if err != nil {
		s.logger.Warn("setting bootstrap probe failed", "key", key, "error", err)
	}
	if err == nil && !ok {
		if data, err := s.codec.Marshal(def); err != nil {
			s.logger.Error("setting default encode failed", "key", key, "codec", s.codec.Name(), "error", err)
		} else if err := st.Write(key, data); err != nil {
			s.logger.Warn("setting default persist failed", "key", key, "error", err)
		} else if err := st.Flush(); err != nil {
			s.logger.Warn("setting flush failed", "key", key, "error", err)
		}
	}

	v := s.load()
	s.cached = &v
	return s
}

// Key returns the immutable store key.
func (s *Setting[T]) Key() string { return s.key }

// Default returns the default value supplied at construction.
func (s *Setting[T]) Default() T { return s.def }

// Get returns the cached value. On a cache miss it loads from the backing
// store, substituting the default (and logging) when the entry is missing
// or will not decode. Get never fails.
func (s *Setting[T]) Get() T {
	s.mu.RLock()
	if s.cached != nil {
		v := *s.cached
		s.mu.RUnlock()
		return v
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return *s.cached
	}
	v := s.load()
	s.cached = &v
	return v
}

// Value bypasses the cache and re-reads the backing store, distinguishing
// failure causes: ErrKeyNotFound, ErrTypeMismatch, ErrInvalidData,
// ErrDecodingFailed, ErrAccessError. On success the cache is refreshed with
// the decoded value.
//
// Use Value when "default because nothing was stored" must be told apart
// from "default because storage was corrupt".
func (s *Setting[T]) Value() (T, error) {
	s.mu.RLock()
	gen := s.gen
	data, err := s.store.Read(s.key)
	s.mu.RUnlock()

	var zero T
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return zero, fmt.Errorf("%w: %q", ErrKeyNotFound, s.key)
		}
		return zero, fmt.Errorf("%w: %q: %v", ErrAccessError, s.key, err)
	}

	var v T
	if err := s.codec.Unmarshal(data, &v); err != nil {
		return zero, s.classifyDecode(err)
	}

	// The store is authoritative over the cache, but never over a write
	// that landed after our read.
	s.mu.Lock()
	if s.gen == gen {
		s.cached = &v
	}
	s.mu.Unlock()
	return v, nil
}

// Set updates the cache, persists the encoded value, flushes the store, and
// publishes to any live subscriptions, all atomically with respect to other
// operations on this instance. Set never fails.
//
// If the value cannot be encoded, the store entry is removed (stale bytes
// are never left behind a failed write) and the failure is logged, or
// panics under WithStrict. The cache still reflects v. Store write or flush
// failures are logged; the cache and subscriptions still reflect v.
func (s *Setting[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = &v
	s.gen++

	data, err := s.codec.Marshal(v)
	if err != nil {
		if rmErr := s.store.Remove(s.key); rmErr != nil {
			s.logger.Error("setting remove after encode failure", "key", s.key, "error", rmErr)
		}
		err = fmt.Errorf("%w: %q: %v", ErrEncodingFailed, s.key, err)
		if s.strict {
			panic(err)
		}
		s.logger.Error("setting encode failed", "key", s.key, "codec", s.codec.Name(), "error", err)
		return
	}

	if err := s.store.Write(s.key, data); err != nil {
		s.logger.Error("setting persist failed", "key", s.key, "error", err)
	} else if err := s.store.Flush(); err != nil {
		s.logger.Warn("setting flush failed", "key", s.key, "error", err)
	}

	s.notifier.Publish(v)
}

// Reset writes the default value through the same path as Set.
func (s *Setting[T]) Reset() {
	s.Set(s.def)
}

// Invalidate drops the cached value so the next read consults the backing
// store. Use after out-of-band mutation of the key (another process, a
// filestore watch event).
func (s *Setting[T]) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.gen++
	s.mu.Unlock()
}

// Watch returns a subscription that first yields the current value, then
// every subsequent successful Set or Reset on this instance, in write order.
// Subscriptions are independent: watching again does not detach earlier
// watchers. Cancel the subscription when done with it.
func (s *Setting[T]) Watch() *notify.Subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		v := s.load()
		s.cached = &v
	}
	return s.notifier.Subscribe(*s.cached)
}

// Close tears down the notifier: all subscription channels end once their
// queued values drain, and later writes no longer publish. The setting
// itself stays usable for reads and writes.
func (s *Setting[T]) Close() {
	s.notifier.Close()
}

// load reads and decodes the stored bytes, falling back to the default on
// any failure. Called with at least the write half of mu held, or from New
// before the setting is shared.
func (s *Setting[T]) load() T {
	data, err := s.store.Read(s.key)
	if err != nil {
		s.logger.Warn("setting read failed, using default", "key", s.key, "error", err)
		return s.def
	}
	var v T
	if err := s.codec.Unmarshal(data, &v); err != nil {
		s.logger.Warn("setting decode failed, using default", "key", s.key, "codec", s.codec.Name(), "error", err)
		return s.def
	}
	return v
}

func (s *Setting[T]) classifyDecode(err error) error {
	switch {
	case errors.Is(err, codec.ErrMismatch):
		return fmt.Errorf("%w: %q: %v", ErrTypeMismatch, s.key, err)
	case errors.Is(err, codec.ErrMalformed):
		return fmt.Errorf("%w: %q: %v", ErrInvalidData, s.key, err)
	default:
		return fmt.Errorf("%w: %q: %v", ErrDecodingFailed, s.key, err)
	}
}
