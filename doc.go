// Package prefkit is a typed, observable caching layer over a persistent
// key-value store.
//
// A Setting declares one named value with a default. Reads and writes go
// through an in-memory cache and are persisted through a pluggable codec to
// a pluggable backing store (see the store subpackages). The cached
// accessors never fail; Value re-reads storage and reports a precise error
// kind when the stored bytes are missing, corrupt, or the wrong shape.
// Watch hands out a live stream of the current value plus every subsequent
// write.
package prefkit
