package assetcache

import (
	"context"
)

// AssetConstraint is an interface for decoded asset constraints.
type AssetConstraint interface {
	any
}

// ProgressEvent is a progress notification emitted by a loader while it works
// on a single identifier. Its shape is defined by the loader implementation;
// the cache only forwards it to interested observers.
type ProgressEvent any

// ProgressFunc reports batch progress as a count of settled items over the
// number of items that required an actual load: (1, N), (2, N), ... (N, N).
type ProgressFunc func(done, total int)

// ErrorFunc receives a load failure. The error is always a *LoadError wrapping
// whatever the loader reported.
type ErrorFunc func(err error)

// Loader turns an identifier into a decoded asset.
// Implementations must be safe for concurrent use: the manager may invoke
// Load for different identifiers at the same time from different goroutines.
// Loads for one identifier are not started while its cache entry stays
// pending, but removing a pending entry lifts that guarantee and a later load
// may run concurrently with the orphaned one (see Manager.Remove).
//
// Load may report progress through report zero or more times before
// returning, and must not call report after it has returned. Returning is the
// single terminal outcome: either the asset or an error, exactly once.
type Loader[V AssetConstraint] interface {
	Load(ctx context.Context, id string, report func(ProgressEvent)) (V, error)
}

// Kind identifies a loader implementation and knows how to construct it.
// A Kind value is used as a registry key, so it must be comparable; small
// struct types (often empty) are the usual choice. Two equal Kind values name
// the same loader instance.
type Kind[V AssetConstraint] interface {
	// NewLoader constructs a fresh loader instance for this kind.
	NewLoader() Loader[V]
}

// Store is a mapping from identifier to cache entry.
// Implementations must be thread-safe.
type Store[V AssetConstraint] interface {
	// Add stores value under id, unconditionally overwriting any existing
	// entry whatever its state.
	Add(id string, value V)

	// Get returns the current entry for id. The zero Entry (StateAbsent) is
	// returned for unknown identifiers.
	Get(id string) Entry[V]

	// Remove deletes the entries for the given identifiers unconditionally,
	// including entries that are currently pending.
	Remove(ids ...string)

	// MarkPending records that a load for id has started but not yet settled.
	// The check for an existing entry and the mark must be issued as one
	// uninterrupted step by the caller.
	MarkPending(id string)
}
