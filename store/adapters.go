package store

import (
	assetcache "github.com/karupanerura/asset-cache"
)

var _ assetcache.Store[struct{}] = (*FunctionsStore[struct{}])(nil)

// FunctionsStore is an asset store built from function callbacks.
// It is handy for tests and for instrumenting another store: wrap the other
// store's methods and observe the calls. A nil callback makes the operation a
// no-op (Get reports an absent entry).
type FunctionsStore[V assetcache.AssetConstraint] struct {
	// AddFunc stores a resolved asset under an identifier.
	AddFunc func(id string, value V)

	// GetFunc returns the current entry for an identifier.
	GetFunc func(id string) assetcache.Entry[V]

	// RemoveFunc deletes the entries for the given identifiers.
	RemoveFunc func(ids ...string)

	// MarkPendingFunc records an identifier as in flight.
	MarkPendingFunc func(id string)
}

// Add calls AddFunc if it is set.
func (s *FunctionsStore[V]) Add(id string, value V) {
	if s.AddFunc != nil {
		s.AddFunc(id, value)
	}
}

// Get calls GetFunc if it is set; otherwise it reports an absent entry.
func (s *FunctionsStore[V]) Get(id string) assetcache.Entry[V] {
	if s.GetFunc != nil {
		return s.GetFunc(id)
	}
	return assetcache.Entry[V]{}
}

// Remove calls RemoveFunc if it is set.
func (s *FunctionsStore[V]) Remove(ids ...string) {
	if s.RemoveFunc != nil {
		s.RemoveFunc(ids...)
	}
}

// MarkPending calls MarkPendingFunc if it is set.
func (s *FunctionsStore[V]) MarkPending(id string) {
	if s.MarkPendingFunc != nil {
		s.MarkPendingFunc(id)
	}
}
