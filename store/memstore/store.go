package memstore

import (
	"sync"

	assetcache "github.com/karupanerura/asset-cache"
)

type bucket[V assetcache.AssetConstraint] struct {
	m  map[string]assetcache.Entry[V]
	mu sync.RWMutex
}

type distributedStore[V assetcache.AssetConstraint] struct {
	buckets []*bucket[V]
	options options[V]
}

// New creates a new in-memory asset store.
// The store can be distributed across multiple buckets keyed by an identifier
// hash, so unrelated identifiers do not contend on one lock.
func New[V assetcache.AssetConstraint](opts ...Option[V]) assetcache.Store[V] {
	options := defaultOptions[V]()
	for _, opt := range opts {
		opt.apply(&options)
	}

	if options.bucketsSize == 1 {
		return &store[V]{
			bucket:  bucket[V]{m: map[string]assetcache.Entry[V]{}},
			options: options,
		}
	}

	buckets := make([]*bucket[V], options.bucketsSize)
	for i := range buckets {
		buckets[i] = &bucket[V]{m: map[string]assetcache.Entry[V]{}}
	}

	return &distributedStore[V]{
		buckets: buckets,
		options: options,
	}
}

var _ assetcache.Store[struct{}] = (*distributedStore[struct{}])(nil)

// resolveBucket returns the bucket that corresponds to the given identifier.
func (s *distributedStore[V]) resolveBucket(id string) *bucket[V] {
	index := s.options.hashID(id) % len(s.buckets)
	if index < 0 {
		index *= -1
	}
	return s.buckets[index]
}

func (s *distributedStore[V]) Add(id string, value V) {
	bucket := s.resolveBucket(id)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	bucket.m[id] = assetcache.Entry[V]{
		State: assetcache.StateResolved,
		Value: s.options.cloner.CloneAsset(value),
	}
}

func (s *distributedStore[V]) Get(id string) assetcache.Entry[V] {
	bucket := s.resolveBucket(id)
	bucket.mu.RLock()
	defer bucket.mu.RUnlock()

	entry := bucket.m[id]
	if entry.State == assetcache.StateResolved {
		entry.Value = s.options.cloner.CloneAsset(entry.Value)
	}
	return entry
}

func (s *distributedStore[V]) Remove(ids ...string) {
	for _, id := range ids {
		bucket := s.resolveBucket(id)
		bucket.mu.Lock()
		delete(bucket.m, id)
		bucket.mu.Unlock()
	}
}

func (s *distributedStore[V]) MarkPending(id string) {
	bucket := s.resolveBucket(id)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	bucket.m[id] = assetcache.Entry[V]{State: assetcache.StatePending}
}

type store[V assetcache.AssetConstraint] struct {
	bucket[V]
	options options[V]
}

var _ assetcache.Store[struct{}] = (*store[struct{}])(nil)

func (s *store[V]) Add(id string, value V) {
	s.bucket.mu.Lock()
	defer s.bucket.mu.Unlock()

	s.bucket.m[id] = assetcache.Entry[V]{
		State: assetcache.StateResolved,
		Value: s.options.cloner.CloneAsset(value),
	}
}

func (s *store[V]) Get(id string) assetcache.Entry[V] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry := s.bucket.m[id]
	if entry.State == assetcache.StateResolved {
		entry.Value = s.options.cloner.CloneAsset(entry.Value)
	}
	return entry
}

func (s *store[V]) Remove(ids ...string) {
	s.bucket.mu.Lock()
	defer s.bucket.mu.Unlock()

	for _, id := range ids {
		delete(s.bucket.m, id)
	}
}

func (s *store[V]) MarkPending(id string) {
	s.bucket.mu.Lock()
	defer s.bucket.mu.Unlock()

	s.bucket.m[id] = assetcache.Entry[V]{State: assetcache.StatePending}
}
