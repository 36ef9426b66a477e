package assetcache

import "sync"

// LoaderRegistry holds one loader instance per kind so expensive loader state
// is reused across loads. Instances are constructed lazily on first request.
type LoaderRegistry[V AssetConstraint] struct {
	mu      sync.RWMutex
	loaders map[Kind[V]]Loader[V]
}

// NewLoaderRegistry creates an empty registry.
func NewLoaderRegistry[V AssetConstraint]() *LoaderRegistry[V] {
	return &LoaderRegistry[V]{
		loaders: map[Kind[V]]Loader[V]{},
	}
}

// GetLoader returns the loader instance for kind, constructing and storing
// one on first request. Repeated calls with the same kind return the
// identical instance; stateful loaders may rely on that.
func (r *LoaderRegistry[V]) GetLoader(kind Kind[V]) Loader[V] {
	r.mu.RLock()
	if loader, ok := r.loaders[kind]; ok {
		r.mu.RUnlock()
		return loader
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if loader, ok := r.loaders[kind]; ok {
		return loader
	}
	loader := kind.NewLoader()
	r.loaders[kind] = loader
	return loader
}

// RemoveLoader evicts the instance for kind. A subsequent GetLoader
// constructs a fresh one. Loads already holding the old instance keep it.
func (r *LoaderRegistry[V]) RemoveLoader(kind Kind[V]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loaders, kind)
}
