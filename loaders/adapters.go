package loaders

import (
	"context"
	"errors"
	"sync/atomic"

	assetcache "github.com/karupanerura/asset-cache"
)

// ErrUnknownAsset is reported by MapLoader for identifiers it has no asset for.
var ErrUnknownAsset = errors.New("unknown asset")

// FunctionsLoader is a loader that uses a function to load assets.
type FunctionsLoader[V assetcache.AssetConstraint] struct {
	// LoadFunc turns an identifier into a decoded asset.
	// It must follow the assetcache.Loader contract.
	LoadFunc func(ctx context.Context, id string, report func(assetcache.ProgressEvent)) (V, error)
}

var _ assetcache.Loader[struct{}] = (*FunctionsLoader[struct{}])(nil)

// Load calls LoadFunc.
func (l *FunctionsLoader[V]) Load(ctx context.Context, id string, report func(assetcache.ProgressEvent)) (V, error) {
	return l.LoadFunc(ctx, id, report)
}

// MapLoader serves assets from a fixed map. Useful for tests and for seeding
// a cache with embedded assets.
type MapLoader[V assetcache.AssetConstraint] struct {
	// Assets maps identifiers to their decoded assets.
	Assets map[string]V
}

var _ assetcache.Loader[struct{}] = (*MapLoader[struct{}])(nil)

// Load returns the mapped asset, or ErrUnknownAsset when the identifier is
// not present.
func (l *MapLoader[V]) Load(_ context.Context, id string, _ func(assetcache.ProgressEvent)) (V, error) {
	value, ok := l.Assets[id]
	if !ok {
		var zero V
		return zero, ErrUnknownAsset
	}
	return value, nil
}

// LintLoader is a loader decorator that is used for linting purposes.
// It validates the behavior of the wrapped loader, ensuring it properly
// follows the assetcache.Loader contract. In particular, it checks that the
// loader does not report progress after it has returned.
type LintLoader[V assetcache.AssetConstraint] struct {
	Loader assetcache.Loader[V]
}

var _ assetcache.Loader[struct{}] = (*LintLoader[struct{}])(nil)

// Load invokes the wrapped loader with a guarded progress func.
func (l *LintLoader[V]) Load(ctx context.Context, id string, report func(assetcache.ProgressEvent)) (V, error) {
	var settled atomic.Bool
	value, err := l.Loader.Load(ctx, id, func(event assetcache.ProgressEvent) {
		if settled.Load() {
			panic("progress reported after the load settled")
		}
		if report != nil {
			report(event)
		}
	})
	settled.Store(true)
	return value, err
}
