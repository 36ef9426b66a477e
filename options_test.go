package assetcache_test

import (
	"context"
	"sync/atomic"
	"testing"

	assetcache "github.com/karupanerura/asset-cache"
	"github.com/karupanerura/asset-cache/loaders"
	"github.com/karupanerura/asset-cache/store/memstore"
)

type ctxKey struct{}

func TestWithBackgroundContextProvider(t *testing.T) {
	t.Parallel()

	var observed atomic.Value
	loader := &loaders.FunctionsLoader[string]{
		LoadFunc: func(ctx context.Context, id string, _ func(assetcache.ProgressEvent)) (string, error) {
			observed.Store(ctx.Value(ctxKey{}))
			return id, nil
		},
	}
	m := assetcache.New[string](memstore.New[string](),
		assetcache.WithBackgroundContextProvider[string](func() context.Context {
			return context.WithValue(context.Background(), ctxKey{}, "background")
		}))

	if _, err := m.Load(t.Context(), staticKind[string]{loader}, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := observed.Load(); got != "background" {
		t.Errorf("loader did not receive the provided context, got %v", got)
	}
}

func TestWithLoaderRegistry(t *testing.T) {
	t.Parallel()

	var constructed atomic.Int32
	load := func(_ context.Context, id string, _ func(assetcache.ProgressEvent)) (string, error) {
		return id, nil
	}
	kind := countingKind[string]{constructed: &constructed, load: &load}

	registry := assetcache.NewLoaderRegistry[string]()
	first := assetcache.New[string](memstore.New[string](), assetcache.WithLoaderRegistry(registry))
	second := assetcache.New[string](memstore.New[string](), assetcache.WithLoaderRegistry(registry))

	if _, err := first.Load(t.Context(), kind, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := second.Load(t.Context(), kind, "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := constructed.Load(); got != 1 {
		t.Errorf("expected managers to share one loader instance, got %d constructions", got)
	}
}
