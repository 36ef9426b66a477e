package assetcache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	assetcache "github.com/karupanerura/asset-cache"
	"github.com/karupanerura/asset-cache/loaders"
)

func TestLoaderRegistry_GetLoader(t *testing.T) {
	t.Parallel()

	var constructed atomic.Int32
	load := func(_ context.Context, id string, _ func(assetcache.ProgressEvent)) (string, error) {
		return id, nil
	}
	kind := countingKind[string]{constructed: &constructed, load: &load}
	registry := assetcache.NewLoaderRegistry[string]()

	first := registry.GetLoader(kind)
	second := registry.GetLoader(kind)
	if first != second {
		t.Error("expected the identical loader instance for repeated requests")
	}
	if got := constructed.Load(); got != 1 {
		t.Errorf("expected one construction, got %d", got)
	}
}

func TestLoaderRegistry_RemoveLoader(t *testing.T) {
	t.Parallel()

	var constructed atomic.Int32
	load := func(_ context.Context, id string, _ func(assetcache.ProgressEvent)) (string, error) {
		return id, nil
	}
	kind := countingKind[string]{constructed: &constructed, load: &load}
	registry := assetcache.NewLoaderRegistry[string]()

	old := registry.GetLoader(kind)
	registry.RemoveLoader(kind)
	fresh := registry.GetLoader(kind)
	if old == fresh {
		t.Error("expected a fresh instance after eviction")
	}
	if got := constructed.Load(); got != 2 {
		t.Errorf("expected two constructions, got %d", got)
	}

	// Removing an unknown kind is a no-op.
	registry.RemoveLoader(staticKind[string]{loader: &loaders.MapLoader[string]{}})
}

func TestLoaderRegistry_GetLoader_Concurrent(t *testing.T) {
	t.Parallel()

	var constructed atomic.Int32
	load := func(_ context.Context, id string, _ func(assetcache.ProgressEvent)) (string, error) {
		return id, nil
	}
	kind := countingKind[string]{constructed: &constructed, load: &load}
	registry := assetcache.NewLoaderRegistry[string]()

	const numGoroutines = 8
	results := make([]assetcache.Loader[string], numGoroutines)
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(index int) {
			defer wg.Done()
			results[index] = registry.GetLoader(kind)
		}(i)
	}
	wg.Wait()

	if got := constructed.Load(); got != 1 {
		t.Errorf("expected one construction, got %d", got)
	}
	for i := 1; i < numGoroutines; i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent requests observed different instances")
		}
	}
}
