package memstore_test

import (
	"fmt"
	"testing"

	assetcache "github.com/karupanerura/asset-cache"
	"github.com/karupanerura/asset-cache/store/memstore"
	"github.com/karupanerura/asset-cache/store/storetest"
)

func TestDistributedStore(t *testing.T) {
	t.Parallel()

	provider := func() (assetcache.Store[string], func()) {
		return memstore.New[string](), func() {}
	}
	storetest.TestStore(t, provider)
	storetest.TestConcurrentAccess(t, provider)
}

func TestSingleBucketStore(t *testing.T) {
	t.Parallel()

	provider := func() (assetcache.Store[string], func()) {
		return memstore.New(memstore.WithBucketsSize[string](1)), func() {}
	}
	storetest.TestStore(t, provider)
	storetest.TestConcurrentAccess(t, provider)
}

func TestStoreWithIDHash(t *testing.T) {
	t.Parallel()

	// A constant hash funnels every identifier into one bucket; semantics
	// must not change.
	provider := func() (assetcache.Store[string], func()) {
		store := memstore.New(
			memstore.WithBucketsSize[string](4),
			memstore.WithIDHash[string](func(string) int { return 1 }),
		)
		return store, func() {}
	}
	storetest.TestStore(t, provider)
}

func TestStoreWithNegativeIDHash(t *testing.T) {
	t.Parallel()

	store := memstore.New(
		memstore.WithBucketsSize[string](4),
		memstore.WithIDHash[string](func(string) int { return -7 }),
	)
	store.Add("a", "v")
	if value, ok := store.Get("a").Resolved(); !ok || value != "v" {
		t.Errorf("unexpected entry: %+v", store.Get("a"))
	}
}

func TestStoreWithCloner(t *testing.T) {
	t.Parallel()

	provider := func() (assetcache.Store[*storetest.TestClonerStruct], func()) {
		store := memstore.New(
			memstore.WithCloner[*storetest.TestClonerStruct](
				assetcache.DefaultAssetCloner[*storetest.TestClonerStruct](),
			),
		)
		return store, func() {}
	}
	storetest.TestCloneStruct(t, provider)
}

func TestStoreSharesAssetsByDefault(t *testing.T) {
	t.Parallel()

	store := memstore.New[*storetest.TestClonerStruct]()
	original := storetest.NewTestClonerStruct(1)
	store.Add("model/chair", original)
	if got, _ := store.Get("model/chair").Resolved(); got != original {
		t.Error("expected the stored asset to be shared by reference")
	}
}

func BenchmarkDistributedStore(b *testing.B) {
	ids := make([]string, 1024)
	for i := range ids {
		ids[i] = fmt.Sprintf("asset-%d", i)
	}

	b.Run("Add", func(b *testing.B) {
		storetest.BenchmarkAdd(b, memstore.New[string](), ids, "value")
	})
	b.Run("Get", func(b *testing.B) {
		storetest.BenchmarkGet(b, memstore.New[string](), ids, "value")
	})
}

func BenchmarkSingleBucketStore(b *testing.B) {
	ids := make([]string, 1024)
	for i := range ids {
		ids[i] = fmt.Sprintf("asset-%d", i)
	}

	b.Run("Add", func(b *testing.B) {
		storetest.BenchmarkAdd(b, memstore.New(memstore.WithBucketsSize[string](1)), ids, "value")
	})
	b.Run("Get", func(b *testing.B) {
		storetest.BenchmarkGet(b, memstore.New(memstore.WithBucketsSize[string](1)), ids, "value")
	})
}
