// Package storetest provides generic test cases for asset store implementations.
package storetest

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	assetcache "github.com/karupanerura/asset-cache"
	"golang.org/x/sync/errgroup"
)

// TestStore verifies the Store contract: tagged entry states, unconditional
// overwrites and unconditional removal.
func TestStore(t *testing.T, provider func() (assetcache.Store[string], func())) {
	t.Run("AbsentByDefault", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		if entry := store.Get("missing"); entry.State != assetcache.StateAbsent {
			t.Errorf("unexpected state for unknown id: %v", entry.State)
		}
	})

	t.Run("AddThenGet", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		store.Add("texture/stone", "stone-bytes")
		got := store.Get("texture/stone")
		want := assetcache.Entry[string]{State: assetcache.StateResolved, Value: "stone-bytes"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected entry: (-want, +got)\n%s", diff)
		}
	})

	t.Run("AddOverwritesAnyState", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		store.MarkPending("a")
		store.Add("a", "v1")
		if got, ok := store.Get("a").Resolved(); !ok || got != "v1" {
			t.Errorf("expected resolved v1, got %+v", store.Get("a"))
		}

		store.Add("a", "v2")
		if got, ok := store.Get("a").Resolved(); !ok || got != "v2" {
			t.Errorf("expected resolved v2, got %+v", store.Get("a"))
		}
	})

	t.Run("MarkPending", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		store.MarkPending("a")
		entry := store.Get("a")
		if entry.State != assetcache.StatePending {
			t.Errorf("unexpected state: %v", entry.State)
		}
		if _, ok := entry.Resolved(); ok {
			t.Error("pending entry must not resolve")
		}
	})

	t.Run("RemoveAnyState", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		store.Add("resolved", "v")
		store.MarkPending("pending")
		store.Remove("resolved", "pending", "missing")

		for _, id := range []string{"resolved", "pending"} {
			if entry := store.Get(id); entry.State != assetcache.StateAbsent {
				t.Errorf("id %q: unexpected state after remove: %v", id, entry.State)
			}
		}
	})

	t.Run("ZeroValueStaysResolved", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		store.Add("empty", "")
		entry := store.Get("empty")
		if entry.State != assetcache.StateResolved {
			t.Errorf("unexpected state: %v", entry.State)
		}
		if got, ok := entry.Resolved(); !ok || got != "" {
			t.Errorf("expected resolved zero value, got %+v", entry)
		}
	})
}

// TestConcurrentAccess hammers the store from many goroutines.
// Run it with -race to catch unsynchronized access.
func TestConcurrentAccess(t *testing.T, provider func() (assetcache.Store[string], func())) {
	t.Run("ConcurrentAccess", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		const workers = 8
		const perWorker = 256

		var eg errgroup.Group
		for w := 0; w < workers; w++ {
			eg.Go(func() error {
				for i := 0; i < perWorker; i++ {
					id := fmt.Sprintf("asset-%d", i%32)
					store.MarkPending(id)
					store.Add(id, id)
					if entry := store.Get(id); entry.State == assetcache.StateResolved && entry.Value == "" {
						return fmt.Errorf("id %q: resolved entry lost its value", id)
					}
					store.Remove(id)
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			t.Error(err)
		}
	})
}

// TestClonerStruct is an asset type for TestCloneStruct.
type TestClonerStruct struct {
	value int8
}

// NewTestClonerStruct creates a TestClonerStruct holding value.
func NewTestClonerStruct(value int8) *TestClonerStruct {
	return &TestClonerStruct{value: value}
}

// Clone returns a copy of the struct.
func (s *TestClonerStruct) Clone() *TestClonerStruct {
	return &TestClonerStruct{value: s.value}
}

// TestCloneStruct verifies that a store configured with a cloner hands out
// copies rather than the stored asset itself.
func TestCloneStruct(t *testing.T, provider func() (assetcache.Store[*TestClonerStruct], func())) {
	t.Run("CloneStruct", func(t *testing.T) {
		t.Parallel()

		store, release := provider()
		defer release()

		original := NewTestClonerStruct(1)
		store.Add("model/chair", original)

		first := store.Get("model/chair")
		second := store.Get("model/chair")
		got, ok := first.Resolved()
		if !ok {
			t.Fatalf("expected resolved entry, got %+v", first)
		}
		if got == original {
			t.Error("store handed out the stored asset itself")
		}
		if other, _ := second.Resolved(); other == got {
			t.Error("store handed out the same copy twice")
		}
	})
}

// BenchmarkAdd benchmarks the Add method of the asset store.
func BenchmarkAdd[V assetcache.AssetConstraint](b *testing.B, store assetcache.Store[V], ids []string, value V) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Add(ids[i%len(ids)], value)
	}
}

// BenchmarkGet benchmarks the Get method of the asset store.
func BenchmarkGet[V assetcache.AssetConstraint](b *testing.B, store assetcache.Store[V], ids []string, value V) {
	for _, id := range ids {
		store.Add(id, value)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Get(ids[i%len(ids)])
	}
}
