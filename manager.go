package assetcache

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/karupanerura/asset-cache/internal/panicutil"
)

var errGoexit = errors.New("runtime.Goexit is called")

// Manager coordinates asset loading in front of a Store and a LoaderRegistry.
// It deduplicates concurrent loads for the same identifier, accumulates
// preloaded work and flushes it as one batch with aggregate progress.
//
// A Manager replaces ambient process-wide state: construct one per
// application (or one per test) and share it explicitly.
type Manager[V AssetConstraint] struct {
	registry *LoaderRegistry[V]
	store    Store[V]
	context  func() context.Context

	// mu guards waiters and queue, and makes every store state check atomic
	// with the transition it decides (check-then-mark must be one step).
	mu      sync.Mutex
	waiters map[string][]*waiter[V]
	queue   []pendingRequest[V]

	cbMu              sync.RWMutex
	defaultOnProgress ProgressFunc
	defaultOnError    ErrorFunc
}

// waiter is a single subscriber to an in-flight load.
type waiter[V AssetConstraint] struct {
	ch      chan outcome[V]
	observe func(ProgressEvent)
}

type outcome[V AssetConstraint] struct {
	value V
	err   error
}

// New creates a Manager backed by the given store.
// The store is owned by the manager afterwards; mutate it only through the
// manager, or in-flight bookkeeping may race with your writes.
func New[V AssetConstraint](store Store[V], opts ...Option[V]) *Manager[V] {
	m := &Manager[V]{
		registry: NewLoaderRegistry[V](),
		store:    store,
		context:  context.Background,
		waiters:  map[string][]*waiter[V]{},
	}
	for _, o := range opts {
		o.apply(m)
	}
	return m
}

// Add stores value under id, overwriting any existing entry.
func (m *Manager[V]) Add(id string, value V) {
	m.store.Add(id, value)
}

// Get returns the current cache entry for id.
func (m *Manager[V]) Get(id string) Entry[V] {
	return m.store.Get(id)
}

// Remove deletes the entries for the given identifiers, pending ones
// included. Removing a pending entry does not stop its in-flight load: when
// that load settles it writes the cache again, resurrecting the entry, and a
// fresh Load issued after the removal starts its own flight that may run
// concurrently with the orphaned one. Use Remove to force a future re-fetch,
// not to cancel.
func (m *Manager[V]) Remove(ids ...string) {
	m.store.Remove(ids...)
}

// GetLoader returns the shared loader instance for kind, constructing it on
// first request.
func (m *Manager[V]) GetLoader(kind Kind[V]) Loader[V] {
	return m.registry.GetLoader(kind)
}

// RemoveLoader evicts the loader instance for kind.
func (m *Manager[V]) RemoveLoader(kind Kind[V]) {
	m.registry.RemoveLoader(kind)
}

// SetDefaultOnProgress sets the progress callback used by Flush when the call
// itself does not specify one.
func (m *Manager[V]) SetDefaultOnProgress(fn ProgressFunc) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.defaultOnProgress = fn
}

// SetDefaultOnError sets the error callback used by Flush when the call
// itself does not specify one.
func (m *Manager[V]) SetDefaultOnError(fn ErrorFunc) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.defaultOnError = fn
}

func (m *Manager[V]) defaultCallbacks() (ProgressFunc, ErrorFunc) {
	m.cbMu.RLock()
	defer m.cbMu.RUnlock()
	return m.defaultOnProgress, m.defaultOnError
}

// Load resolves id through the cache, invoking kind's loader only when the
// identifier is neither resolved nor already in flight. Concurrent calls for
// the same identifier share a single loader invocation and all receive its
// result.
//
// On failure the per-call error observer (if any) is invoked and Load
// returns the zero asset with a *LoadError. The failed entry is removed from
// the cache so a later Load retries. Cancelling ctx abandons the wait and
// returns ctx.Err(); the load itself keeps running on the manager's
// background context and still populates the cache for other callers.
func (m *Manager[V]) Load(ctx context.Context, kind Kind[V], id string, opts ...LoadOption) (V, error) {
	var options loadOptions
	for _, o := range opts {
		o.apply(&options)
	}

	m.mu.Lock()
	entry := m.store.Get(id)
	switch entry.State {
	case StateResolved:
		m.mu.Unlock()
		return entry.Value, nil

	case StatePending:
		ch := m.subscribeLocked(id, options.observe)
		m.mu.Unlock()
		return m.await(ctx, ch, options.onError)
	}

	m.store.MarkPending(id)
	ch := m.subscribeLocked(id, options.observe)
	m.mu.Unlock()

	go m.dispatch(m.context(), m.registry.GetLoader(kind), id)
	return m.await(ctx, ch, options.onError)
}

// subscribeLocked registers a waiter for id's in-flight load.
// m.mu must be held.
func (m *Manager[V]) subscribeLocked(id string, observe func(ProgressEvent)) chan outcome[V] {
	w := &waiter[V]{
		ch:      make(chan outcome[V], 1),
		observe: observe,
	}
	m.waiters[id] = append(m.waiters[id], w)
	return w.ch
}

// await blocks until the flight settles or ctx is done.
func (m *Manager[V]) await(ctx context.Context, ch chan outcome[V], onError ErrorFunc) (V, error) {
	select {
	case out := <-ch:
		if out.err != nil {
			if errors.Is(out.err, errGoexit) {
				runtime.Goexit()
			}
			if onError != nil {
				onError(out.err)
			}
			var zero V
			return zero, out.err
		}
		return out.value, nil

	case <-ctx.Done():
		go func() {
			<-ch
		}()
		var zero V
		return zero, ctx.Err()
	}
}

// dispatch runs one loader invocation for id and settles every waiter.
// Loader panics and runtime.Goexit are contained and surfaced as failures so
// a misbehaving loader cannot wedge the flight.
func (m *Manager[V]) dispatch(ctx context.Context, loader Loader[V], id string) {
	pc := panicutil.Container{
		OnGoexit: func() {
			m.fail(id, errGoexit)
		},
	}

	var value V
	if err := pc.Run(func() (err error) {
		value, err = loader.Load(ctx, id, m.forwardProgress(id))
		return
	}); err != nil {
		m.fail(id, err)
		return
	}
	m.settle(id, value)
}

// forwardProgress fans a loader's native progress events out to the current
// subscribers of id.
func (m *Manager[V]) forwardProgress(id string) func(ProgressEvent) {
	return func(event ProgressEvent) {
		m.mu.Lock()
		observers := make([]func(ProgressEvent), 0, len(m.waiters[id]))
		for _, w := range m.waiters[id] {
			if w.observe != nil {
				observers = append(observers, w.observe)
			}
		}
		m.mu.Unlock()

		for _, observe := range observers {
			observe(event)
		}
	}
}

// settle stores the resolved asset and delivers it to every waiter.
// The cache write and the delivery happen under one lock so no waiter can
// observe a settled flight with a stale cache.
func (m *Manager[V]) settle(id string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Add(id, value)
	for _, w := range m.waiters[id] {
		w.ch <- outcome[V]{value: value}
		close(w.ch)
	}
	delete(m.waiters, id)
}

// fail removes the entry so a later Load is not stuck pending, then delivers
// the failure to every waiter.
func (m *Manager[V]) fail(id string, err error) {
	loadErr := &LoadError{ID: id, Err: err}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Remove(id)
	for _, w := range m.waiters[id] {
		w.ch <- outcome[V]{err: loadErr}
		close(w.ch)
	}
	delete(m.waiters, id)
}
