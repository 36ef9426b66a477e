package assetcache

import (
	"context"
	"slices"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"golang.org/x/sync/semaphore"
)

// Item is one unit of deferred work registered by Preload.
type Item[V AssetConstraint] struct {
	// ID is the identifier to load.
	ID string

	// OnLoad, when set, is invoked with the asset once the item resolves.
	// It is not invoked when the item's load fails.
	OnLoad func(V)
}

// pendingRequest is one Preload call: a loader kind and its ordered items.
// Requests are never merged, even when they name the same kind or identifier.
type pendingRequest[V AssetConstraint] struct {
	kind  Kind[V]
	items []Item[V]
}

// Preload appends one deferred request for kind and items without starting
// any work. Identifiers already queued or cached are appended again; Flush
// sorts that out.
func (m *Manager[V]) Preload(kind Kind[V], items ...Item[V]) {
	if len(items) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, pendingRequest[V]{kind: kind, items: slices.Clone(items)})
}

// flushDispatch is one flush item that requires an in-flight load:
// either a fresh invocation (loader set) or a subscription to a flight
// started elsewhere.
type flushDispatch[V AssetConstraint] struct {
	loader Loader[V]
	item   Item[V]
	ch     chan outcome[V]
}

// Flush drains the whole pending queue and dispatches it as one batch,
// most recent request first. Items already resolved in the cache invoke
// their OnLoad synchronously and do not count toward progress; every other
// item counts, loads concurrently, and advances the batch's progress callback
// once it settles.
//
// Callbacks resolve per concern: the flush option first, then the manager
// default, else none. Item failures invoke the resolved error callback, skip
// the item's OnLoad and never abort sibling items; Flush returns nil once
// every dispatched item has settled. Cancelling ctx abandons the wait with
// ctx.Err() while the batch keeps settling in the background.
func (m *Manager[V]) Flush(ctx context.Context, opts ...FlushOption) error {
	var options flushOptions
	for _, o := range opts {
		o.apply(&options)
	}
	defaultOnProgress, defaultOnError := m.defaultCallbacks()
	onProgress := options.onProgress
	if onProgress == nil {
		onProgress = defaultOnProgress
	}
	onError := options.onError
	if onError == nil {
		onError = defaultOnError
	}

	m.mu.Lock()
	drained := m.queue
	m.queue = nil
	m.mu.Unlock()

	// Drain phase: walk requests LIFO, resolving cached items synchronously
	// and marking everything else pending. The progress denominator is final
	// before any load starts, so each callback sees a stable total.
	var dispatches []flushDispatch[V]
	for i := len(drained) - 1; i >= 0; i-- {
		request := drained[i]
		loader := m.registry.GetLoader(request.kind)
		for _, item := range request.items {
			m.mu.Lock()
			entry := m.store.Get(item.ID)
			switch entry.State {
			case StateResolved:
				m.mu.Unlock()
				if item.OnLoad != nil {
					item.OnLoad(entry.Value)
				}

			case StatePending:
				ch := m.subscribeLocked(item.ID, nil)
				m.mu.Unlock()
				dispatches = append(dispatches, flushDispatch[V]{item: item, ch: ch})

			default:
				m.store.MarkPending(item.ID)
				ch := m.subscribeLocked(item.ID, nil)
				m.mu.Unlock()
				dispatches = append(dispatches, flushDispatch[V]{loader: loader, item: item, ch: ch})
			}
		}
	}
	if len(dispatches) == 0 {
		return nil
	}

	var limiter *semaphore.Weighted
	if options.maxConcurrency > 0 {
		limiter = semaphore.NewWeighted(int64(options.maxConcurrency))
	}

	tally := &progressTally{onProgress: onProgress, total: len(dispatches)}
	var wg conc.WaitGroup
	for _, d := range dispatches {
		if d.loader != nil {
			loadCtx := m.context()
			wg.Go(func() {
				if limiter != nil {
					if err := limiter.Acquire(loadCtx, 1); err != nil {
						m.fail(d.item.ID, err)
						return
					}
					defer limiter.Release(1)
				}
				m.dispatch(loadCtx, d.loader, d.item.ID)
			})
		}
		wg.Go(func() {
			out := <-d.ch
			if out.err != nil {
				if onError != nil {
					onError(out.err)
				}
			} else if d.item.OnLoad != nil {
				d.item.OnLoad(out.value)
			}
			tally.advance()
		})
	}

	done := make(chan struct{})
	var recovered *panics.Recovered
	go func() {
		defer close(done)
		recovered = wg.WaitAndRecover()
	}()

	select {
	case <-done:
		// Loader panics are contained in dispatch; anything recovered here
		// escaped from a caller-provided callback.
		if recovered != nil {
			panic(recovered)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// progressTally is the shared progress counter of one flush.
type progressTally struct {
	onProgress ProgressFunc

	mu    sync.Mutex
	done  int
	total int
}

// advance counts one settled item and reports it. The callback runs under the
// tally lock so counts are delivered in strictly increasing order.
func (t *progressTally) advance() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done++
	if t.onProgress != nil {
		t.onProgress(t.done, t.total)
	}
}
