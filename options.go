package assetcache

import "context"

// Option is the interface for the options of the Manager.
type Option[V AssetConstraint] interface {
	apply(*Manager[V])
}

type optionFunc[V AssetConstraint] func(*Manager[V])

func (f optionFunc[V]) apply(m *Manager[V]) {
	f(m)
}

// WithBackgroundContextProvider sets the context provider for dispatched
// loads. The provider must return a new context for each call.
// The default provider is context.Background.
func WithBackgroundContextProvider[V AssetConstraint](provider func() context.Context) Option[V] {
	return optionFunc[V](func(m *Manager[V]) {
		m.context = provider
	})
}

// WithLoaderRegistry sets the loader registry used by the manager.
// Use it to share loader instances between managers.
func WithLoaderRegistry[V AssetConstraint](registry *LoaderRegistry[V]) Option[V] {
	return optionFunc[V](func(m *Manager[V]) {
		m.registry = registry
	})
}

// LoadOption is the interface for the options of a single Load call.
type LoadOption interface {
	apply(*loadOptions)
}

type loadOptions struct {
	observe func(ProgressEvent)
	onError ErrorFunc
}

type loadOptionFunc func(*loadOptions)

func (f loadOptionFunc) apply(o *loadOptions) {
	f(o)
}

// WithProgressObserver forwards the loader's native progress events for this
// call to observe. Events stop once the load settles.
func WithProgressObserver(observe func(ProgressEvent)) LoadOption {
	return loadOptionFunc(func(o *loadOptions) {
		o.observe = observe
	})
}

// WithErrorObserver invokes onError when this call's load fails.
func WithErrorObserver(onError ErrorFunc) LoadOption {
	return loadOptionFunc(func(o *loadOptions) {
		o.onError = onError
	})
}

// FlushOption is the interface for the options of a single Flush call.
type FlushOption interface {
	apply(*flushOptions)
}

type flushOptions struct {
	onProgress     ProgressFunc
	onError        ErrorFunc
	maxConcurrency int
}

type flushOptionFunc func(*flushOptions)

func (f flushOptionFunc) apply(o *flushOptions) {
	f(o)
}

// WithOnProgress sets the progress callback for this flush, overriding the
// manager default.
func WithOnProgress(onProgress ProgressFunc) FlushOption {
	return flushOptionFunc(func(o *flushOptions) {
		o.onProgress = onProgress
	})
}

// WithOnError sets the error callback for this flush, overriding the manager
// default.
func WithOnError(onError ErrorFunc) FlushOption {
	return flushOptionFunc(func(o *flushOptions) {
		o.onError = onError
	})
}

// WithMaxConcurrency caps how many loader invocations of this flush run at
// the same time. Zero or negative means no cap, which is the default.
func WithMaxConcurrency(n int) FlushOption {
	return flushOptionFunc(func(o *flushOptions) {
		o.maxConcurrency = n
	})
}
