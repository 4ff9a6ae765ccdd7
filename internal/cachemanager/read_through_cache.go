package cachemanager

import (
	"context"
	"sync"
	"time"
)

// ReadThroughCache computes values on miss and memoizes them. Concurrent Gets
// for the same key serialize on an in-flight record so the compute function
// runs at most once per key; waiters reuse the first caller's result.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool

	mu       sync.Mutex
	inflight map[K]*inflightCall[V]
}

type inflightCall[V any] struct {
	done chan struct{}
	val  V
	err  error
}

func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
		inflight:        make(map[K]*inflightCall[V]),
	}
}

func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	r.mu.Lock()
	if call, ok := r.inflight[key]; ok {
		r.mu.Unlock()
		<-call.done
		return call.val, call.err
	}
	call := &inflightCall[V]{done: make(chan struct{})}
	r.inflight[key] = call
	r.mu.Unlock()

	// Another caller may have populated the cache between our miss and
	// claiming the in-flight slot.
	if value, ok := r.cache.Get(ctx, key); ok {
		call.val = value
	} else {
		call.val, call.err = r.fn(ctx, input)
		if call.err == nil {
			r.cache.Set(ctx, key, call.val, ttl)
		}
	}

	r.mu.Lock()
	delete(r.inflight, key)
	r.mu.Unlock()
	close(call.done)

	return call.val, call.err
}
