package cachemanager

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Stats counts how ReadThroughCache lookups were served.
type Stats struct {
	Hits   int64 // served from the store
	Misses int64 // computed by fn
	Shared int64 // waited on another caller computing the same key
}

type inflight[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// ReadThroughCache computes values with fn on a miss and stores them.
// Concurrent misses on one key run fn once; the other callers wait for it.
type ReadThroughCache[K ~string, V any, I any] struct {
	store   CacheManager[K, V]
	fn      func(ctx context.Context, input I) (V, error)
	ttl     time.Duration
	sliding bool
	admit   func(V) bool

	mu      sync.Mutex
	pending map[K]*inflight[V]

	hits, misses, shared atomic.Int64
}

// NewReadThroughCache wraps fn with store. Entries live for ttl; when sliding
// is set every hit restarts that ttl.
func NewReadThroughCache[K ~string, V any, I any](
	store CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	ttl time.Duration,
	sliding bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		store:   store,
		fn:      fn,
		ttl:     ttl,
		sliding: sliding,
		pending: make(map[K]*inflight[V]),
	}
}

// Admit sets a filter deciding which computed values are stored. Rejected
// values are still returned to the callers that waited for them.
func (r *ReadThroughCache[K, V, I]) Admit(keep func(V) bool) *ReadThroughCache[K, V, I] {
	r.admit = keep
	return r
}

// Get returns the value for key, computing it from input on a miss.
// Errors are never stored.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I) (V, error) {
	if value, ok := r.lookup(ctx, key); ok {
		r.hits.Add(1)
		return value, nil
	}

	r.mu.Lock()
	if call, ok := r.pending[key]; ok {
		r.mu.Unlock()
		r.shared.Add(1)
		select {
		case <-call.done:
			return call.val, call.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}
	call := &inflight[V]{done: make(chan struct{})}
	r.pending[key] = call
	r.mu.Unlock()

	r.misses.Add(1)
	call.val, call.err = r.fn(ctx, input)
	if call.err == nil && (r.admit == nil || r.admit(call.val)) {
		r.store.Set(ctx, key, call.val, r.ttl)
	}

	r.mu.Lock()
	delete(r.pending, key)
	r.mu.Unlock()
	close(call.done)

	return call.val, call.err
}

func (r *ReadThroughCache[K, V, I]) lookup(ctx context.Context, key K) (V, bool) {
	if r.sliding {
		return r.store.GetWithRefresh(ctx, key, r.ttl)
	}
	return r.store.Get(ctx, key)
}

// Stats returns a snapshot of the lookup counters.
func (r *ReadThroughCache[K, V, I]) Stats() Stats {
	return Stats{
		Hits:   r.hits.Load(),
		Misses: r.misses.Load(),
		Shared: r.shared.Load(),
	}
}
