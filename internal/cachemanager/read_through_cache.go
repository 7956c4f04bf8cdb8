package cachemanager

import (
	"context"
	"sync/atomic"
	"time"
)

// Loader computes the value for a key the cache does not hold.
type Loader[I any, V any] func(ctx context.Context, input I) (V, error)

// ReadThroughCache fills cache misses from a Loader. With bypass set every
// call goes straight to the loader and nothing is stored.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache  CacheManager[K, V]
	load   Loader[I, V]
	bypass bool
	loads  atomic.Uint64
}

func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	load Loader[I, V],
	bypass bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:  cache,
		load:   load,
		bypass: bypass,
	}
}

// Get returns the value cached under key, loading it from input on a miss.
// Loader errors are returned and nothing is stored.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, false)
}

// GetWithRefresh is Get, but a hit also restarts the entry's ttl.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, true)
}

func (r *ReadThroughCache[K, V, I]) get(ctx context.Context, key K, input I, ttl time.Duration, refresh bool) (V, error) {
	if !r.bypass {
		var (
			value V
			ok    bool
		)
		if refresh {
			value, ok = r.cache.GetWithRefresh(ctx, key, ttl)
		} else {
			value, ok = r.cache.Get(ctx, key)
		}
		if ok {
			return value, nil
		}
	}

	r.loads.Add(1)
	value, err := r.load(ctx, input)
	if err != nil || r.bypass {
		return value, err
	}
	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}

// Loads returns how many times the loader ran.
func (r *ReadThroughCache[K, V, I]) Loads() uint64 {
	return r.loads.Load()
}
