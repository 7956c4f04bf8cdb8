// Package cachemanager wraps go-cache behind a typed interface. The curry
// memo uses it to hand back the same curry value for an unchanged
// (target, context, arguments) tuple across render passes.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed cache. Values are stored with a per-entry ttl.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
