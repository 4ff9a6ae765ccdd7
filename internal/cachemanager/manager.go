package cachemanager

import (
	"context"
	"time"
)

// CacheManager is the caching contract shared by the bundle store and the
// publish record cache. Keys are strings (bundle names, absolute source
// paths); values are whatever the use case stores.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
