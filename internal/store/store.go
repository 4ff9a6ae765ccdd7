// Package store loads bundle definitions and memoizes them for the process
// lifetime. Loading is at-most-once per name: concurrent requests for the
// same bundle serialize on the read-through cache and share one load.
package store

import (
	"context"
	"fmt"

	"github.com/zjrosen/bundlekit/internal/bundle"
	"github.com/zjrosen/bundlekit/internal/cachemanager"
	"github.com/zjrosen/bundlekit/internal/log"
)

// Loader loads a bundle definition by name. Implementations fail with a
// configuration error when the name does not resolve to a valid definition.
type Loader interface {
	Load(ctx context.Context, name string) (*bundle.Bundle, error)
}

// Store memoizes a Loader. Definitions are immutable once loaded and live for
// the process lifetime.
type Store struct {
	cache *cachemanager.ReadThroughCache[string, *bundle.Bundle, string]
}

// New creates a store over the given loader.
func New(loader Loader) *Store {
	definitions := cachemanager.NewInMemoryCacheManager[string, *bundle.Bundle](
		"bundle-definitions", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)

	return &Store{
		cache: cachemanager.NewReadThroughCache[string, *bundle.Bundle, string](
			definitions,
			func(ctx context.Context, name string) (*bundle.Bundle, error) {
				log.Debug(log.CatStore, "loading bundle definition", "name", name)
				b, err := loader.Load(ctx, name)
				if err != nil {
					return nil, fmt.Errorf("load bundle %q: %w", name, err)
				}
				return b, nil
			},
			false,
		),
	}
}

// Get returns the definition for name, loading it on first use.
func (s *Store) Get(ctx context.Context, name string) (*bundle.Bundle, error) {
	return s.cache.Get(ctx, name, name, cachemanager.NoExpiration)
}
