package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/zjrosen/bundlekit/internal/bundle"
)

// Factory constructs a bundle definition.
type Factory func() (*bundle.Bundle, error)

// Compile-time check that FactoryLoader implements Loader.
var _ Loader = (*FactoryLoader)(nil)

// FactoryLoader maps bundle names to constructor functions populated at
// startup. Lookups are by string key; no reflection is involved.
type FactoryLoader struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewFactoryLoader creates an empty factory loader.
func NewFactoryLoader() *FactoryLoader {
	return &FactoryLoader{
		factories: make(map[string]Factory),
	}
}

// Register installs a factory for name, replacing any previous one.
func (l *FactoryLoader) Register(name string, factory Factory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.factories[name] = factory
}

// Load constructs the definition for name.
func (l *FactoryLoader) Load(ctx context.Context, name string) (*bundle.Bundle, error) {
	l.mu.RLock()
	factory, ok := l.factories[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", bundle.ErrUnknownBundle, name)
	}

	b, err := factory()
	if err != nil {
		return nil, err
	}
	if b.Name() != name {
		return nil, fmt.Errorf("%w: factory for %q produced bundle %q", bundle.ErrUnknownBundle, name, b.Name())
	}
	return b, nil
}
