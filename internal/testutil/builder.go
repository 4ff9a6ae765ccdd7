// Package testutil provides fixture builders for bundle tests: an in-memory
// definition loader and a fake filesystem populated through a fluent API.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/bundlekit/internal/bundle"
	"github.com/zjrosen/bundlekit/internal/fsops"
	"github.com/zjrosen/bundlekit/internal/store"
)

// Builder accumulates bundle definitions and source trees for a test.
type Builder struct {
	t      *testing.T
	fs     *fsops.MemOps
	loader *store.FactoryLoader
}

// NewBuilder creates an empty fixture builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{
		t:      t,
		fs:     fsops.NewMemOps(),
		loader: store.NewFactoryLoader(),
	}
}

// WithBundle registers a bundle definition built from the given options.
// Invalid definitions fail the test immediately.
func (b *Builder) WithBundle(name string, opts ...BundleOption) *Builder {
	b.t.Helper()

	data := bundleData{name: name}
	for _, opt := range opts {
		opt(&data)
	}

	builder := bundle.NewBuilder(name).
		Depends(data.depends...).
		Scripts(data.scripts...).
		Styles(data.styles...).
		ScriptOptions(data.scriptOptions).
		StyleOptions(data.styleOptions).
		SourcePath(data.sourcePath).
		BasePath(data.basePath).
		BaseURL(data.baseURL)
	if data.remote {
		builder.Remote()
	}
	if data.forceCopy {
		builder.ForceCopy()
	}
	if data.scriptPos.IsSet() {
		builder.ScriptPosition(data.scriptPos)
	}
	if data.stylePos.IsSet() {
		builder.StylePosition(data.stylePos)
	}

	def, err := builder.Build()
	require.NoError(b.t, err, "fixture bundle %q", name)

	b.loader.Register(name, func() (*bundle.Bundle, error) {
		return def, nil
	})
	return b
}

// WithSourceDir records a source directory and files beneath it.
func (b *Builder) WithSourceDir(dir string, files ...string) *Builder {
	b.fs.AddDir(dir)
	for _, f := range files {
		b.fs.AddFile(dir+"/"+f, time.Unix(1700000000, 0))
	}
	return b
}

// WithFile records a single file with the given modification time.
func (b *Builder) WithFile(path string, mtime time.Time) *Builder {
	b.fs.AddFile(path, mtime)
	return b
}

// FS returns the in-memory filesystem.
func (b *Builder) FS() *fsops.MemOps {
	return b.fs
}

// Loader returns the definition loader.
func (b *Builder) Loader() *store.FactoryLoader {
	return b.loader
}

// Store returns a memoizing store over the registered definitions.
func (b *Builder) Store() *store.Store {
	return store.New(b.loader)
}
