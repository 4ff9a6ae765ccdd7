// Package manager wires the bundle store, publisher and collector behind one
// facade. A Manager owns the long-lived caches; each resolution run gets its
// own session identified by a UUID so traces and logs correlate across the
// register, publish and collect phases.
package manager

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/bundlekit/internal/bundle"
	"github.com/zjrosen/bundlekit/internal/collect"
	"github.com/zjrosen/bundlekit/internal/config"
	"github.com/zjrosen/bundlekit/internal/flags"
	"github.com/zjrosen/bundlekit/internal/fsops"
	"github.com/zjrosen/bundlekit/internal/log"
	"github.com/zjrosen/bundlekit/internal/paths"
	"github.com/zjrosen/bundlekit/internal/publish"
	"github.com/zjrosen/bundlekit/internal/resolver"
	"github.com/zjrosen/bundlekit/internal/store"
	"github.com/zjrosen/bundlekit/internal/tracing"
)

// Manager is the top-level entry point: register bundles, collect their files
// and look up publish records. Safe for concurrent use; the registration
// session is guarded by the manager's mutex while the underlying caches
// handle their own concurrency.
type Manager struct {
	cfg       config.Config
	flags     *flags.Registry
	fs        fsops.Ops
	store     *store.Store
	publisher *publish.Publisher
	tracing   *tracing.Provider

	mu        sync.Mutex
	runID     string
	session   *resolver.Session
	collector *collect.Collector
}

// New creates a manager from configuration and a definition loader.
// The fs argument defaults to the real filesystem when nil.
func New(cfg config.Config, loader store.Loader, fs fsops.Ops) (*Manager, error) {
	if fs == nil {
		fs = fsops.NewRealOps()
	}

	aliasResolver := paths.NewAliasResolver(cfg.Aliases)

	opts := publish.DefaultOptions().
		WithBasePath(cfg.Publish.BasePath).
		WithBaseURL(cfg.Publish.BaseURL).
		WithLinkAssets(cfg.Publish.LinkAssets).
		WithForceCopy(cfg.Publish.ForceCopy)
	if cfg.Publish.DirMode != 0 {
		opts = opts.WithDirMode(os.FileMode(cfg.Publish.DirMode))
	}
	if cfg.Publish.FileMode != 0 {
		opts = opts.WithFileMode(os.FileMode(cfg.Publish.FileMode))
	}

	flagRegistry := flags.New(cfg.Flags)

	traceCfg := tracing.Config{
		Enabled:      cfg.Tracing.Enabled || flagRegistry.Enabled(flags.FlagTracing),
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  cfg.Tracing.ServiceName,
	}
	provider, err := tracing.NewProvider(traceCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize tracing: %w", err)
	}

	m := &Manager{
		cfg:       cfg,
		flags:     flagRegistry,
		fs:        fs,
		store:     store.New(loader),
		publisher: publish.NewPublisher(opts, fs, aliasResolver),
		tracing:   provider,
	}
	m.reset()
	return m, nil
}

// NewFromConfig creates a manager whose definitions come from the YAML bundle
// file named in the configuration.
func NewFromConfig(cfg config.Config) (*Manager, error) {
	if cfg.BundleFile == "" {
		return nil, fmt.Errorf("%w: no bundle file configured", bundle.ErrMissingConfiguration)
	}
	data, err := os.ReadFile(cfg.BundleFile)
	if err != nil {
		return nil, fmt.Errorf("read bundle file: %w", err)
	}
	loader, err := store.NewYAMLLoader(data)
	if err != nil {
		return nil, err
	}
	return New(cfg, loader, nil)
}

// reset starts a fresh session and collector. Callers hold m.mu or have
// exclusive access during construction.
func (m *Manager) reset() {
	m.runID = uuid.NewString()
	m.session = resolver.NewSession(m.store, m.publisher)
	collector := collect.NewCollector(m.session, m.fs).
		WithAssetMap(m.cfg.AssetMap).
		WithAppendTimestamp(m.flags.Enabled(flags.FlagAppendTimestamp))
	m.collector = collector
	log.Debug(log.CatResolve, "started resolution session", "session", m.runID)
}

// Reset discards the current session and its collected output. The publish
// and definition caches survive; a bundle already published stays published.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// SessionID returns the identifier of the current resolution session.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runID
}

// Register registers name and its dependency closure, publishing local
// sources along the way, then folds the registered files into the collected
// output. A failed registration leaves the session in a partial state; the
// manager discards it so the next Register starts clean.
func (m *Manager) Register(ctx context.Context, name string, scriptPos, stylePos bundle.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, span := m.tracing.Tracer().Start(ctx, tracing.SpanPrefixRegister+name)
	defer span.End()
	span.SetAttributes(
		attribute.String(tracing.AttrSessionID, m.runID),
		attribute.String(tracing.AttrBundleName, name),
	)

	if err := m.session.Register(ctx, name, scriptPos, stylePos); err != nil {
		tracing.RecordFailure(span, err)
		log.ErrorErr(log.CatResolve, "bundle registration failed", err, "name", name, "session", m.runID)
		m.reset()
		return err
	}
	if e, ok := m.session.Get(name); ok {
		span.SetAttributes(
			attribute.Bool(tracing.AttrBundleRemote, e.Bundle().Remote()),
			attribute.StringSlice(tracing.AttrBundleDeps, e.Bundle().Depends()),
		)
	}

	_, cspan := m.tracing.Tracer().Start(ctx, tracing.SpanPrefixCollect+name)
	defer cspan.End()
	if err := m.collector.Collect(name); err != nil {
		tracing.RecordFailure(cspan, err)
		tracing.RecordFailure(span, err)
		log.ErrorErr(log.CatCollect, "bundle collection failed", err, "name", name, "session", m.runID)
		m.reset()
		return err
	}

	cspan.SetAttributes(
		attribute.Int(tracing.AttrCollectScripts, m.collector.ScriptFiles().Len()),
		attribute.Int(tracing.AttrCollectStyles, m.collector.StyleFiles().Len()),
	)
	return nil
}

// ScriptFiles returns the collected script entries in dependency order.
func (m *Manager) ScriptFiles() *collect.Files {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collector.ScriptFiles()
}

// StyleFiles returns the collected style entries in dependency order.
func (m *Manager) StyleFiles() *collect.Files {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collector.StyleFiles()
}

// Bundles returns the registered entries in dependency order.
func (m *Manager) Bundles() []*resolver.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Bundles()
}

// Publish publishes the named bundle's source without registering it.
func (m *Manager) Publish(ctx context.Context, name string) (publish.Published, error) {
	ctx, span := m.tracing.Tracer().Start(ctx, tracing.SpanPrefixPublish+name)
	defer span.End()

	b, err := m.store.Get(ctx, name)
	if err != nil {
		tracing.RecordFailure(span, err)
		return publish.Published{}, err
	}
	rec, err := m.publisher.Publish(ctx, b)
	if err != nil {
		tracing.RecordFailure(span, err)
		return publish.Published{}, err
	}
	span.SetAttributes(
		attribute.String(tracing.AttrPublishSource, b.SourcePath()),
		attribute.String(tracing.AttrPublishDest, rec.Path),
		attribute.Bool(tracing.AttrPublishLinked, m.publisher.Options().LinkAssets()),
	)
	return rec, nil
}

// PublishedPath returns the published destination for a source path, or false
// when it was never published.
func (m *Manager) PublishedPath(sourcePath string) (string, bool) {
	return m.publisher.PublishedPath(sourcePath)
}

// PublishedURL returns the published URL for a source path, or false when it
// was never published.
func (m *Manager) PublishedURL(sourcePath string) (string, bool) {
	return m.publisher.PublishedURL(sourcePath)
}

// Close flushes tracing. Call once when the process is done with the manager.
func (m *Manager) Close(ctx context.Context) error {
	return m.tracing.Shutdown(ctx)
}
