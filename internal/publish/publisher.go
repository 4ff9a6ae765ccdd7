// Package publish implements the publish cache: idempotent publication of a
// bundle's source directory (or file) to a content-addressed output location.
// Each resolved source path is published at most once per process; concurrent
// calls for the same path serialize and share the first result.
package publish

import (
	"context"
	"fmt"
	"hash/crc32"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/zjrosen/bundlekit/internal/bundle"
	"github.com/zjrosen/bundlekit/internal/cachemanager"
	"github.com/zjrosen/bundlekit/internal/fsops"
	"github.com/zjrosen/bundlekit/internal/log"
	"github.com/zjrosen/bundlekit/internal/paths"
)

// Published is the output location of a published source path.
type Published struct {
	Path string // destination directory (or file)
	URL  string // URL the destination is served under
}

// Publisher publishes bundle sources under BasePath()/hash and caches the
// result keyed by absolute source path. The cache is append-only and lives
// for the process lifetime.
type Publisher struct {
	opts     Options
	fs       fsops.Ops
	resolver paths.Resolver
	records  *cachemanager.InMemoryCacheManager[string, Published]

	mu       sync.Mutex
	inflight map[string]*publishCall
}

type publishCall struct {
	done chan struct{}
	rec  Published
	err  error
}

// NewPublisher creates a publisher with the given options and collaborators.
func NewPublisher(opts Options, fs fsops.Ops, resolver paths.Resolver) *Publisher {
	return &Publisher{
		opts:     opts,
		fs:       fs,
		resolver: resolver,
		records: cachemanager.NewInMemoryCacheManager[string, Published](
			"publish-records", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
		inflight: make(map[string]*publishCall),
	}
}

// Options returns the publisher configuration.
func (p *Publisher) Options() Options {
	return p.opts
}

// Publish publishes the bundle's source path and returns its output location.
// A second call for the same resolved source path returns the cached record
// without touching the filesystem.
func (p *Publisher) Publish(ctx context.Context, b *bundle.Bundle) (Published, error) {
	if b.SourcePath() == "" {
		return Published{}, fmt.Errorf("%w: bundle %q has no source path", bundle.ErrMissingConfiguration, b.Name())
	}
	src, err := p.resolver.Resolve(b.SourcePath())
	if err != nil {
		return Published{}, fmt.Errorf("%w: resolve source path of bundle %q: %v", bundle.ErrMissingConfiguration, b.Name(), err)
	}

	if rec, ok := p.records.Get(ctx, src); ok {
		return rec, nil
	}

	p.mu.Lock()
	if call, ok := p.inflight[src]; ok {
		p.mu.Unlock()
		<-call.done
		return call.rec, call.err
	}
	call := &publishCall{done: make(chan struct{})}
	p.inflight[src] = call
	p.mu.Unlock()

	// A concurrent publish may have completed between the cache miss and
	// claiming the in-flight slot.
	if rec, ok := p.records.Get(ctx, src); ok {
		call.rec = rec
	} else {
		call.rec, call.err = p.publish(b, src)
		if call.err == nil {
			p.records.Set(ctx, src, call.rec, cachemanager.NoExpiration)
		}
	}

	p.mu.Lock()
	delete(p.inflight, src)
	p.mu.Unlock()
	close(call.done)

	return call.rec, call.err
}

func (p *Publisher) publish(b *bundle.Bundle, src string) (Published, error) {
	if p.opts.basePath == "" || p.opts.baseURL == "" {
		return Published{}, fmt.Errorf("%w: publisher base path and base URL must be set", bundle.ErrMissingConfiguration)
	}
	if !p.fs.Exists(src) {
		return Published{}, fmt.Errorf("%w: source path %s", bundle.ErrFileNotFound, src)
	}

	hash, err := p.hash(src)
	if err != nil {
		return Published{}, err
	}
	dstDir := filepath.Join(p.opts.basePath, hash)
	dstURL := p.opts.baseURL + "/" + hash

	var rec Published
	if p.fs.IsFile(src) {
		rec, err = p.publishFile(b, src, dstDir, dstURL)
	} else {
		rec, err = p.publishDirectory(b, src, dstDir, dstURL)
	}
	if err != nil {
		return Published{}, err
	}

	log.Info(log.CatPublish, "published bundle source",
		"bundle", b.Name(), "source", src, "path", rec.Path, "link", p.opts.linkAssets)
	return rec, nil
}

func (p *Publisher) publishDirectory(b *bundle.Bundle, src, dstDir, dstURL string) (Published, error) {
	if p.opts.linkAssets {
		if err := p.link(src, dstDir); err != nil {
			return Published{}, err
		}
	} else if !p.fs.Exists(dstDir) || p.opts.forceCopy || b.ForceCopy() {
		if err := p.fs.CopyDir(src, dstDir, p.opts.dirMode, p.opts.fileMode); err != nil {
			return Published{}, fmt.Errorf("%w: copy %s to %s: %v", bundle.ErrPublishIO, src, dstDir, err)
		}
	}
	return Published{Path: dstDir, URL: dstURL}, nil
}

func (p *Publisher) publishFile(b *bundle.Bundle, src, dstDir, dstURL string) (Published, error) {
	name := filepath.Base(src)
	dstFile := filepath.Join(dstDir, name)

	if p.opts.linkAssets {
		if err := p.link(src, dstFile); err != nil {
			return Published{}, err
		}
	} else if !p.fs.Exists(dstFile) || p.opts.forceCopy || b.ForceCopy() {
		if err := p.fs.EnsureDir(dstDir, p.opts.dirMode); err != nil {
			return Published{}, fmt.Errorf("%w: %v", bundle.ErrPublishIO, err)
		}
		if err := p.fs.CopyFile(src, dstFile, p.opts.fileMode); err != nil {
			return Published{}, fmt.Errorf("%w: copy %s to %s: %v", bundle.ErrPublishIO, src, dstFile, err)
		}
	}
	return Published{Path: dstFile, URL: dstURL + "/" + name}, nil
}

// link creates a symlink from src to dst unless dst already exists. A failed
// link attempt is tolerated when the destination exists afterwards: a
// concurrent publisher won the race and the postcondition holds either way.
func (p *Publisher) link(src, dst string) error {
	if p.fs.Exists(dst) {
		return nil
	}
	if err := p.fs.EnsureDir(filepath.Dir(dst), p.opts.dirMode); err != nil {
		return fmt.Errorf("%w: %v", bundle.ErrPublishIO, err)
	}
	if err := p.fs.Symlink(src, dst); err != nil {
		if p.fs.Exists(dst) {
			log.Debug(log.CatPublish, "symlink already created concurrently", "destination", dst)
			return nil
		}
		return fmt.Errorf("%w: link %s to %s: %v", bundle.ErrPublishIO, src, dst, err)
	}
	return nil
}

// hash returns the output directory name for src: the custom hash function
// when configured, otherwise a checksum of the path combined with its
// last-modified time so content changes produce a new directory across
// process restarts. For single files the containing directory's path feeds
// the checksum.
func (p *Publisher) hash(src string) (string, error) {
	if p.opts.hashFunc != nil {
		return p.opts.hashFunc(src), nil
	}

	base := src
	if p.fs.IsFile(src) {
		base = filepath.Dir(src)
	}
	mtime, err := p.fs.ModTime(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", bundle.ErrPublishIO, err)
	}
	sum := crc32.ChecksumIEEE([]byte(base + strconv.FormatInt(mtime.Unix(), 10)))
	return strconv.FormatUint(uint64(sum), 16), nil
}

// PublishedPath returns the published destination for a source path, or false
// when it was never published. This is a pure cache lookup.
func (p *Publisher) PublishedPath(sourcePath string) (string, bool) {
	rec, ok := p.lookup(sourcePath)
	return rec.Path, ok
}

// PublishedURL returns the published URL for a source path, or false when it
// was never published. This is a pure cache lookup.
func (p *Publisher) PublishedURL(sourcePath string) (string, bool) {
	rec, ok := p.lookup(sourcePath)
	return rec.URL, ok
}

func (p *Publisher) lookup(sourcePath string) (Published, bool) {
	src, err := p.resolver.Resolve(sourcePath)
	if err != nil {
		return Published{}, false
	}
	return p.records.Get(context.Background(), src)
}
