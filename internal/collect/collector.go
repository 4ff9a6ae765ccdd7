// Package collect walks a resolved registry in dependency order and emits
// ordered, deduplicated script and style entries with merged per-bundle
// options. Dependency files always precede the files of their dependents.
package collect

import (
	"fmt"
	"maps"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zjrosen/bundlekit/internal/bundle"
	"github.com/zjrosen/bundlekit/internal/fsops"
	"github.com/zjrosen/bundlekit/internal/log"
	"github.com/zjrosen/bundlekit/internal/resolver"
)

// Collector folds registered bundles into script/style collections. A
// collector accumulates across Collect calls, so collecting several roots
// produces one deduplicated output set.
type Collector struct {
	session         *resolver.Session
	fs              fsops.Ops
	assetMap        map[string]string
	appendTimestamp bool

	scripts *Files
	styles  *Files
	visited map[string]visitedAt
}

// visitedAt records the positions a bundle's files were folded in with. A
// later registration may tighten the registry entry; a mismatch on the next
// walk means the emitted files are stale and must be folded in again.
type visitedAt struct {
	script bundle.Position
	style  bundle.Position
}

// NewCollector creates a collector over a resolved session.
func NewCollector(session *resolver.Session, fs fsops.Ops) *Collector {
	return &Collector{
		session: session,
		fs:      fs,
		scripts: newFiles(),
		styles:  newFiles(),
		visited: make(map[string]visitedAt),
	}
}

// WithAssetMap installs a remap table overriding resolved asset paths by
// longest-suffix match. Returns the collector for fluent chaining.
func (c *Collector) WithAssetMap(assetMap map[string]string) *Collector {
	c.assetMap = assetMap
	return c
}

// WithAppendTimestamp makes local asset URLs carry a ?v=<mtime> query so
// content changes bust downstream HTTP caches. Returns the collector for
// fluent chaining.
func (c *Collector) WithAppendTimestamp(append bool) *Collector {
	c.appendTimestamp = append
	return c
}

// ScriptFiles returns the collected script entries in dependency order.
func (c *Collector) ScriptFiles() *Files {
	return c.scripts
}

// StyleFiles returns the collected style entries in dependency order.
func (c *Collector) StyleFiles() *Files {
	return c.styles
}

// Collect walks the registry rooted at name, dependencies first, and folds
// every bundle's entries into the script/style collections. The name must
// have been registered on the session. Bundles collected on an earlier walk
// whose positions have tightened since are folded in again, replacing their
// entries in place without changing the established order.
func (c *Collector) Collect(name string) error {
	entry, ok := c.session.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s is not registered", bundle.ErrUnknownBundle, name)
	}
	return c.collect(entry)
}

func (c *Collector) collect(e *resolver.Entry) error {
	name := e.Bundle().Name()
	at := visitedAt{script: e.ScriptPosition(), style: e.StylePosition()}
	if prev, ok := c.visited[name]; ok && prev == at {
		return nil
	}
	c.visited[name] = at

	for _, dep := range e.Bundle().Depends() {
		depEntry, ok := c.session.Get(dep)
		if !ok {
			continue
		}
		if err := c.collect(depEntry); err != nil {
			return err
		}
	}

	for _, asset := range e.Bundle().Scripts() {
		if err := c.add(c.scripts, e, asset, e.ScriptPosition(), e.Bundle().ScriptOptions()); err != nil {
			return err
		}
	}
	for _, asset := range e.Bundle().Styles() {
		if err := c.add(c.styles, e, asset, e.StylePosition(), e.Bundle().StyleOptions()); err != nil {
			return err
		}
	}

	log.Debug(log.CatCollect, "collected bundle files",
		"name", name, "scripts", c.scripts.Len(), "styles", c.styles.Len())
	return nil
}

func (c *Collector) add(files *Files, e *resolver.Entry, asset *bundle.Asset, bundlePos bundle.Position, defaults map[string]any) error {
	if asset == nil || asset.URL() == "" {
		return fmt.Errorf("%w: bundle %q declares an empty file entry", bundle.ErrInvalidFileEntry, e.Bundle().Name())
	}

	url, err := c.resolveURL(e, asset.URL())
	if err != nil {
		return err
	}

	position := bundlePos
	if asset.Position().IsSet() {
		position = asset.Position()
	}

	key := asset.Key()
	if key == "" {
		key = url
	}
	files.set(key, File{
		URL:      url,
		Position: position,
		Options:  mergeOptions(asset.Options(), defaults),
	})
	return nil
}

// resolveURL applies the remap table and resolves the asset against the
// bundle's published location per the bundle kind.
func (c *Collector) resolveURL(e *resolver.Entry, rawURL string) (string, error) {
	asset := c.resolveAsset(e, rawURL)
	b := e.Bundle()

	// Remote bundles serve as-is: no publishing happened and no local
	// existence check applies.
	if b.Remote() {
		if isRelativeURL(asset) && !strings.HasPrefix(asset, "/") && e.BaseURL() != "" {
			return joinURL(e.BaseURL(), asset), nil
		}
		return asset, nil
	}

	basePath, baseURL := e.BasePath(), e.BaseURL()
	if basePath == "" || baseURL == "" {
		return "", fmt.Errorf("%w: bundle %q has no base path or base URL", bundle.ErrMissingConfiguration, b.Name())
	}

	if !isRelativeURL(asset) || strings.HasPrefix(asset, "/") {
		return asset, nil
	}

	physical := filepath.Join(basePath, filepath.FromSlash(asset))
	if !c.fs.Exists(physical) {
		return "", fmt.Errorf("%w: asset %s of bundle %q", bundle.ErrFileNotFound, physical, b.Name())
	}

	resolved := joinURL(baseURL, asset)
	if c.appendTimestamp {
		if mtime, err := c.fs.ModTime(physical); err == nil {
			resolved += "?v=" + strconv.FormatInt(mtime.Unix(), 10)
		}
	}
	return resolved, nil
}

// resolveAsset looks the asset up in the remap table: an exact hit first,
// then a longest-suffix match against the source-prefixed path. Key lengths
// compare by character count, not bytes, so multi-byte paths pick the truly
// longer suffix.
func (c *Collector) resolveAsset(e *resolver.Entry, asset string) string {
	if len(c.assetMap) == 0 {
		return asset
	}
	if to, ok := c.assetMap[asset]; ok {
		return to
	}

	candidate := asset
	if e.Bundle().SourcePath() != "" && isRelativeURL(asset) {
		candidate = e.Bundle().SourcePath() + "/" + asset
	}

	best := ""
	bestLen := -1
	n := utf8.RuneCountInString(candidate)
	for from, to := range c.assetMap {
		n2 := utf8.RuneCountInString(from)
		if n2 <= n && n2 > bestLen && strings.HasSuffix(candidate, from) {
			best = to
			bestLen = n2
		}
	}
	if bestLen >= 0 {
		return best
	}
	return asset
}

// mergeOptions fills keys absent from the entry's own options with the
// bundle defaults; entry-specific options win.
func mergeOptions(entry, defaults map[string]any) map[string]any {
	if len(entry) == 0 && len(defaults) == 0 {
		return nil
	}
	merged := make(map[string]any, len(entry)+len(defaults))
	maps.Copy(merged, defaults)
	maps.Copy(merged, entry)
	return merged
}

// isRelativeURL reports whether url is relative: not protocol-relative and
// carrying no scheme.
func isRelativeURL(url string) bool {
	return !strings.HasPrefix(url, "//") && !strings.Contains(url, "://")
}

func joinURL(base, rel string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(rel, "/")
}
