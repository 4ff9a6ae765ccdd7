package testutil

import "github.com/zjrosen/bundlekit/internal/bundle"

// bundleData holds all data for a bundle definition fixture.
type bundleData struct {
	name          string
	depends       []string
	scripts       []*bundle.Asset
	styles        []*bundle.Asset
	scriptOptions map[string]any
	styleOptions  map[string]any
	sourcePath    string
	basePath      string
	baseURL       string
	remote        bool
	scriptPos     bundle.Position
	stylePos      bundle.Position
	forceCopy     bool
}

// BundleOption configures a bundle during builder setup.
type BundleOption func(*bundleData)

// Depends adds dependency names.
func Depends(names ...string) BundleOption {
	return func(b *bundleData) { b.depends = append(b.depends, names...) }
}

// Scripts adds plain script URLs.
func Scripts(urls ...string) BundleOption {
	return func(b *bundleData) {
		for _, url := range urls {
			b.scripts = append(b.scripts, bundle.NewAsset(url))
		}
	}
}

// ScriptAssets adds fully configured script entries.
func ScriptAssets(assets ...*bundle.Asset) BundleOption {
	return func(b *bundleData) { b.scripts = append(b.scripts, assets...) }
}

// Styles adds plain style URLs.
func Styles(urls ...string) BundleOption {
	return func(b *bundleData) {
		for _, url := range urls {
			b.styles = append(b.styles, bundle.NewAsset(url))
		}
	}
}

// StyleAssets adds fully configured style entries.
func StyleAssets(assets ...*bundle.Asset) BundleOption {
	return func(b *bundleData) { b.styles = append(b.styles, assets...) }
}

// ScriptOptions sets the bundle-wide script option defaults.
func ScriptOptions(opts map[string]any) BundleOption {
	return func(b *bundleData) { b.scriptOptions = opts }
}

// StyleOptions sets the bundle-wide style option defaults.
func StyleOptions(opts map[string]any) BundleOption {
	return func(b *bundleData) { b.styleOptions = opts }
}

// SourcePath sets the unpublished source location.
func SourcePath(path string) BundleOption {
	return func(b *bundleData) { b.sourcePath = path }
}

// BasePath sets the preset published directory.
func BasePath(path string) BundleOption {
	return func(b *bundleData) { b.basePath = path }
}

// BaseURL sets the preset published URL.
func BaseURL(url string) BundleOption {
	return func(b *bundleData) { b.baseURL = url }
}

// Remote marks the bundle as externally hosted.
func Remote() BundleOption {
	return func(b *bundleData) { b.remote = true }
}

// ScriptPosition sets the declared script position.
func ScriptPosition(pos int) BundleOption {
	return func(b *bundleData) { b.scriptPos = bundle.At(pos) }
}

// StylePosition sets the declared style position.
func StylePosition(pos int) BundleOption {
	return func(b *bundleData) { b.stylePos = bundle.At(pos) }
}

// ForceCopy marks the bundle as always re-copied on publish.
func ForceCopy() BundleOption {
	return func(b *bundleData) { b.forceCopy = true }
}
