package publish

import "os"

// HashFunc maps a resolved source path to a stable directory name suffix.
type HashFunc func(path string) string

// Options is the immutable publisher configuration. The With* methods return
// a new value with one field changed; a shared Options is never mutated in
// place.
type Options struct {
	basePath   string
	baseURL    string
	linkAssets bool
	forceCopy  bool
	dirMode    os.FileMode
	fileMode   os.FileMode
	hashFunc   HashFunc
}

// DefaultOptions returns publisher options with conventional modes and the
// built-in hash.
func DefaultOptions() Options {
	return Options{
		dirMode:  0o775,
		fileMode: 0o755,
	}
}

// BasePath returns the directory published bundles are written under.
func (o Options) BasePath() string {
	return o.basePath
}

// BaseURL returns the URL the base path is served under.
func (o Options) BaseURL() string {
	return o.baseURL
}

// LinkAssets reports whether publishing symlinks instead of copying.
func (o Options) LinkAssets() bool {
	return o.linkAssets
}

// ForceCopy reports whether copy-mode publishing overwrites existing output.
func (o Options) ForceCopy() bool {
	return o.forceCopy
}

// DirMode returns the mode for created directories.
func (o Options) DirMode() os.FileMode {
	return o.dirMode
}

// FileMode returns the mode for copied files.
func (o Options) FileMode() os.FileMode {
	return o.fileMode
}

// WithBasePath returns a copy with the publish directory set.
func (o Options) WithBasePath(path string) Options {
	o.basePath = path
	return o
}

// WithBaseURL returns a copy with the publish URL set.
func (o Options) WithBaseURL(url string) Options {
	o.baseURL = url
	return o
}

// WithLinkAssets returns a copy with the symlink strategy toggled.
func (o Options) WithLinkAssets(link bool) Options {
	o.linkAssets = link
	return o
}

// WithForceCopy returns a copy with the global force-copy flag toggled.
func (o Options) WithForceCopy(force bool) Options {
	o.forceCopy = force
	return o
}

// WithDirMode returns a copy with the directory mode set.
func (o Options) WithDirMode(mode os.FileMode) Options {
	o.dirMode = mode
	return o
}

// WithFileMode returns a copy with the file mode set.
func (o Options) WithFileMode(mode os.FileMode) Options {
	o.fileMode = mode
	return o
}

// WithHashFunc returns a copy with a custom hash function installed.
func (o Options) WithHashFunc(fn HashFunc) Options {
	o.hashFunc = fn
	return o
}
