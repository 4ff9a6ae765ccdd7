package bundle

// Bundle is an immutable definition of a named collection of script/style
// resources plus dependency links and publishing metadata. Bundles are created
// once by the store and shared for the process lifetime; per-registration
// position resolution lives on the resolver's registry entries, never here.
type Bundle struct {
	name          string         // unique identifier
	depends       []string       // names of bundles this bundle depends on, in declaration order
	scripts       []*Asset       // script entries
	styles        []*Asset       // style entries
	scriptOptions map[string]any // default options applied to every script entry
	styleOptions  map[string]any // default options applied to every style entry
	sourcePath    string         // directory (or file) holding the unpublished sources; "" when none
	basePath      string         // publicly served directory; filled in by publishing for local bundles
	baseURL       string         // URL the basePath is served under; preset for remote bundles
	remote        bool           // CDN bundle: bypasses publishing and existence checks
	scriptPos     Position       // minimum ordering hint for scripts
	stylePos      Position       // minimum ordering hint for styles
	forceCopy     bool           // publish override: copy again even when the destination already exists
}

// Name returns the bundle's unique identifier.
func (b *Bundle) Name() string {
	return b.name
}

// Depends returns the names of the bundles this bundle depends on.
func (b *Bundle) Depends() []string {
	return b.depends
}

// Scripts returns the script entries.
func (b *Bundle) Scripts() []*Asset {
	return b.scripts
}

// Styles returns the style entries.
func (b *Bundle) Styles() []*Asset {
	return b.styles
}

// ScriptOptions returns the default options for script entries.
func (b *Bundle) ScriptOptions() map[string]any {
	return b.scriptOptions
}

// StyleOptions returns the default options for style entries.
func (b *Bundle) StyleOptions() map[string]any {
	return b.styleOptions
}

// SourcePath returns the unpublished source location, or "" when the bundle
// declares none.
func (b *Bundle) SourcePath() string {
	return b.sourcePath
}

// BasePath returns the publicly served directory, or "" before publishing.
func (b *Bundle) BasePath() string {
	return b.basePath
}

// BaseURL returns the URL the base path is served under.
func (b *Bundle) BaseURL() string {
	return b.baseURL
}

// Remote reports whether the bundle's assets are served from an external host.
func (b *Bundle) Remote() bool {
	return b.remote
}

// ScriptPosition returns the declared minimum ordering hint for scripts.
func (b *Bundle) ScriptPosition() Position {
	return b.scriptPos
}

// StylePosition returns the declared minimum ordering hint for styles.
func (b *Bundle) StylePosition() Position {
	return b.stylePos
}

// ForceCopy reports whether copy-mode publishing must overwrite existing output.
func (b *Bundle) ForceCopy() bool {
	return b.forceCopy
}
