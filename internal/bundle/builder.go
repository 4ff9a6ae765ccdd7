package bundle

import "errors"

// Builder errors
var (
	ErrEmptyName = errors.New("bundle name cannot be empty")
	ErrNilAsset  = errors.New("asset cannot be nil")
)

// Builder provides a fluent API for creating bundle definitions.
type Builder struct {
	name          string
	depends       []string
	scripts       []*Asset
	styles        []*Asset
	scriptOptions map[string]any
	styleOptions  map[string]any
	sourcePath    string
	basePath      string
	baseURL       string
	remote        bool
	scriptPos     Position
	stylePos      Position
	forceCopy     bool
}

// NewBuilder creates a new bundle builder for the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name: name,
	}
}

// Depends sets the names of the bundles this bundle depends on.
func (b *Builder) Depends(names ...string) *Builder {
	b.depends = names
	return b
}

// Scripts adds script entries.
func (b *Builder) Scripts(assets ...*Asset) *Builder {
	b.scripts = append(b.scripts, assets...)
	return b
}

// Styles adds style entries.
func (b *Builder) Styles(assets ...*Asset) *Builder {
	b.styles = append(b.styles, assets...)
	return b
}

// ScriptOptions sets the default options applied to every script entry.
func (b *Builder) ScriptOptions(options map[string]any) *Builder {
	b.scriptOptions = options
	return b
}

// StyleOptions sets the default options applied to every style entry.
func (b *Builder) StyleOptions(options map[string]any) *Builder {
	b.styleOptions = options
	return b
}

// SourcePath sets the unpublished source location.
func (b *Builder) SourcePath(path string) *Builder {
	b.sourcePath = path
	return b
}

// BasePath presets the publicly served directory.
func (b *Builder) BasePath(path string) *Builder {
	b.basePath = path
	return b
}

// BaseURL presets the URL the base path is served under.
func (b *Builder) BaseURL(url string) *Builder {
	b.baseURL = url
	return b
}

// Remote marks the bundle as served from an external host.
func (b *Builder) Remote() *Builder {
	b.remote = true
	return b
}

// ScriptPosition sets the declared minimum ordering hint for scripts.
func (b *Builder) ScriptPosition(p Position) *Builder {
	b.scriptPos = p
	return b
}

// StylePosition sets the declared minimum ordering hint for styles.
func (b *Builder) StylePosition(p Position) *Builder {
	b.stylePos = p
	return b
}

// ForceCopy makes copy-mode publishing overwrite this bundle's existing output.
func (b *Builder) ForceCopy() *Builder {
	b.forceCopy = true
	return b
}

// Build creates the bundle, validating required fields.
func (b *Builder) Build() (*Bundle, error) {
	if b.name == "" {
		return nil, ErrEmptyName
	}
	for _, a := range b.scripts {
		if a == nil {
			return nil, ErrNilAsset
		}
	}
	for _, a := range b.styles {
		if a == nil {
			return nil, ErrNilAsset
		}
	}

	return &Bundle{
		name:          b.name,
		depends:       b.depends,
		scripts:       b.scripts,
		styles:        b.styles,
		scriptOptions: b.scriptOptions,
		styleOptions:  b.styleOptions,
		sourcePath:    b.sourcePath,
		basePath:      b.basePath,
		baseURL:       b.baseURL,
		remote:        b.remote,
		scriptPos:     b.scriptPos,
		stylePos:      b.stylePos,
		forceCopy:     b.forceCopy,
	}, nil
}
