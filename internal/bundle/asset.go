package bundle

// Asset represents a single script or style resource declared by a bundle.
// The URL may be relative (resolved against the bundle's published location)
// or absolute for externally hosted files.
type Asset struct {
	url      string         // e.g., "js/app.js" or "https://cdn.example.com/lib.js"
	key      string         // optional explicit collection key; defaults to the resolved URL
	position Position       // optional per-entry override of the bundle's position
	options  map[string]any // per-entry options, win over the bundle defaults
}

// NewAsset creates a new asset for the given URL.
func NewAsset(url string) *Asset {
	return &Asset{
		url: url,
	}
}

// URL returns the raw, unresolved URL.
func (a *Asset) URL() string {
	return a.url
}

// Key returns the explicit collection key, or "" when the resolved URL keys
// the entry.
func (a *Asset) Key() string {
	return a.key
}

// Position returns the per-entry position override.
func (a *Asset) Position() Position {
	return a.position
}

// Options returns the per-entry options.
func (a *Asset) Options() map[string]any {
	return a.options
}

// WithKey sets the explicit collection key and returns the asset for fluent chaining.
func (a *Asset) WithKey(key string) *Asset {
	a.key = key
	return a
}

// WithPosition sets the position override and returns the asset for fluent chaining.
func (a *Asset) WithPosition(p Position) *Asset {
	a.position = p
	return a
}

// WithOptions sets the per-entry options and returns the asset for fluent chaining.
func (a *Asset) WithOptions(options map[string]any) *Asset {
	a.options = options
	return a
}
