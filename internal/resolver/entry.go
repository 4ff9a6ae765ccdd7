package resolver

import (
	"github.com/zjrosen/bundlekit/internal/bundle"
	"github.com/zjrosen/bundlekit/internal/publish"
)

// Entry is a bundle definition after position resolution and publishing,
// owned by the session that registered it.
type Entry struct {
	bundle       *bundle.Bundle
	scriptPos    bundle.Position
	stylePos     bundle.Position
	published    publish.Published
	hasPublished bool
}

// Bundle returns the underlying definition.
func (e *Entry) Bundle() *bundle.Bundle {
	return e.bundle
}

// ScriptPosition returns the resolved minimum ordering hint for scripts.
func (e *Entry) ScriptPosition() bundle.Position {
	return e.scriptPos
}

// StylePosition returns the resolved minimum ordering hint for styles.
func (e *Entry) StylePosition() bundle.Position {
	return e.stylePos
}

// Published returns the publish record for local bundles with a source path.
func (e *Entry) Published() (publish.Published, bool) {
	return e.published, e.hasPublished
}

// BasePath returns the publicly served directory: the publish destination
// when the bundle was published, otherwise the definition's preset.
func (e *Entry) BasePath() string {
	if e.hasPublished {
		return e.published.Path
	}
	return e.bundle.BasePath()
}

// BaseURL returns the URL assets of this bundle are served under.
func (e *Entry) BaseURL() string {
	if e.hasPublished {
		return e.published.URL
	}
	return e.bundle.BaseURL()
}
