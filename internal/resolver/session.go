// Package resolver registers asset bundles and their dependency closures into
// a topologically ordered registry. A Session owns its registry and visiting
// set by value; the shared store and publish cache handle cross-session
// concurrency. After a Register call fails, the session's registry may hold a
// partial result and must be discarded by the caller.
package resolver

import (
	"context"
	"fmt"

	"github.com/zjrosen/bundlekit/internal/bundle"
	"github.com/zjrosen/bundlekit/internal/log"
	"github.com/zjrosen/bundlekit/internal/publish"
	"github.com/zjrosen/bundlekit/internal/store"
)

// Session accumulates one registration run. Registering a name loads its
// definition, publishes its sources, recursively registers its dependencies
// and appends the bundle after them, so every dependency precedes its
// dependents in Bundles().
type Session struct {
	store     *store.Store
	publisher *publish.Publisher

	order    []*Entry
	entries  map[string]*Entry
	visiting map[string]bool
}

// NewSession creates an empty session over the shared store and publisher.
func NewSession(st *store.Store, pub *publish.Publisher) *Session {
	return &Session{
		store:     st,
		publisher: pub,
		entries:   make(map[string]*Entry),
		visiting:  make(map[string]bool),
	}
}

// Register registers name and its full dependency closure. The position
// arguments are optional minimum ordering hints; pass the zero Position to
// leave an axis unconstrained.
func (s *Session) Register(ctx context.Context, name string, scriptPos, stylePos bundle.Position) error {
	_, err := s.register(ctx, name, scriptPos, stylePos)
	return err
}

// Bundles returns the registered entries in dependency order: every bundle
// appears strictly after all of its dependencies.
func (s *Session) Bundles() []*Entry {
	return s.order
}

// Get returns the registered entry for name.
func (s *Session) Get(name string) (*Entry, bool) {
	entry, ok := s.entries[name]
	return entry, ok
}

func (s *Session) register(ctx context.Context, name string, scriptPos, stylePos bundle.Position) (*Entry, error) {
	if s.visiting[name] {
		return nil, fmt.Errorf("%w: %s", bundle.ErrCircularDependency, name)
	}

	if entry, ok := s.entries[name]; ok {
		// Already registered: a stricter requirement can still tighten this
		// bundle and, transitively, everything it depends on.
		if err := s.applyPositions(entry, scriptPos, stylePos); err != nil {
			return nil, err
		}
		return entry, nil
	}

	b, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		bundle:    b,
		scriptPos: b.ScriptPosition(),
		stylePos:  b.StylePosition(),
	}
	if _, err := tighten(&entry.scriptPos, scriptPos); err != nil {
		return nil, conflictError(name, "script", entry.scriptPos, scriptPos)
	}
	if _, err := tighten(&entry.stylePos, stylePos); err != nil {
		return nil, conflictError(name, "style", entry.stylePos, stylePos)
	}

	if !b.Remote() && b.SourcePath() != "" {
		rec, err := s.publisher.Publish(ctx, b)
		if err != nil {
			return nil, err
		}
		entry.published = rec
		entry.hasPublished = true
	}

	s.visiting[name] = true
	defer delete(s.visiting, name)

	for _, dep := range b.Depends() {
		if _, err := s.register(ctx, dep, entry.scriptPos, entry.stylePos); err != nil {
			return nil, err
		}
	}

	s.entries[name] = entry
	s.order = append(s.order, entry)
	log.Debug(log.CatResolve, "registered bundle",
		"name", name, "deps", len(b.Depends()),
		"scriptPos", entry.scriptPos, "stylePos", entry.stylePos)
	return entry, nil
}

// applyPositions tightens an already-registered entry's positions and, when
// either axis changed, re-propagates the new positions into all of the
// entry's dependencies so the constraint stays transitive.
func (s *Session) applyPositions(entry *Entry, scriptPos, stylePos bundle.Position) error {
	name := entry.bundle.Name()

	scriptChanged, err := tighten(&entry.scriptPos, scriptPos)
	if err != nil {
		return conflictError(name, "script", entry.scriptPos, scriptPos)
	}
	styleChanged, err := tighten(&entry.stylePos, stylePos)
	if err != nil {
		return conflictError(name, "style", entry.stylePos, stylePos)
	}
	if !scriptChanged && !styleChanged {
		return nil
	}

	log.Debug(log.CatResolve, "tightened bundle positions",
		"name", name, "scriptPos", entry.scriptPos, "stylePos", entry.stylePos)

	for _, dep := range entry.bundle.Depends() {
		depEntry, ok := s.entries[dep]
		if !ok {
			continue
		}
		if err := s.applyPositions(depEntry, entry.scriptPos, entry.stylePos); err != nil {
			return err
		}
	}
	return nil
}

// errTighten signals that the current position cannot satisfy the requirement.
var errTighten = fmt.Errorf("position cannot be loosened")

// tighten merges a required minimum into current. An unset requirement is a
// no-op; an unset current adopts the requirement; a requirement at or above
// the current value raises it; a requirement below the current value fails —
// a bundle already constrained to a later minimum cannot satisfy a dependent
// that requires an earlier one.
func tighten(current *bundle.Position, required bundle.Position) (changed bool, err error) {
	if !required.IsSet() {
		return false, nil
	}
	if !current.IsSet() {
		*current = required
		return true, nil
	}
	if current.Value() > required.Value() {
		return false, errTighten
	}
	if current.Value() < required.Value() {
		*current = required
		return true, nil
	}
	return false, nil
}

func conflictError(name, axis string, current, required bundle.Position) error {
	return fmt.Errorf("%w: bundle %q %s position %s cannot satisfy required %s",
		bundle.ErrPositionConflict, name, axis, current, required)
}
