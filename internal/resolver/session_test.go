package resolver

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/bundlekit/internal/bundle"
	"github.com/zjrosen/bundlekit/internal/fsops"
	"github.com/zjrosen/bundlekit/internal/paths"
	"github.com/zjrosen/bundlekit/internal/publish"
	"github.com/zjrosen/bundlekit/internal/store"
	"github.com/zjrosen/bundlekit/internal/testutil"
)

func newSession(t *testing.T, fixture *testutil.Builder) *Session {
	t.Helper()
	opts := publish.DefaultOptions().
		WithBasePath("/srv/assets").
		WithBaseURL("/assets")
	pub := publish.NewPublisher(opts, fixture.FS(), paths.NewAliasResolver(nil))
	return NewSession(fixture.Store(), pub)
}

func names(entries []*Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Bundle().Name())
	}
	return out
}

func TestSession_Register_DependenciesFirst(t *testing.T) {
	fixture := testutil.NewBuilder(t).WithChainFixture()
	s := newSession(t, fixture)

	err := s.Register(context.Background(), "app", bundle.Position{}, bundle.Position{})
	require.NoError(t, err)

	require.Equal(t, []string{"core", "lib", "app"}, names(s.Bundles()))
}

func TestSession_Register_DiamondRegistersSharedDepOnce(t *testing.T) {
	fixture := testutil.NewBuilder(t).WithDiamondFixture()
	s := newSession(t, fixture)

	err := s.Register(context.Background(), "app", bundle.Position{}, bundle.Position{})
	require.NoError(t, err)

	order := names(s.Bundles())
	require.Len(t, order, 4)
	require.Equal(t, "base", order[0], "shared dependency registers once, first")
	require.Equal(t, "app", order[3])
}

func TestSession_Register_Cycle(t *testing.T) {
	fixture := testutil.NewBuilder(t).
		WithBundle("a", testutil.Remote(), testutil.Depends("b")).
		WithBundle("b", testutil.Remote(), testutil.Depends("a"))
	s := newSession(t, fixture)

	err := s.Register(context.Background(), "a", bundle.Position{}, bundle.Position{})
	require.ErrorIs(t, err, bundle.ErrCircularDependency)
}

func TestSession_Register_SelfDependency(t *testing.T) {
	fixture := testutil.NewBuilder(t).
		WithBundle("a", testutil.Remote(), testutil.Depends("a"))
	s := newSession(t, fixture)

	err := s.Register(context.Background(), "a", bundle.Position{}, bundle.Position{})
	require.ErrorIs(t, err, bundle.ErrCircularDependency)
}

func TestSession_Register_UnknownBundle(t *testing.T) {
	fixture := testutil.NewBuilder(t)
	s := newSession(t, fixture)

	err := s.Register(context.Background(), "ghost", bundle.Position{}, bundle.Position{})
	require.ErrorIs(t, err, bundle.ErrUnknownBundle)
}

func TestSession_Register_PublishesLocalSources(t *testing.T) {
	fixture := testutil.NewBuilder(t).WithWebAppFixture()
	s := newSession(t, fixture)

	err := s.Register(context.Background(), "app", bundle.Position{}, bundle.Position{})
	require.NoError(t, err)

	app, ok := s.Get("app")
	require.True(t, ok)
	rec, published := app.Published()
	require.True(t, published, "local bundle with a source path gets published")
	require.NotEmpty(t, rec.Path)
	require.Equal(t, rec.Path, app.BasePath())
	require.Equal(t, rec.URL, app.BaseURL())

	jquery, ok := s.Get("jquery")
	require.True(t, ok)
	_, published = jquery.Published()
	require.False(t, published, "remote bundles never publish")
	require.Equal(t, "https://code.jquery.com", jquery.BaseURL())
}

func TestSession_Register_HintAdoptedWhenUnset(t *testing.T) {
	fixture := testutil.NewBuilder(t).
		WithBundle("a", testutil.Remote(), testutil.Scripts("a.js"), testutil.BaseURL("https://cdn/a"))
	s := newSession(t, fixture)

	err := s.Register(context.Background(), "a", bundle.At(bundle.PositionHead), bundle.Position{})
	require.NoError(t, err)

	entry, _ := s.Get("a")
	require.Equal(t, bundle.PositionHead, entry.ScriptPosition().Value())
	require.False(t, entry.StylePosition().IsSet())
}

func TestSession_Register_HintPropagatesToDependencies(t *testing.T) {
	fixture := testutil.NewBuilder(t).WithChainFixture()
	s := newSession(t, fixture)

	err := s.Register(context.Background(), "app", bundle.At(2), bundle.Position{})
	require.NoError(t, err)

	for _, name := range []string{"core", "lib", "app"} {
		entry, ok := s.Get(name)
		require.True(t, ok)
		require.Equal(t, 2, entry.ScriptPosition().Value(), "hint must reach %s", name)
	}
}

func TestSession_Register_ConflictWhenCurrentExceedsHint(t *testing.T) {
	fixture := testutil.NewBuilder(t).
		WithBundle("a", testutil.Remote(), testutil.ScriptPosition(5))
	s := newSession(t, fixture)

	err := s.Register(context.Background(), "a", bundle.At(2), bundle.Position{})
	require.ErrorIs(t, err, bundle.ErrPositionConflict)
}

func TestSession_Register_HigherHintTightensAndRepropagates(t *testing.T) {
	// dep is registered first via root at position 5; a later registration
	// of root at 9 must raise both root and the already-registered dep.
	fixture := testutil.NewBuilder(t).
		WithBundle("dep", testutil.Remote()).
		WithBundle("root", testutil.Remote(), testutil.Depends("dep"), testutil.ScriptPosition(5))
	s := newSession(t, fixture)

	err := s.Register(context.Background(), "root", bundle.Position{}, bundle.Position{})
	require.NoError(t, err)

	dep, _ := s.Get("dep")
	require.Equal(t, 5, dep.ScriptPosition().Value(), "declared position flows into dependencies")

	err = s.Register(context.Background(), "root", bundle.At(9), bundle.Position{})
	require.NoError(t, err)

	root, _ := s.Get("root")
	require.Equal(t, 9, root.ScriptPosition().Value())
	dep, _ = s.Get("dep")
	require.Equal(t, 9, dep.ScriptPosition().Value(), "tightening re-propagates into registered deps")
}

func TestSession_Register_DependencyDeclaredAboveHint(t *testing.T) {
	// dep declares 9 but the root constrains its closure to 5; a dependency
	// already fixed above the requirement cannot be loosened.
	fixture := testutil.NewBuilder(t).
		WithBundle("dep", testutil.Remote(), testutil.ScriptPosition(9)).
		WithBundle("root", testutil.Remote(), testutil.Depends("dep"), testutil.ScriptPosition(5))
	s := newSession(t, fixture)

	err := s.Register(context.Background(), "root", bundle.Position{}, bundle.Position{})
	require.ErrorIs(t, err, bundle.ErrPositionConflict)
}

func TestSession_Register_TopologicalOrderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Build a random DAG over n bundles where bundle i may only depend on
		// bundles with a smaller index, so the graph is acyclic by construction.
		n := rapid.IntRange(1, 8).Draw(t, "n")
		loader := store.NewFactoryLoader()
		deps := make([][]string, n)
		for i := range n {
			var dependNames []string
			for j := range i {
				if rapid.Bool().Draw(t, fmt.Sprintf("edge-%d-%d", i, j)) {
					dependNames = append(dependNames, fmt.Sprintf("b%d", j))
				}
			}
			deps[i] = dependNames

			def, err := bundle.NewBuilder(fmt.Sprintf("b%d", i)).
				Depends(dependNames...).
				Remote().
				Build()
			if err != nil {
				t.Fatalf("build bundle: %v", err)
			}
			loader.Register(def.Name(), func() (*bundle.Bundle, error) { return def, nil })
		}

		opts := publish.DefaultOptions().WithBasePath("/srv").WithBaseURL("/a")
		pub := publish.NewPublisher(opts, fsops.NewMemOps(), paths.NewAliasResolver(nil))
		s := NewSession(store.New(loader), pub)

		root := fmt.Sprintf("b%d", n-1)
		if err := s.Register(context.Background(), root, bundle.Position{}, bundle.Position{}); err != nil {
			t.Fatalf("register: %v", err)
		}

		// Every bundle appears after all of its dependencies.
		index := make(map[string]int)
		for i, e := range s.Bundles() {
			index[e.Bundle().Name()] = i
		}
		for name, i := range index {
			var id int
			fmt.Sscanf(name, "b%d", &id)
			for _, dep := range deps[id] {
				depIdx, ok := index[dep]
				if !ok {
					t.Fatalf("dependency %s of %s not registered", dep, name)
				}
				if depIdx >= i {
					t.Fatalf("dependency %s (index %d) does not precede %s (index %d)", dep, depIdx, name, i)
				}
			}
		}
	})
}
