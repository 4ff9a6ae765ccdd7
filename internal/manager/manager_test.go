package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/bundlekit/internal/bundle"
	"github.com/zjrosen/bundlekit/internal/config"
	"github.com/zjrosen/bundlekit/internal/testutil"
)

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.Publish.BasePath = "/srv/assets"
	cfg.Publish.BaseURL = "/assets"
	return cfg
}

func newManager(t *testing.T, cfg config.Config, fixture *testutil.Builder) *Manager {
	t.Helper()
	m, err := New(cfg, fixture.Loader(), fixture.FS())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return m
}

func TestManager_Register_CollectsDependencyOrder(t *testing.T) {
	fixture := testutil.NewBuilder(t).WithChainFixture()
	m := newManager(t, testConfig(), fixture)

	err := m.Register(context.Background(), "app", bundle.Position{}, bundle.Position{})
	require.NoError(t, err)

	require.Equal(t, []string{
		"https://cdn.example.com/core/core.js",
		"https://cdn.example.com/lib/lib.js",
		"https://cdn.example.com/app/app.js",
	}, m.ScriptFiles().URLs())

	order := m.Bundles()
	require.Len(t, order, 3)
	require.Equal(t, "core", order[0].Bundle().Name())
}

func TestManager_Register_PublishesAndExposesRecords(t *testing.T) {
	fixture := testutil.NewBuilder(t).WithWebAppFixture()
	m := newManager(t, testConfig(), fixture)

	err := m.Register(context.Background(), "app", bundle.Position{}, bundle.Position{})
	require.NoError(t, err)

	path, ok := m.PublishedPath("/srv/app/assets")
	require.True(t, ok)
	require.NotEmpty(t, path)

	url, ok := m.PublishedURL("/srv/app/assets")
	require.True(t, ok)
	require.NotEmpty(t, url)
}

func TestManager_Register_FailureResetsSession(t *testing.T) {
	fixture := testutil.NewBuilder(t).
		WithBundle("a", testutil.Remote(), testutil.Depends("b"), testutil.BaseURL("https://cdn/a"), testutil.Scripts("a.js")).
		WithBundle("b", testutil.Remote(), testutil.Depends("a"), testutil.BaseURL("https://cdn/b")).
		WithBundle("ok", testutil.Remote(), testutil.BaseURL("https://cdn/ok"), testutil.Scripts("ok.js"))
	m := newManager(t, testConfig(), fixture)

	first := m.SessionID()
	err := m.Register(context.Background(), "a", bundle.Position{}, bundle.Position{})
	require.ErrorIs(t, err, bundle.ErrCircularDependency)
	require.NotEqual(t, first, m.SessionID(), "a failed registration discards the session")

	// The fresh session works and carries nothing from the failed run.
	err = m.Register(context.Background(), "ok", bundle.Position{}, bundle.Position{})
	require.NoError(t, err)
	require.Equal(t, []string{"https://cdn/ok/ok.js"}, m.ScriptFiles().URLs())
}

func TestManager_Register_AccumulatesAcrossRoots(t *testing.T) {
	fixture := testutil.NewBuilder(t).WithDiamondFixture()
	m := newManager(t, testConfig(), fixture)

	require.NoError(t, m.Register(context.Background(), "left", bundle.Position{}, bundle.Position{}))
	require.NoError(t, m.Register(context.Background(), "right", bundle.Position{}, bundle.Position{}))

	require.Equal(t, []string{
		"https://cdn.example.com/base/base.js",
		"https://cdn.example.com/left/left.js",
		"https://cdn.example.com/right/right.js",
	}, m.ScriptFiles().URLs(), "shared dependency collects once")
}

func TestManager_Register_TightenedPositionRefreshesFiles(t *testing.T) {
	fixture := testutil.NewBuilder(t).
		WithBundle("a", testutil.Remote(), testutil.BaseURL("https://cdn/a"), testutil.Scripts("a.js")).
		WithBundle("b", testutil.Remote(), testutil.BaseURL("https://cdn/b"), testutil.Depends("a"), testutil.Scripts("b.js"))
	m := newManager(t, testConfig(), fixture)

	require.NoError(t, m.Register(context.Background(), "a", bundle.Position{}, bundle.Position{}))
	require.NoError(t, m.Register(context.Background(), "b", bundle.At(5), bundle.Position{}))

	file, ok := m.ScriptFiles().Get("https://cdn/a/a.js")
	require.True(t, ok)
	require.Equal(t, bundle.At(5), file.Position, "later tightening reaches already-collected files")
	require.Equal(t, []string{"https://cdn/a/a.js", "https://cdn/b/b.js"}, m.ScriptFiles().URLs())
}

func TestManager_Reset_ClearsCollectedOutputNotPublishCache(t *testing.T) {
	fixture := testutil.NewBuilder(t).WithWebAppFixture()
	m := newManager(t, testConfig(), fixture)

	require.NoError(t, m.Register(context.Background(), "app", bundle.Position{}, bundle.Position{}))
	require.NotZero(t, m.ScriptFiles().Len())
	copies := fixture.FS().CopyDirCount()

	m.Reset()
	require.Zero(t, m.ScriptFiles().Len(), "reset discards collected output")

	// Re-registering reuses the publish record; nothing is copied again.
	require.NoError(t, m.Register(context.Background(), "app", bundle.Position{}, bundle.Position{}))
	require.Equal(t, copies, fixture.FS().CopyDirCount())
}

func TestManager_Publish_WithoutRegistering(t *testing.T) {
	fixture := testutil.NewBuilder(t).WithWebAppFixture()
	m := newManager(t, testConfig(), fixture)

	rec, err := m.Publish(context.Background(), "app")
	require.NoError(t, err)
	require.NotEmpty(t, rec.Path)
	require.NotEmpty(t, rec.URL)

	require.Zero(t, m.ScriptFiles().Len(), "publishing alone collects nothing")
}

func TestManager_Publish_UnknownBundle(t *testing.T) {
	fixture := testutil.NewBuilder(t)
	m := newManager(t, testConfig(), fixture)

	_, err := m.Publish(context.Background(), "ghost")
	require.ErrorIs(t, err, bundle.ErrUnknownBundle)
}
