package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/bundlekit/internal/bundle"
)

func TestBuilder_WithBundle(t *testing.T) {
	b := NewBuilder(t).
		WithBundle("app",
			Depends("jquery"),
			Scripts("js/app.js"),
			Styles("css/app.css"),
			ScriptOptions(map[string]any{"defer": true}),
			SourcePath("/srv/app/assets"),
			ScriptPosition(bundle.PositionEnd))

	def, err := b.Loader().Load(context.Background(), "app")
	require.NoError(t, err)
	require.Equal(t, []string{"jquery"}, def.Depends())
	require.Len(t, def.Scripts(), 1)
	require.Len(t, def.Styles(), 1)
	require.Equal(t, map[string]any{"defer": true}, def.ScriptOptions())
	require.Equal(t, "/srv/app/assets", def.SourcePath())
	require.Equal(t, bundle.PositionEnd, def.ScriptPosition().Value())
}

func TestBuilder_WithSourceDir(t *testing.T) {
	b := NewBuilder(t).WithSourceDir("/srv/app/assets", "js/app.js", "css/app.css")

	fs := b.FS()
	require.True(t, fs.Exists("/srv/app/assets"))
	require.True(t, fs.IsFile("/srv/app/assets/js/app.js"))
	require.True(t, fs.IsFile("/srv/app/assets/css/app.css"))
}

func TestBuilder_Store_ServesRegisteredBundles(t *testing.T) {
	b := NewBuilder(t).WithChainFixture()
	st := b.Store()

	def, err := st.Get(context.Background(), "lib")
	require.NoError(t, err)
	require.Equal(t, []string{"core"}, def.Depends())

	_, err = st.Get(context.Background(), "missing")
	require.ErrorIs(t, err, bundle.ErrUnknownBundle)
}
