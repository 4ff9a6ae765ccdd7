package collect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/bundlekit/internal/bundle"
)

func TestFiles_SetPreservesInsertionOrder(t *testing.T) {
	f := newFiles()
	f.set("a", File{URL: "a.js"})
	f.set("b", File{URL: "b.js"})
	f.set("c", File{URL: "c.js"})

	require.Equal(t, []string{"a", "b", "c"}, f.Keys())
	require.Equal(t, []string{"a.js", "b.js", "c.js"}, f.URLs())
	require.Equal(t, 3, f.Len())
}

func TestFiles_OverwriteKeepsEstablishedOrder(t *testing.T) {
	f := newFiles()
	f.set("a", File{URL: "a.js"})
	f.set("b", File{URL: "b-v1.js"})
	f.set("c", File{URL: "c.js"})
	f.set("b", File{URL: "b-v2.js", Position: bundle.At(bundle.PositionHead)})

	require.Equal(t, []string{"a", "b", "c"}, f.Keys(), "rewriting a key must not move it")

	got, ok := f.Get("b")
	require.True(t, ok)
	require.Equal(t, "b-v2.js", got.URL, "the later write wins")
	require.Equal(t, bundle.PositionHead, got.Position.Value())
}

func TestFiles_GetUnknownKey(t *testing.T) {
	f := newFiles()
	_, ok := f.Get("missing")
	require.False(t, ok)
	require.Zero(t, f.Len())
	require.Empty(t, f.Values())
}
