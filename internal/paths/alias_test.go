package paths

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAliasResolver_Resolve(t *testing.T) {
	r := NewAliasResolver(map[string]string{
		"@app":         "/var/www/app",
		"@app/runtime": "/var/lib/app-runtime",
		"@vendor":      "/var/www/vendor",
	})

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "alias alone",
			input:    "@app",
			expected: "/var/www/app",
		},
		{
			name:     "alias with suffix",
			input:    "@app/assets",
			expected: "/var/www/app/assets",
		},
		{
			name:     "longest alias wins",
			input:    "@app/runtime/cache",
			expected: "/var/lib/app-runtime/cache",
		},
		{
			name:     "absolute path passes through",
			input:    "/srv/static",
			expected: "/srv/static",
		},
		{
			name:     "path is cleaned",
			input:    "/srv//static/../assets",
			expected: "/srv/assets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestAliasResolver_Resolve_UnknownAlias(t *testing.T) {
	r := NewAliasResolver(map[string]string{"@app": "/var/www/app"})

	_, err := r.Resolve("@missing/assets")
	require.ErrorIs(t, err, ErrUnknownAlias)
}

func TestAliasResolver_Resolve_NoBoundaryMatch(t *testing.T) {
	r := NewAliasResolver(map[string]string{"@app": "/var/www/app"})

	// "@appx" shares a prefix with "@app" but is a different alias.
	_, err := r.Resolve("@appx/assets")
	require.ErrorIs(t, err, ErrUnknownAlias)
}

func TestAliasResolver_Resolve_NilTable(t *testing.T) {
	r := NewAliasResolver(nil)

	got, err := r.Resolve("/srv/static")
	require.NoError(t, err)
	require.Equal(t, "/srv/static", got)

	_, err = r.Resolve("@app")
	require.ErrorIs(t, err, ErrUnknownAlias)
}
