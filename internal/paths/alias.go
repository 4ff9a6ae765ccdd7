// Package paths provides path resolution utilities.
package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownAlias indicates a path used an alias that was never registered.
var ErrUnknownAlias = errors.New("unknown path alias")

// Resolver resolves alias or relative paths to absolute paths.
type Resolver interface {
	Resolve(aliasOrPath string) (string, error)
}

// Compile-time check that AliasResolver implements Resolver.
var _ Resolver = (*AliasResolver)(nil)

// AliasResolver expands "@alias" prefixes against a registered alias table and
// absolutizes the result.
//
// Alias matching:
//   - "@app/assets" with alias "@app" -> "/var/www/app" resolves to "/var/www/app/assets"
//   - The longest registered alias wins when several share a prefix
//     ("@app/runtime" beats "@app" for "@app/runtime/cache")
//   - An alias only matches at a path boundary: "@appx" is not covered by "@app"
//
// Non-alias inputs are cleaned and made absolute against the working directory.
type AliasResolver struct {
	aliases map[string]string
}

// NewAliasResolver creates a resolver over the given alias table.
// Keys must start with "@"; values should be absolute paths.
func NewAliasResolver(aliases map[string]string) *AliasResolver {
	if aliases == nil {
		aliases = make(map[string]string)
	}
	return &AliasResolver{aliases: aliases}
}

// Resolve expands a leading alias and returns the cleaned absolute path.
func (r *AliasResolver) Resolve(aliasOrPath string) (string, error) {
	path := aliasOrPath
	if strings.HasPrefix(path, "@") {
		expanded, err := r.expand(path)
		if err != nil {
			return "", err
		}
		path = expanded
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("absolutize %s: %w", aliasOrPath, err)
	}
	return abs, nil
}

func (r *AliasResolver) expand(path string) (string, error) {
	best := ""
	for alias := range r.aliases {
		if !strings.HasPrefix(path, alias) {
			continue
		}
		// Only match at a path boundary.
		if len(path) > len(alias) && path[len(alias)] != '/' {
			continue
		}
		if len(alias) > len(best) {
			best = alias
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownAlias, path)
	}
	return r.aliases[best] + path[len(best):], nil
}
