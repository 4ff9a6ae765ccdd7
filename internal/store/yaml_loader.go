package store

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/bundlekit/internal/bundle"
)

// Compile-time check that YAMLLoader implements Loader.
var _ Loader = (*YAMLLoader)(nil)

// YAMLLoader serves bundle definitions parsed from a YAML document:
//
//	bundles:
//	  app:
//	    depends: [jquery]
//	    source_path: "@app/assets"
//	    script_options: {defer: true}
//	    scripts:
//	      - js/app.js
//	      - url: js/admin.js
//	        key: admin
//	        position: 3
//	        options: {defer: false}
//	  jquery:
//	    remote: true
//	    base_url: https://code.jquery.com
//	    scripts: [jquery.min.js]
//
// Script/style entries are either a plain URL string or a mapping with url,
// key, position and options. Option maps must use string keys; a sequence or
// integer-keyed mapping is a configuration error.
type YAMLLoader struct {
	bundles map[string]*bundle.Bundle
}

type yamlFile struct {
	Bundles map[string]yamlBundle `yaml:"bundles"`
}

type yamlBundle struct {
	Depends        []string    `yaml:"depends"`
	Scripts        []yamlAsset `yaml:"scripts"`
	Styles         []yamlAsset `yaml:"styles"`
	ScriptOptions  yaml.Node   `yaml:"script_options"`
	StyleOptions   yaml.Node   `yaml:"style_options"`
	SourcePath     string      `yaml:"source_path"`
	BasePath       string      `yaml:"base_path"`
	BaseURL        string      `yaml:"base_url"`
	Remote         bool        `yaml:"remote"`
	ScriptPosition *int        `yaml:"script_position"`
	StylePosition  *int        `yaml:"style_position"`
	ForceCopy      bool        `yaml:"force_copy"`
}

type yamlAsset struct {
	url      string
	key      string
	position *int
	options  map[string]any
}

// UnmarshalYAML accepts either a scalar URL or a mapping entry.
func (a *yamlAsset) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&a.url)
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: entry must be a URL or a mapping", bundle.ErrInvalidFileEntry)
	}

	var raw struct {
		URL      string    `yaml:"url"`
		Key      string    `yaml:"key"`
		Position *int      `yaml:"position"`
		Options  yaml.Node `yaml:"options"`
	}
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", bundle.ErrInvalidFileEntry, err)
	}
	options, err := decodeOptions(raw.Options)
	if err != nil {
		return err
	}

	a.url = raw.URL
	a.key = raw.Key
	a.position = raw.Position
	a.options = options
	return nil
}

// decodeOptions decodes an options mapping, rejecting non-string keys.
func decodeOptions(node yaml.Node) (map[string]any, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: options must be a mapping", bundle.ErrInvalidFileEntry)
	}
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Tag != "!!str" {
			return nil, fmt.Errorf("%w: option keys must be strings, got %s",
				bundle.ErrInvalidFileEntry, node.Content[i].Value)
		}
	}

	options := make(map[string]any)
	if err := node.Decode(&options); err != nil {
		return nil, fmt.Errorf("%w: %v", bundle.ErrInvalidFileEntry, err)
	}
	return options, nil
}

// NewYAMLLoader parses every definition in data up front so malformed
// documents surface at construction, not at first load.
func NewYAMLLoader(data []byte) (*YAMLLoader, error) {
	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse bundle definitions: %w", err)
	}

	bundles := make(map[string]*bundle.Bundle, len(file.Bundles))
	for name, raw := range file.Bundles {
		b, err := buildBundle(name, raw)
		if err != nil {
			return nil, fmt.Errorf("bundle %q: %w", name, err)
		}
		bundles[name] = b
	}
	return &YAMLLoader{bundles: bundles}, nil
}

func buildBundle(name string, raw yamlBundle) (*bundle.Bundle, error) {
	scriptOptions, err := decodeOptions(raw.ScriptOptions)
	if err != nil {
		return nil, err
	}
	styleOptions, err := decodeOptions(raw.StyleOptions)
	if err != nil {
		return nil, err
	}

	builder := bundle.NewBuilder(name).
		Depends(raw.Depends...).
		ScriptOptions(scriptOptions).
		StyleOptions(styleOptions).
		SourcePath(raw.SourcePath).
		BasePath(raw.BasePath).
		BaseURL(raw.BaseURL)
	if raw.Remote {
		builder.Remote()
	}
	if raw.ForceCopy {
		builder.ForceCopy()
	}
	if raw.ScriptPosition != nil {
		builder.ScriptPosition(bundle.At(*raw.ScriptPosition))
	}
	if raw.StylePosition != nil {
		builder.StylePosition(bundle.At(*raw.StylePosition))
	}
	builder.Scripts(toAssets(raw.Scripts)...)
	builder.Styles(toAssets(raw.Styles)...)

	return builder.Build()
}

func toAssets(entries []yamlAsset) []*bundle.Asset {
	assets := make([]*bundle.Asset, 0, len(entries))
	for _, e := range entries {
		asset := bundle.NewAsset(e.url).WithKey(e.key).WithOptions(e.options)
		if e.position != nil {
			asset.WithPosition(bundle.At(*e.position))
		}
		assets = append(assets, asset)
	}
	return assets
}

// Load returns the parsed definition for name.
func (l *YAMLLoader) Load(ctx context.Context, name string) (*bundle.Bundle, error) {
	b, ok := l.bundles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", bundle.ErrUnknownBundle, name)
	}
	return b, nil
}
