// Package config provides configuration types and defaults for bundlekit.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/zjrosen/bundlekit/internal/log"
)

// PublishConfig holds publisher options.
type PublishConfig struct {
	BasePath   string `mapstructure:"base_path"`   // directory published bundles are written under
	BaseURL    string `mapstructure:"base_url"`    // URL the base path is served under
	LinkAssets bool   `mapstructure:"link_assets"` // symlink sources instead of copying
	ForceCopy  bool   `mapstructure:"force_copy"`  // re-copy even when the destination exists
	DirMode    uint32 `mapstructure:"dir_mode"`    // mode for created directories
	FileMode   uint32 `mapstructure:"file_mode"`   // mode for copied files
}

// TracingConfig configures the tracing subsystem.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"`      // "none", "file", "stdout", "otlp"
	FilePath     string  `mapstructure:"file_path"`     // output file for the "file" exporter
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"` // collector endpoint for the "otlp" exporter
	SampleRate   float64 `mapstructure:"sample_rate"`   // fraction of traces to sample, 1.0 = all
	ServiceName  string  `mapstructure:"service_name"`
}

// Config holds all configuration options for bundlekit.
type Config struct {
	BundleFile string            `mapstructure:"bundle_file"` // YAML bundle definitions, optional
	Aliases    map[string]string `mapstructure:"aliases"`     // "@alias" -> absolute path
	AssetMap   map[string]string `mapstructure:"asset_map"`   // longest-suffix asset remap table
	Publish    PublishConfig     `mapstructure:"publish"`
	LogFile    string            `mapstructure:"log_file"`
	Tracing    TracingConfig     `mapstructure:"tracing"`
	Flags      map[string]bool   `mapstructure:"flags"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Publish: PublishConfig{
			DirMode:  0o775,
			FileMode: 0o755,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from the working directory at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "bundlekit",
		},
	}
}

// Load reads configuration from path, falling back to bundlekit.yaml in the
// working directory when path is empty. A missing search-path file is not an
// error; an explicitly named file must exist.
func Load(path string) (Config, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("publish.dir_mode", defaults.Publish.DirMode)
	v.SetDefault("publish.file_mode", defaults.Publish.FileMode)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bundlekit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Viper reports ConfigFileNotFoundError only in search mode; an
		// explicitly named file that is missing surfaces as a path error.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	log.Debug(log.CatConfig, "configuration loaded",
		"file", v.ConfigFileUsed(), "bundles", cfg.BundleFile, "link", cfg.Publish.LinkAssets)
	return cfg, nil
}
