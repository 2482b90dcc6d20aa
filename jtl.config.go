package jtl

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the file form of the engine options.
//
// Example:
//
//	match_mode: nested
//	cache: true
//	watch: true
//	structure_type: HTML
//	includes:
//	  expand: true
//	  max_depth: 5
//	assets:
//	  driver: filesystem
//	  source: ./templates
//	  extension: .html
//	variables:
//	  site: Example
type Config struct {
	MatchMode     string         `yaml:"match_mode,omitempty"`
	Cache         *bool          `yaml:"cache,omitempty"`
	Watch         bool           `yaml:"watch,omitempty"`
	StructureType string         `yaml:"structure_type,omitempty"`
	Includes      IncludesConfig `yaml:"includes,omitempty"`
	Assets        AssetsConfig   `yaml:"assets,omitempty"`
	Variables     map[string]any `yaml:"variables,omitempty"`
}

// IncludesConfig configures include expansion.
type IncludesConfig struct {
	Expand bool `yaml:"expand,omitempty"`
	// MaxDepth of 0 uses DefaultMaxIncludeDepth.
	MaxDepth int `yaml:"max_depth,omitempty"`
}

// AssetsConfig selects the asset driver.
type AssetsConfig struct {
	// Driver is a registered driver name such as "filesystem" or "sqlite".
	Driver string `yaml:"driver,omitempty"`
	// Source is the driver-specific source: directory, database path or DSN.
	Source string `yaml:"source,omitempty"`
	// Extension is the default extension of the filesystem driver.
	Extension string `yaml:"extension,omitempty"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigRead, path, err)
	}
	return parseConfig(data, path)
}

// ParseConfig parses YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	return parseConfig(data, "")
}

func parseConfig(data []byte, path string) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, NewConfigError(ErrMsgConfigParse, path, err)
	}
	if _, err := ParseMatchMode(config.MatchMode); err != nil {
		return nil, err
	}
	if config.Includes.MaxDepth < 0 {
		return nil, NewInvalidMaxDepthError(config.Includes.MaxDepth)
	}
	return &config, nil
}

// Options converts the configuration to engine options. A configured asset driver is
// opened here; the resulting engine owns and closes the store.
func (c *Config) Options() ([]Option, error) {
	mode, err := ParseMatchMode(c.MatchMode)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithMatchMode(mode),
		WithIncludeExpansion(c.Includes.Expand),
		WithCacheWatcher(c.Watch),
		WithStructureType(c.StructureType),
	}
	if c.Cache != nil {
		opts = append(opts, WithCache(*c.Cache))
	}
	if c.Includes.MaxDepth > 0 {
		opts = append(opts, WithMaxIncludeDepth(c.Includes.MaxDepth))
	}
	if c.Variables != nil {
		opts = append(opts, WithVariables(c.Variables))
	}

	if c.Assets.Driver != "" {
		store, err := c.openAssets()
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithAssetStore(store))
	}
	return opts, nil
}

func (c *Config) openAssets() (AssetStore, error) {
	if c.Assets.Driver == AssetDriverNameFilesystem && c.Assets.Extension != "" {
		return NewFilesystemAssetStore(c.Assets.Source, c.Assets.Extension)
	}
	return OpenAssetProvider(c.Assets.Driver, c.Assets.Source)
}

// NewFromConfig creates an engine from a configuration file.
func NewFromConfig(path string, logger *zap.Logger) (*Engine, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	opts, err := config.Options()
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Debug(LogMsgConfigLoaded, zap.String(LogFieldPath, path))
	}
	return New(append(opts, WithLogger(logger))...)
}
