package jtl

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	logger          *zap.Logger
	assets          AssetProvider
	ownsAssets      bool
	matchMode       MatchMode
	cache           bool
	watch           bool
	expandIncludes  bool
	includeHandler  IncludeHandler
	maxIncludeDepth int
	structureType   string
	variables       map[string]any
	filters         []namedFilter
}

type namedFilter struct {
	name string
	fn   Filter
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		matchMode:       MatchModeNested,
		cache:           DefaultCacheEnabled,
		maxIncludeDepth: DefaultMaxIncludeDepth,
		structureType:   DefaultStructureType,
	}
}

// replaceAssets installs provider, closing a previously owned store it supersedes.
func (c *engineConfig) replaceAssets(provider AssetProvider, owned bool) {
	if prev, ok := c.assets.(AssetStore); ok && c.ownsAssets && AssetProvider(prev) != provider {
		_ = prev.Close()
	}
	c.assets = provider
	c.ownsAssets = owned
}

// abandon closes an owned asset store after a failed construction and returns err.
func (c *engineConfig) abandon(err error) error {
	if store, ok := c.assets.(AssetStore); ok && c.ownsAssets {
		_ = store.Close()
	}
	return err
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithAssetProvider sets where template text is loaded from. The engine does not
// close the provider.
func WithAssetProvider(provider AssetProvider) Option {
	return func(c *engineConfig) {
		c.replaceAssets(provider, false)
	}
}

// WithAssetStore hands a store to the engine. The engine closes it on Close, or
// when New fails. A later WithAssetStore or WithAssetProvider closes a store handed
// over earlier.
func WithAssetStore(store AssetStore) Option {
	return func(c *engineConfig) {
		c.replaceAssets(store, store != nil)
	}
}

// WithMatchMode sets how block markers are paired.
// Default: MatchModeNested
func WithMatchMode(mode MatchMode) Option {
	return func(c *engineConfig) {
		c.matchMode = mode
	}
}

// WithCache enables or disables the template cache.
// Default: true
func WithCache(enabled bool) Option {
	return func(c *engineConfig) {
		c.cache = enabled
	}
}

// WithCacheWatcher drops cache entries when their files change. It needs a
// *FilesystemAssetStore provider and an enabled cache; otherwise it has no effect.
// Default: false
func WithCacheWatcher(enabled bool) Option {
	return func(c *engineConfig) {
		c.watch = enabled
	}
}

// WithIncludeExpansion makes {{> name}} render the named asset instead of emitting
// a placeholder comment.
// Default: false
func WithIncludeExpansion(enabled bool) Option {
	return func(c *engineConfig) {
		c.expandIncludes = enabled
	}
}

// WithIncludeHandler sets a custom include handler. It takes precedence over
// WithIncludeExpansion.
func WithIncludeHandler(handler IncludeHandler) Option {
	return func(c *engineConfig) {
		c.includeHandler = handler
	}
}

// WithMaxIncludeDepth sets how deep expanded includes may nest.
// Default: 10
func WithMaxIncludeDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxIncludeDepth = depth
	}
}

// WithFilter registers a custom filter, replacing a built-in of the same name.
func WithFilter(name string, fn Filter) Option {
	return func(c *engineConfig) {
		c.filters = append(c.filters, namedFilter{name: name, fn: fn})
	}
}

// WithVariables sets the global variables templates fall back to when an attribute
// is missing.
func WithVariables(vars map[string]any) Option {
	return func(c *engineConfig) {
		c.variables = vars
	}
}

// WithStructureType sets the type tag of parsed structures.
// Default: "HTML"
func WithStructureType(structureType string) Option {
	return func(c *engineConfig) {
		if structureType != "" {
			c.structureType = structureType
		}
	}
}
