package jtl

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Engine is the main entry point for rendering templates.
// It wires the render context, the renderer, the template cache and the asset provider.
type Engine struct {
	config   *engineConfig
	context  *Context
	renderer *Renderer
	cache    *TemplateCache
	assets   AssetProvider
	watcher  *CacheWatcher
	logger   *zap.Logger

	closeOnce sync.Once
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if config.maxIncludeDepth <= 0 {
		return nil, config.abandon(NewInvalidMaxDepthError(config.maxIncludeDepth))
	}

	filters := NewFilterRegistry()
	for _, f := range config.filters {
		if err := filters.Register(f.name, f.fn); err != nil {
			return nil, config.abandon(err)
		}
	}

	rctx := NewContext(
		WithResolver(NewVariableResolver(config.variables)),
		WithEvaluator(NewExpressionEvaluator(logger)),
		WithFilterRegistry(filters),
	)

	includes := config.includeHandler
	if includes == nil && config.expandIncludes {
		includes = NewAssetIncludes(config.assets, config.maxIncludeDepth, logger)
	}

	e := &Engine{
		config:  config,
		context: rctx,
		renderer: NewRenderer(RendererConfig{
			Assets:        config.assets,
			Includes:      includes,
			MatchMode:     config.matchMode,
			StructureType: config.structureType,
			Logger:        logger,
		}),
		assets: config.assets,
		logger: logger,
	}

	if config.cache {
		e.cache = NewTemplateCache()
	}

	if fsStore, ok := config.assets.(*FilesystemAssetStore); ok && config.watch && e.cache != nil {
		watcher, err := NewCacheWatcher(fsStore, e.cache, logger)
		if err != nil {
			return nil, config.abandon(err)
		}
		e.watcher = watcher
	}

	logger.Debug(LogMsgEngineCreated,
		zap.String(LogFieldMatchMode, config.matchMode.String()),
		zap.Bool(LogFieldCache, config.cache))

	return e, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Render returns the cached result for tmpl.Location() or renders the template from
// the asset provider and caches the result. The cache key ignores attributes.
func (e *Engine) Render(ctx context.Context, tmpl *Template) (*SourceCode, error) {
	return e.render(ctx, tmpl, nil)
}

// RenderSource renders raw as the text of tmpl, with the same cache rules as Render.
func (e *Engine) RenderSource(ctx context.Context, tmpl *Template, raw string) (*SourceCode, error) {
	if tmpl == nil {
		return nil, NewNilTemplateError()
	}
	return e.render(ctx, tmpl, NewStringAsset(tmpl.Location(), raw))
}

// RenderUncached renders tmpl without reading or writing the cache.
func (e *Engine) RenderUncached(ctx context.Context, tmpl *Template) (*SourceCode, error) {
	return e.renderer.Render(ctx, tmpl, e.context, nil)
}

// Execute renders source with data and returns the output. The cache is not used.
func (e *Engine) Execute(ctx context.Context, source string, data map[string]any) (string, error) {
	tmpl := NewTemplate("", data)
	result, err := e.renderer.Render(ctx, tmpl, e.context, NewStringAsset(tmpl.Location(), source))
	if err != nil {
		return "", err
	}
	return result.Rendered(), nil
}

func (e *Engine) render(ctx context.Context, tmpl *Template, asset Asset) (*SourceCode, error) {
	if tmpl == nil {
		return nil, NewNilTemplateError()
	}

	if e.cache != nil {
		if result, ok := e.cache.Get(tmpl.Location()); ok {
			e.logger.Debug(LogMsgCacheHit, zap.String(LogFieldLocation, tmpl.Location()))
			return result, nil
		}
		e.logger.Debug(LogMsgCacheMiss, zap.String(LogFieldLocation, tmpl.Location()))
	}

	result, err := e.renderer.Render(ctx, tmpl, e.context, asset)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Put(tmpl.Location(), result)
		e.logger.Debug(LogMsgCacheStore,
			zap.String(LogFieldLocation, tmpl.Location()),
			zap.Int(LogFieldCacheSize, e.cache.Len()))
	}
	return result, nil
}

// Parse extracts the structure of raw without rendering it.
func (e *Engine) Parse(raw string) *CodeStructure {
	return e.renderer.Parser().Parse(raw)
}

// RegisterFilter adds a filter, replacing any filter of the same name.
func (e *Engine) RegisterFilter(name string, fn Filter) error {
	if err := e.context.Filters().Register(name, fn); err != nil {
		return err
	}
	e.logger.Debug(LogMsgFilterRegistered, zap.String(LogFieldFilter, name))
	return nil
}

// SetVariables replaces the global variables. Cached results are not invalidated.
func (e *Engine) SetVariables(vars map[string]any) {
	e.context.Resolver().SetVariables(vars)
	e.logger.Debug(LogMsgVariablesReplaced, zap.Int(LogFieldVariables, len(vars)))
}

// RegisterTemplate stores content at location in the asset provider and drops any
// cached result for it. The provider must be an AssetStore.
func (e *Engine) RegisterTemplate(ctx context.Context, location, content string) error {
	store, ok := e.assets.(AssetStore)
	if !ok {
		if e.assets == nil {
			return NewNoAssetProviderError(location)
		}
		return NewAssetNotWritableError(location)
	}
	if err := store.Put(ctx, location, content); err != nil {
		return err
	}
	if e.cache != nil && e.cache.Remove(location) {
		e.logger.Debug(LogMsgCacheRemove, zap.String(LogFieldLocation, location))
	}
	return nil
}

// InvalidateCache drops every cached result.
func (e *Engine) InvalidateCache() {
	if e.cache == nil {
		return
	}
	e.cache.InvalidateCache()
	e.logger.Debug(LogMsgCacheInvalidate)
}

// Cache returns the template cache, or nil when caching is disabled.
func (e *Engine) Cache() *TemplateCache {
	return e.cache
}

// Context returns the render context shared by all renders.
func (e *Engine) Context() *Context {
	return e.context
}

// Renderer returns the underlying renderer.
func (e *Engine) Renderer() *Renderer {
	return e.renderer
}

// Assets returns the asset provider, or nil.
func (e *Engine) Assets() AssetProvider {
	return e.assets
}

// MatchMode returns the configured match mode.
func (e *Engine) MatchMode() MatchMode {
	return e.config.matchMode
}

// Close stops the cache watcher and closes an owned asset store.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		if e.watcher != nil {
			if werr := e.watcher.Close(); werr != nil {
				err = werr
			}
		}
		if store, ok := e.assets.(AssetStore); ok && e.config.ownsAssets {
			if cerr := store.Close(); cerr != nil {
				e.logger.Warn(LogMsgAssetStoreClosed, zap.Error(cerr))
				if err == nil {
					err = cerr
				}
			}
		}
		e.logger.Debug(LogMsgEngineClosed)
	})
	return err
}
