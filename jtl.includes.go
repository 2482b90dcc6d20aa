package jtl

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// IncludeHandler materializes {{> name}} markers during a render.
type IncludeHandler interface {
	Include(ctx context.Context, req IncludeRequest) (string, error)
}

// IncludeHandlerFunc adapts a function to IncludeHandler.
type IncludeHandlerFunc func(ctx context.Context, req IncludeRequest) (string, error)

// Include calls f.
func (f IncludeHandlerFunc) Include(ctx context.Context, req IncludeRequest) (string, error) {
	return f(ctx, req)
}

// IncludeRequest describes one include marker being rendered.
type IncludeRequest struct {
	// Name is the include target as written in the marker.
	Name string
	// Template is the including template; its attributes are in scope.
	Template *Template
	// Context is the render context of the including template.
	Context *Context
	// Depth is the include nesting depth of the including template, 0 at the top.
	Depth int

	renderer *Renderer
	frame    frame
}

// Render runs the substitution passes over raw as if it stood in place of the marker,
// one include level deeper.
func (req IncludeRequest) Render(ctx context.Context, raw string) (string, error) {
	if req.renderer == nil {
		return raw, nil
	}
	f := req.frame
	f.depth++
	return req.renderer.renderText(ctx, f, raw)
}

// PlaceholderIncludes emits an inert "<!-- include: NAME -->" comment for every include.
type PlaceholderIncludes struct{}

// Include returns the placeholder comment with the escaped name.
func (PlaceholderIncludes) Include(_ context.Context, req IncludeRequest) (string, error) {
	return fmt.Sprintf(IncludePlaceholderFormat, EscapeHTML(req.Name)), nil
}

// AssetIncludes expands includes by loading the target from an asset provider and
// rendering it with the including template's attributes. Include chains deeper than
// maxDepth fail with an include depth error.
type AssetIncludes struct {
	provider AssetProvider
	maxDepth int
	logger   *zap.Logger
}

// NewAssetIncludes creates an expanding include handler. A non-positive maxDepth
// uses DefaultMaxIncludeDepth.
func NewAssetIncludes(provider AssetProvider, maxDepth int, logger *zap.Logger) *AssetIncludes {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxIncludeDepth
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetIncludes{
		provider: provider,
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// MaxDepth returns the include depth limit.
func (h *AssetIncludes) MaxDepth() int {
	return h.maxDepth
}

// Include loads and renders the include target.
func (h *AssetIncludes) Include(ctx context.Context, req IncludeRequest) (string, error) {
	if req.Depth >= h.maxDepth {
		return "", NewIncludeDepthError(req.Name, h.maxDepth)
	}
	if h.provider == nil {
		return "", NewIncludeError(req.Name, req.Depth, NewNoAssetProviderError(req.Name))
	}

	asset, err := h.provider.Build(ctx, req.Name)
	if err != nil {
		return "", NewIncludeError(req.Name, req.Depth, err)
	}
	raw, err := asset.Content(ctx)
	if err != nil {
		return "", NewIncludeError(req.Name, req.Depth, err)
	}

	h.logger.Debug(LogMsgAssetLoaded,
		zap.String(LogFieldLocation, asset.Location()),
		zap.String(LogFieldInclude, req.Name),
		zap.Int(LogFieldDepth, req.Depth+1))

	return req.Render(ctx, raw)
}
