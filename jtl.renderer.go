package jtl

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/itsatony/go-jtl/internal"
	"go.uber.org/zap"
)

// RendererConfig configures a Renderer.
type RendererConfig struct {
	// Assets loads template text when Render is not handed an asset.
	Assets AssetProvider
	// Includes materializes {{> name}} markers. Default: PlaceholderIncludes.
	Includes IncludeHandler
	// MatchMode selects block matching. Default: MatchModeNested.
	MatchMode MatchMode
	// StructureType tags parsed structures. Default: "HTML".
	StructureType string
	// Logger receives debug traces. Default: no-op.
	Logger *zap.Logger
}

// Renderer turns template text into output. Every render runs five passes over the
// text in fixed order: includes, conditionals, loops, filtered variables, plain variables.
// A Renderer holds no per-render state and is safe for concurrent use.
type Renderer struct {
	assets   AssetProvider
	includes IncludeHandler
	mode     MatchMode
	parser   *StructureParser
	logger   *zap.Logger
}

// NewRenderer creates a renderer.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Includes == nil {
		config.Includes = PlaceholderIncludes{}
	}
	return &Renderer{
		assets:   config.Assets,
		includes: config.Includes,
		mode:     config.MatchMode,
		parser:   NewStructureParser(config.MatchMode, config.StructureType, config.Logger),
		logger:   config.Logger,
	}
}

// MatchMode returns the block matching mode.
func (r *Renderer) MatchMode() MatchMode {
	return r.mode
}

// Parser returns the structure parser used for render results.
func (r *Renderer) Parser() *StructureParser {
	return r.parser
}

// Render renders tmpl. When asset is nil it is built from the configured provider at
// tmpl.Location(). Errors from the asset or the include handler are returned as they
// are and no partial result is produced.
func (r *Renderer) Render(ctx context.Context, tmpl *Template, rctx *Context, asset Asset) (*SourceCode, error) {
	if tmpl == nil {
		return nil, NewNilTemplateError()
	}
	if rctx == nil {
		rctx = NewContext()
	}

	start := time.Now()
	r.logger.Debug(LogMsgRenderStart,
		zap.String(LogFieldLocation, tmpl.Location()),
		zap.String(LogFieldMatchMode, r.mode.String()))

	if asset == nil {
		if r.assets == nil {
			return nil, NewNoAssetProviderError(tmpl.Location())
		}
		built, err := r.assets.Build(ctx, tmpl.Location())
		if err != nil {
			return nil, err
		}
		asset = built
	}

	raw, err := asset.Content(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Debug(LogMsgAssetLoaded,
		zap.String(LogFieldLocation, asset.Location()),
		zap.Int(LogFieldRawLength, len(raw)))

	structure := r.parser.Parse(raw)

	state := &renderState{mode: r.mode}
	out, err := r.renderText(ctx, frame{state: state, tmpl: tmpl, rctx: rctx}, raw)
	if err != nil {
		r.logger.Debug(LogMsgRenderFailed,
			zap.String(LogFieldLocation, tmpl.Location()),
			zap.Error(err))
		return nil, err
	}
	rendered := state.expand(out)

	r.logger.Debug(LogMsgRenderComplete,
		zap.String(LogFieldLocation, tmpl.Location()),
		zap.Int(LogFieldOutLength, len(rendered)),
		zap.Duration(LogFieldDuration, time.Since(start)))

	return NewSourceCode(asset, structure, raw, rendered), nil
}

// frame is one level of recursive rendering.
type frame struct {
	state *renderState
	tmpl  *Template
	rctx  *Context
	depth int
}

func (f frame) with(tmpl *Template) frame {
	f.tmpl = tmpl
	return f
}

// renderText runs the five passes over text.
func (r *Renderer) renderText(ctx context.Context, f frame, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := r.includePass(ctx, f, text)
	if err != nil {
		return "", err
	}
	text, err = r.conditionalPass(ctx, f, text)
	if err != nil {
		return "", err
	}
	text, err = r.loopPass(ctx, f, text)
	if err != nil {
		return "", err
	}
	text = r.variablePass(f, text, true)
	text = r.variablePass(f, text, false)
	return text, nil
}

// includePass replaces include markers. In nested mode markers inside blocks are left
// for the block's own render so they see its scope.
func (r *Renderer) includePass(ctx context.Context, f frame, text string) (string, error) {
	tokens := internal.NewScanner(text, r.logger).Scan()

	var blocks []internal.Block
	if r.mode == MatchModeNested {
		blocks = append(internal.MatchBlocks(tokens, internal.BlockKindIf, r.mode),
			internal.MatchBlocks(tokens, internal.BlockKindEach, r.mode)...)
	}

	var spans []span
	for _, tok := range tokens {
		if tok.Type != internal.TokenTypeInclude || internal.WithinAny(tok.Start, blocks) {
			continue
		}
		out, err := r.includes.Include(ctx, IncludeRequest{
			Name:     tok.Value,
			Template: f.tmpl,
			Context:  f.rctx,
			Depth:    f.depth,
			renderer: r,
			frame:    f,
		})
		if err != nil {
			return "", err
		}
		r.logger.Debug(LogMsgIncludeExpanded,
			zap.String(LogFieldInclude, tok.Value),
			zap.Int(LogFieldDepth, f.depth))
		spans = append(spans, span{start: tok.Start, end: tok.End, text: f.state.emit(out, false)})
	}
	return replaceSpans(text, spans), nil
}

// conditionalPass replaces every {{#if}} block with its rendered inner content or "".
// In nested mode conditionals inside loop bodies are skipped and evaluated per iteration.
func (r *Renderer) conditionalPass(ctx context.Context, f frame, text string) (string, error) {
	tokens := internal.NewScanner(text, r.logger).Scan()

	var blocks []internal.Block
	if r.mode == MatchModeNested {
		loops := internal.MatchBlocks(tokens, internal.BlockKindEach, r.mode)
		blocks = internal.MatchBlocksOutside(tokens, internal.BlockKindIf, r.mode, loops)
	} else {
		blocks = internal.MatchBlocks(tokens, internal.BlockKindIf, r.mode)
	}
	if len(blocks) == 0 {
		return text, nil
	}

	scope := f.rctx.Scope(f.tmpl)
	spans := make([]span, 0, len(blocks))
	for _, b := range blocks {
		out := ""
		if f.rctx.Evaluator().Evaluate(b.Argument(), scope) {
			rendered, err := r.renderText(ctx, f, b.Inner(text))
			if err != nil {
				return "", err
			}
			out = f.state.emit(rendered, false)
		}
		spans = append(spans, span{start: b.Start(), end: b.End(), text: out})
	}
	return replaceSpans(text, spans), nil
}

// loopPass replaces every {{#each}} block with one render of its body per element.
// The items path resolves against the template attributes only.
func (r *Renderer) loopPass(ctx context.Context, f frame, text string) (string, error) {
	tokens := internal.NewScanner(text, r.logger).Scan()
	blocks := internal.MatchBlocks(tokens, internal.BlockKindEach, r.mode)
	if len(blocks) == 0 {
		return text, nil
	}

	spans := make([]span, 0, len(blocks))
	for _, b := range blocks {
		path := b.Argument()
		value, _ := f.tmpl.Attributes().Lookup(path)
		items, ok := internal.AsSequence(value)
		if !ok {
			r.logger.Debug(LogMsgLoopNotSequence, zap.String(LogFieldPath, path))
			spans = append(spans, span{start: b.Start(), end: b.End()})
			continue
		}

		inner := b.Inner(text)
		var out strings.Builder
		for i, item := range items {
			iteration := f.tmpl.overlay(map[string]any{
				LoopVarThis:  item,
				LoopVarIndex: i,
				LoopVarFirst: i == 0,
				LoopVarLast:  i == len(items)-1,
			})
			rendered, err := r.renderText(ctx, f.with(iteration), inner)
			if err != nil {
				return "", err
			}
			out.WriteString(rendered)
		}

		r.logger.Debug(LogMsgLoopRendered,
			zap.String(LogFieldPath, path),
			zap.Int(LogFieldIterations, len(items)))
		spans = append(spans, span{start: b.Start(), end: b.End(), text: f.state.emit(out.String(), false)})
	}
	return replaceSpans(text, spans), nil
}

// variablePass substitutes either the filtered or the plain variables of text.
// Output is always HTML-escaped.
func (r *Renderer) variablePass(f frame, text string, filtered bool) string {
	tokens := internal.NewScanner(text, r.logger).Scan()
	scope := f.rctx.Scope(f.tmpl)
	filters := f.rctx.Filters()

	var spans []span
	for _, tok := range tokens {
		if tok.Type != internal.TokenTypeVariable || tok.IsFiltered() != filtered {
			continue
		}
		value, _ := scope.Lookup(tok.Path)
		if filtered {
			for _, name := range tok.Filters {
				if !filters.Has(name) {
					r.logger.Debug(LogMsgFilterUnknown, zap.String(LogFieldFilter, name))
				}
			}
			value = filters.Apply(value, tok.Filters)
		}
		out := internal.EscapeHTML(internal.Stringify(value))
		spans = append(spans, span{start: tok.Start, end: tok.End, text: f.state.emit(out, true)})
	}
	return replaceSpans(text, spans)
}

// span is a replacement of text[start:end].
type span struct {
	start int
	end   int
	text  string
}

// replaceSpans applies non-overlapping spans ordered by start.
func replaceSpans(text string, spans []span) string {
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, s := range spans {
		b.WriteString(text[last:s.start])
		b.WriteString(s.text)
		last = s.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// renderState collects the fragments of a nested-mode render. Produced output is
// parked here and replaced by a marker so later passes cannot re-scan it; expand
// puts it back once all passes are done. Legacy renders use no fragments.
type renderState struct {
	mode      MatchMode
	fragments []fragment
}

type fragment struct {
	text string
	// leaf fragments hold substituted values and never contain markers.
	leaf bool
}

// emit returns the text to splice into the current pass for out.
func (s *renderState) emit(out string, leaf bool) string {
	if s.mode != MatchModeNested || out == "" {
		return out
	}
	idx := len(s.fragments)
	s.fragments = append(s.fragments, fragment{text: out, leaf: leaf})
	return spliceOpen + strconv.Itoa(idx) + spliceClose
}

// expand replaces every marker in text with its fragment, recursively.
func (s *renderState) expand(text string) string {
	if len(s.fragments) == 0 {
		return text
	}
	var b strings.Builder
	s.expandInto(&b, text)
	return b.String()
}

func (s *renderState) expandInto(b *strings.Builder, text string) {
	for {
		open := strings.Index(text, spliceOpen)
		if open < 0 {
			b.WriteString(text)
			return
		}
		closeAt := strings.Index(text[open:], spliceClose)
		if closeAt < 0 {
			b.WriteString(text)
			return
		}
		idx, err := strconv.Atoi(text[open+len(spliceOpen) : open+closeAt])
		if err != nil || idx < 0 || idx >= len(s.fragments) {
			b.WriteString(text[:open+len(spliceOpen)])
			text = text[open+len(spliceOpen):]
			continue
		}

		b.WriteString(text[:open])
		if frag := s.fragments[idx]; frag.leaf {
			b.WriteString(frag.text)
		} else {
			s.expandInto(b, frag.text)
		}
		text = text[open+closeAt+len(spliceClose):]
	}
}
