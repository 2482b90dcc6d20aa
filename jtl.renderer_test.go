package jtl

import (
	"context"
	"errors"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// renderRaw renders raw with attrs through a fresh renderer in mode.
func renderRaw(t *testing.T, mode MatchMode, raw string, attrs map[string]any) string {
	t.Helper()
	r := NewRenderer(RendererConfig{MatchMode: mode})
	result, err := r.Render(context.Background(), NewTemplate("test", attrs), NewContext(), NewStringAsset("test", raw))
	require.NoError(t, err)
	return result.Rendered()
}

// assertText compares multi-line output with a readable diff on mismatch.
func assertText(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("output mismatch:\n%v", diff.LineDiff(expected, actual))
	}
}

func TestRenderer_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		attrs    map[string]any
		expected string
	}{
		{
			name:     "escaped variable",
			raw:      "Hello, {{name}}!",
			attrs:    map[string]any{"name": "Jet<leaf>"},
			expected: "Hello, Jet&lt;leaf&gt;!",
		},
		{
			name:     "conditional true",
			raw:      "{{#if age >= 18}}adult{{/if}}",
			attrs:    map[string]any{"age": 20},
			expected: "adult",
		},
		{
			name:     "conditional false",
			raw:      "{{#if age >= 18}}adult{{/if}}",
			attrs:    map[string]any{"age": 10},
			expected: "",
		},
		{
			name:     "loop over any slice",
			raw:      "{{#each tags}}<li>{{this}}</li>{{/each}}",
			attrs:    map[string]any{"tags": []any{"a", "b"}},
			expected: "<li>a</li><li>b</li>",
		},
		{
			name:     "loop over typed slice",
			raw:      "{{#each tags}}<li>{{this}}</li>{{/each}}",
			attrs:    map[string]any{"tags": []string{"a", "b"}},
			expected: "<li>a</li><li>b</li>",
		},
		{
			name:     "unknown filter is skipped",
			raw:      "{{x | noSuchFilter}}",
			attrs:    map[string]any{"x": "hi"},
			expected: "hi",
		},
		{
			name:     "unknown filter output is escaped",
			raw:      "{{x | noSuchFilter}}",
			attrs:    map[string]any{"x": "<b>"},
			expected: "&lt;b&gt;",
		},
		{
			name:     "escaping table",
			raw:      "{{s}}",
			attrs:    map[string]any{"s": `&<>"'`},
			expected: "&amp;&lt;&gt;&quot;&#x27;",
		},
		{
			name:     "literal text is not escaped",
			raw:      `<a href="x">{{s}}</a>`,
			attrs:    map[string]any{"s": "&"},
			expected: `<a href="x">&amp;</a>`,
		},
		{
			name:     "missing variable",
			raw:      "[{{missing}}]",
			expected: "[]",
		},
		{
			name:     "boolean variable",
			raw:      "{{yes}}/{{no}}",
			attrs:    map[string]any{"yes": true, "no": false},
			expected: "true/false",
		},
		{
			name:     "dotted path",
			raw:      "{{user.profile.name}}",
			attrs:    map[string]any{"user": map[string]any{"profile": map[string]any{"name": "Ada"}}},
			expected: "Ada",
		},
		{
			name:     "sequence variable",
			raw:      "{{xs}}",
			attrs:    map[string]any{"xs": []any{1, "b", true}},
			expected: "1, b, true",
		},
		{
			name:     "malformed condition is false",
			raw:      "{{#if a == b == c}}x{{/if}}",
			attrs:    map[string]any{"a": 1, "b": 1, "c": 1},
			expected: "",
		},
		{
			name:     "and is split before or",
			raw:      "{{#if admin || guest && guest}}x{{/if}}",
			attrs:    map[string]any{"admin": true, "guest": false},
			expected: "",
		},
		{
			name:     "null coalescing",
			raw:      "{{#if nickname ?? name}}x{{/if}}",
			attrs:    map[string]any{"name": "Ada"},
			expected: "x",
		},
		{
			name:     "loop over non-sequence renders nothing",
			raw:      "a{{#each n}}x{{/each}}b",
			attrs:    map[string]any{"n": 42},
			expected: "ab",
		},
		{
			name:     "loop over missing path renders nothing",
			raw:      "a{{#each nothing}}x{{/each}}b",
			expected: "ab",
		},
		{
			name:     "loop inside true branch",
			raw:      "{{#if show}}{{#each xs}}{{this}}{{/each}}{{/if}}",
			attrs:    map[string]any{"show": true, "xs": []any{1, 2}},
			expected: "12",
		},
		{
			name:     "unclosed block stays literal",
			raw:      "{{#if a}}x",
			attrs:    map[string]any{"a": true},
			expected: "{{#if a}}x",
		},
		{
			name:     "stray closing marker stays literal",
			raw:      "x{{/each}}",
			expected: "x{{/each}}",
		},
		{
			name:     "include placeholder",
			raw:      "A{{> header}}B",
			expected: "A<!-- include: header -->B",
		},
		{
			name:     "include placeholder name is escaped",
			raw:      "{{> a<b}}",
			expected: "<!-- include: a&lt;b -->",
		},
		{
			name:     "loop item fields",
			raw:      "{{#each users}}{{this.name}};{{/each}}",
			attrs:    map[string]any{"users": []any{map[string]any{"name": "a"}, map[string]any{"name": "b"}}},
			expected: "a;b;",
		},
		{
			name:     "enclosing attributes visible in loop",
			raw:      "{{#each xs}}{{prefix}}{{this}} {{/each}}",
			attrs:    map[string]any{"prefix": "#", "xs": []any{1, 2}},
			expected: "#1 #2 ",
		},
	}

	for _, mode := range []MatchMode{MatchModeNested, MatchModeLegacy} {
		for _, tt := range tests {
			t.Run(mode.String()+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, renderRaw(t, mode, tt.raw, tt.attrs))
			})
		}
	}
}

func TestRenderer_LoopIndexLaw(t *testing.T) {
	raw := "{{#each items}}{{@index}}:{{@first}}:{{@last}};{{/each}}"

	tests := []struct {
		name     string
		items    []any
		expected string
	}{
		{name: "empty", items: []any{}, expected: ""},
		{name: "one", items: []any{"a"}, expected: "0:true:true;"},
		{name: "two", items: []any{"a", "b"}, expected: "0:true:false;1:false:true;"},
		{name: "three", items: []any{"a", "b", "c"}, expected: "0:true:false;1:false:false;2:false:true;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderRaw(t, MatchModeNested, raw, map[string]any{"items": tt.items})
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRenderer_FilterChainOrder(t *testing.T) {
	attrs := map[string]any{"v": []any{"a", "b", "c"}}

	assert.Equal(t, "c", renderRaw(t, MatchModeNested, "{{v | reverse | first}}", attrs))
	assert.Equal(t, "a", renderRaw(t, MatchModeNested, "{{v | first | reverse}}", attrs))
	assert.Equal(t, "ABCDEFGHIJ...", renderRaw(t, MatchModeNested, "{{v | uppercase | substring}}",
		map[string]any{"v": "abcdefghijkl"}))
}

func TestRenderer_MatchModes(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		attrs  map[string]any
		nested string
		legacy string
	}{
		{
			name: "conditional inside loop body",
			raw:  "{{#each users}}{{#if this.admin}}[{{this.name}}]{{/if}}{{/each}}",
			attrs: map[string]any{"users": []any{
				map[string]any{"name": "a", "admin": true},
				map[string]any{"name": "b", "admin": false},
			}},
			nested: "[a]",
			legacy: "",
		},
		{
			name:   "nested loops",
			raw:    "{{#each rows}}<tr>{{#each this}}<td>{{this}}</td>{{/each}}</tr>{{/each}}",
			attrs:  map[string]any{"rows": []any{[]any{1, 2}, []any{3}}},
			nested: "<tr><td>1</td><td>2</td></tr><tr><td>3</td></tr>",
			legacy: "<tr>{{#each this}}<td>1, 2</td><tr>{{#each this}}<td>3</td></tr>{{/each}}",
		},
		{
			name:   "filtered output is not re-scanned",
			raw:    "{{a | trim}}",
			attrs:  map[string]any{"a": " {{b}} ", "b": "x"},
			nested: "{{b}}",
			legacy: "x",
		},
		{
			name:   "plain output is never re-scanned",
			raw:    "{{a}}",
			attrs:  map[string]any{"a": "{{b}}", "b": "x"},
			nested: "{{b}}",
			legacy: "{{b}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.nested, renderRaw(t, MatchModeNested, tt.raw, tt.attrs), "nested")
			assert.Equal(t, tt.legacy, renderRaw(t, MatchModeLegacy, tt.raw, tt.attrs), "legacy")
		})
	}
}

func TestRenderer_MultilineTemplate(t *testing.T) {
	raw := "<ul>\n{{#each items}}  <li>{{this.label | capitalize}}</li>\n{{/each}}</ul>\n{{#if footer}}<footer>{{footer}}</footer>\n{{/if}}"
	attrs := map[string]any{
		"items": []any{
			map[string]any{"label": "first"},
			map[string]any{"label": "second"},
		},
		"footer": "Bye",
	}
	expected := "<ul>\n  <li>First</li>\n  <li>Second</li>\n</ul>\n<footer>Bye</footer>\n"

	for _, mode := range []MatchMode{MatchModeNested, MatchModeLegacy} {
		t.Run(mode.String(), func(t *testing.T) {
			assertText(t, expected, renderRaw(t, mode, raw, attrs))
		})
	}
}

func TestRenderer_Idempotent(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	rctx := NewContext()
	tmpl := NewTemplate("page", map[string]any{"xs": []any{"a", "b"}, "t": "<T>"})
	asset := NewStringAsset("page", "{{t}}{{#each xs}}{{this | uppercase}}{{/each}}")

	first, err := r.Render(context.Background(), tmpl, rctx, asset)
	require.NoError(t, err)
	second, err := r.Render(context.Background(), tmpl, rctx, asset)
	require.NoError(t, err)

	assert.Equal(t, "&lt;T&gt;AB", first.Rendered())
	assert.True(t, first.Equal(second))
}

func TestRenderer_Result(t *testing.T) {
	raw := "{{#if a}}x{{/if}}{{#each b}}y{{/each}}{{> c}}"
	r := NewRenderer(RendererConfig{StructureType: "TEXT"})
	asset := NewStringAsset("page", raw)

	result, err := r.Render(context.Background(), NewTemplate("page", nil), nil, asset)
	require.NoError(t, err)

	assert.Equal(t, raw, result.Raw())
	assert.Equal(t, "<!-- include: c -->", result.Rendered())
	assert.Equal(t, result.Rendered(), result.String())
	assert.Equal(t, asset, result.Asset())
	require.Equal(t, 3, result.Structure().Len())
	assert.Equal(t, "TEXT", result.Structure().Type())

	kinds := []ElementKind{}
	for _, el := range result.Structure().Elements() {
		kinds = append(kinds, el.Kind())
	}
	assert.Equal(t, []ElementKind{ElementKindConditional, ElementKindForEach, ElementKindInclude}, kinds)
}

func TestRenderer_GlobalVariables(t *testing.T) {
	rctx := NewContext(WithResolver(NewVariableResolver(map[string]any{
		"site":  "S",
		"name":  "global",
		"items": []any{1, 2},
	})))
	r := NewRenderer(RendererConfig{})

	render := func(raw string, attrs map[string]any) string {
		result, err := r.Render(context.Background(), NewTemplate("p", attrs), rctx, NewStringAsset("p", raw))
		require.NoError(t, err)
		return result.Rendered()
	}

	assert.Equal(t, "S-N", render("{{site}}-{{name}}", map[string]any{"name": "N"}))
	assert.Equal(t, "S-global", render("{{site}}-{{name}}", nil))
	assert.Equal(t, "yes", render("{{#if site == 'S'}}yes{{/if}}", nil))
	// Loop targets come from the template attributes only.
	assert.Equal(t, "", render("{{#each items}}x{{/each}}", nil))

	// The shared resolver is never written by a render.
	_, ok := rctx.Resolver().Lookup("this")
	assert.False(t, ok)
}

func TestRenderer_AssetProvider(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryAssetStore(map[string]string{"greeting": "Hi {{name}}"})
	r := NewRenderer(RendererConfig{Assets: store})

	t.Run("loads asset by location", func(t *testing.T) {
		result, err := r.Render(ctx, NewTemplate("greeting", map[string]any{"name": "Ada"}), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "Hi Ada", result.Rendered())
		assert.Equal(t, "greeting", result.Asset().Location())
	})

	t.Run("asset not found propagates", func(t *testing.T) {
		result, err := r.Render(ctx, NewTemplate("missing", nil), nil, nil)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, IsAssetNotFound(err))
	})

	t.Run("no provider", func(t *testing.T) {
		bare := NewRenderer(RendererConfig{})
		_, err := bare.Render(ctx, NewTemplate("greeting", nil), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNoAssetProvider)
	})

	t.Run("nil template", func(t *testing.T) {
		_, err := r.Render(ctx, nil, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNilTemplate)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := r.Render(cancelled, NewTemplate("greeting", nil), nil, NewStringAsset("greeting", "x"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRenderer_IncludeExpansion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryAssetStore(map[string]string{
		"header": "<h1>{{title}}</h1>",
		"item":   "<li>{{this}}</li>",
		"outer":  "[{{> header}}]",
		"loop":   "x{{> loop}}",
	})

	render := func(t *testing.T, mode MatchMode, maxDepth int, raw string, attrs map[string]any) (string, error) {
		t.Helper()
		r := NewRenderer(RendererConfig{
			Includes:  NewAssetIncludes(store, maxDepth, nil),
			MatchMode: mode,
		})
		result, err := r.Render(ctx, NewTemplate("page", attrs), nil, NewStringAsset("page", raw))
		if err != nil {
			return "", err
		}
		return result.Rendered(), nil
	}

	t.Run("renders include with template attributes", func(t *testing.T) {
		for _, mode := range []MatchMode{MatchModeNested, MatchModeLegacy} {
			out, err := render(t, mode, 0, "{{> header}}body", map[string]any{"title": "T"})
			require.NoError(t, err)
			assert.Equal(t, "<h1>T</h1>body", out, mode.String())
		}
	})

	t.Run("nested includes", func(t *testing.T) {
		out, err := render(t, MatchModeNested, 0, "{{> outer}}", map[string]any{"title": "T"})
		require.NoError(t, err)
		assert.Equal(t, "[<h1>T</h1>]", out)
	})

	t.Run("include inside loop sees the item", func(t *testing.T) {
		out, err := render(t, MatchModeNested, 0, "{{#each items}}{{> item}}{{/each}}", map[string]any{"items": []any{"a", "b"}})
		require.NoError(t, err)
		assert.Equal(t, "<li>a</li><li>b</li>", out)
	})

	t.Run("include in false branch is not loaded", func(t *testing.T) {
		out, err := render(t, MatchModeNested, 0, "{{#if show}}{{> missing}}{{/if}}ok", nil)
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
	})

	t.Run("missing include", func(t *testing.T) {
		_, err := render(t, MatchModeNested, 0, "{{> missing}}", nil)
		require.Error(t, err)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		name, ok := customErr.GetMetadata(MetaKeyInclude)
		assert.True(t, ok)
		assert.Equal(t, "missing", name)
		assert.Contains(t, err.Error(), ErrMsgIncludeFailed)
	})

	t.Run("depth limit", func(t *testing.T) {
		_, err := render(t, MatchModeNested, 3, "{{> loop}}", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgIncludeDepthExceeded)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		maxDepth, ok := customErr.GetMetadata(MetaKeyMaxDepth)
		assert.True(t, ok)
		assert.Equal(t, "3", maxDepth)
	})

	t.Run("default depth", func(t *testing.T) {
		assert.Equal(t, DefaultMaxIncludeDepth, NewAssetIncludes(store, 0, nil).MaxDepth())
	})
}

func TestRenderer_IncludeHandlerFunc(t *testing.T) {
	var seen []IncludeRequest
	handler := IncludeHandlerFunc(func(ctx context.Context, req IncludeRequest) (string, error) {
		seen = append(seen, req)
		return req.Render(ctx, "<{{who}}>")
	})
	r := NewRenderer(RendererConfig{Includes: handler})

	result, err := r.Render(context.Background(), NewTemplate("p", map[string]any{"who": "me"}), nil,
		NewStringAsset("p", "{{> anything}}"))
	require.NoError(t, err)
	assert.Equal(t, "<me>", result.Rendered())

	require.Len(t, seen, 1)
	assert.Equal(t, "anything", seen[0].Name)
	assert.Equal(t, 0, seen[0].Depth)
	assert.Equal(t, "p", seen[0].Template.Location())
}

func TestRenderer_DebugLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := NewRenderer(RendererConfig{Logger: zap.New(core)})

	_, err := r.Render(context.Background(), NewTemplate("p", map[string]any{"n": 1}), nil,
		NewStringAsset("p", "{{#each n}}x{{/each}}{{n | nope}}"))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage(LogMsgRenderStart).Len())
	assert.Equal(t, 1, logs.FilterMessage(LogMsgRenderComplete).Len())

	loop := logs.FilterMessage(LogMsgLoopNotSequence).All()
	require.Len(t, loop, 1)
	assert.Equal(t, "n", loop[0].ContextMap()[LogFieldPath])

	unknown := logs.FilterMessage(LogMsgFilterUnknown).All()
	require.Len(t, unknown, 1)
	assert.Equal(t, "nope", unknown[0].ContextMap()[LogFieldFilter])
}

func TestRenderState_Expand(t *testing.T) {
	state := &renderState{mode: MatchModeNested}
	leaf := state.emit("{{x}}", true)
	outer := state.emit("<"+leaf+">", false)

	assert.Equal(t, "[<{{x}}>]", state.expand("["+outer+"]"))
	assert.Equal(t, "", state.emit("", true))

	t.Run("unknown marker is kept", func(t *testing.T) {
		text := spliceOpen + "99" + spliceClose
		assert.Equal(t, text, state.expand(text))
	})

	t.Run("legacy emits text", func(t *testing.T) {
		legacy := &renderState{mode: MatchModeLegacy}
		assert.Equal(t, "abc", legacy.emit("abc", false))
		assert.Empty(t, legacy.fragments)
	})
}
