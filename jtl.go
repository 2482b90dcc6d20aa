// Package jtl renders logic-annotated HTML and text templates using a Mustache-style
// syntax with {{ and }} delimiters.
//
//	Hello, {{ user.name | capitalize }}!
//
// # Basic Usage
//
// Create an engine and render a template:
//
//	engine := jtl.MustNew()
//	out, err := engine.Execute(ctx, "Hello, {{name}}!", map[string]any{
//	    "name": "Jet<leaf>",
//	})
//	// out: "Hello, Jet&lt;leaf&gt;!"
//
// # Template Syntax
//
//	{{ path }}                        variable, HTML-escaped
//	{{ path | uppercase | trim }}     filtered variable, filters run left to right
//	{{#if expr}} ... {{/if}}          conditional
//	{{#each path}} ... {{/each}}      loop exposing this, @index, @first, @last
//	{{> name}}                        include
//
// Every render runs five passes in fixed order: includes, conditionals, loops,
// filtered variables, plain variables. Unknown variables render as "", unknown
// filters are skipped, malformed conditions are false and loops over values that
// are not sequences render nothing.
//
// # Assets and Caching
//
// Templates are loaded by location from an AssetProvider. The memory, filesystem,
// postgres and sqlite drivers register themselves and can be opened by name:
//
//	store, err := jtl.OpenAssetProvider("filesystem", "./templates")
//	engine, err := jtl.New(jtl.WithAssetStore(store), jtl.WithCacheWatcher(true))
//	result, err := engine.Render(ctx, jtl.NewTemplate("pages/home.html", attrs))
//
// Results are cached by location only; attributes are not part of the key.
// Use RenderUncached, Remove or InvalidateCache when data changes.
//
// # Match Modes
//
// MatchModeNested (the default) balances nested blocks of the same kind.
// MatchModeLegacy lets the first closing marker end a block and re-scans the
// output of earlier passes, reproducing regex-based engines.
package jtl
