package jtl

import (
	"sync"

	"github.com/itsatony/go-jtl/internal"
)

// Lookuper resolves dotted variable paths such as "user.profile.name".
type Lookuper interface {
	Lookup(path string) (any, bool)
}

// VariableResolver maps dotted paths to values held in a replaceable dictionary.
// It is shared by every render of an engine; renders never write to it.
type VariableResolver struct {
	mu   sync.RWMutex
	vars map[string]any
}

// NewVariableResolver creates a resolver over a copy of vars.
func NewVariableResolver(vars map[string]any) *VariableResolver {
	return &VariableResolver{vars: internal.CopyDict(vars)}
}

// Lookup walks path through the dictionary. Whitespace around segments is ignored.
// It reports false when a segment is missing or an intermediate value is not a dictionary.
func (r *VariableResolver) Lookup(path string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return internal.WalkPath(r.vars, path)
}

// Resolve returns the string form of the value at path, or "" when absent.
func (r *VariableResolver) Resolve(path string) string {
	v, _ := r.Lookup(path)
	return internal.Stringify(v)
}

// SetVariables replaces the whole dictionary for subsequent resolutions.
func (r *VariableResolver) SetVariables(vars map[string]any) {
	replacement := internal.CopyDict(vars)

	r.mu.Lock()
	r.vars = replacement
	r.mu.Unlock()
}

// Variables returns a shallow copy of the current dictionary.
func (r *VariableResolver) Variables() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return internal.CopyDict(r.vars)
}

// Scope returns a lookup that checks attrs first and falls back to the resolver.
func (r *VariableResolver) Scope(attrs Attributes) *VariableScope {
	return &VariableScope{attrs: attrs, parent: r}
}

// VariableScope resolves a single render's variables: template attributes first,
// then the resolver's dictionary.
type VariableScope struct {
	attrs  Attributes
	parent *VariableResolver
}

// Lookup resolves path against the template attributes, then the resolver.
func (s *VariableScope) Lookup(path string) (any, bool) {
	if v, ok := s.attrs.Lookup(path); ok {
		return v, true
	}
	if s.parent == nil {
		return nil, false
	}
	return s.parent.Lookup(path)
}

// Resolve returns the string form of the value at path, or "" when absent.
func (s *VariableScope) Resolve(path string) string {
	v, _ := s.Lookup(path)
	return internal.Stringify(v)
}

// Stringify converts any value to the string form used for substitution.
// nil becomes "", booleans "true"/"false", sequences join with ", " and
// dictionaries render as {k1=v1, k2=v2} with sorted keys.
func Stringify(v any) string {
	return internal.Stringify(v)
}

// IsTruthy reports the truthiness of a resolved value as used by conditionals.
func IsTruthy(v any) bool {
	return internal.IsTruthy(v)
}

// EscapeHTML escapes &, <, >, " and ' the way every variable substitution is escaped.
func EscapeHTML(s string) string {
	return internal.EscapeHTML(s)
}
