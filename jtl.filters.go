package jtl

import (
	"sort"
	"sync"

	"github.com/itsatony/go-jtl/internal"
)

// Filter is a named value transform applied in a {{ path | filter }} chain.
// Filters must not fail: a value a filter cannot handle should pass through unchanged.
type Filter func(value any) any

// FilterRegistry maps filter names to transforms. It starts with the built-in filters:
//
//	string:      uppercase, lowercase, trim, capitalize, titlecase
//	size/shape:  length, size, reverse, substring
//	numeric:     abs, round, ceil, floor, toFixed
//	conditional: default, emptycheck
//	list:        first, last, join
//	encoding:    urlencode, htmlescape
type FilterRegistry struct {
	mu      sync.RWMutex
	filters map[string]Filter
}

// NewFilterRegistry creates a registry pre-loaded with the built-in filters.
func NewFilterRegistry() *FilterRegistry {
	builtins := internal.BuiltinFilters()
	filters := make(map[string]Filter, len(builtins))
	for name, fn := range builtins {
		filters[name] = Filter(fn)
	}
	return &FilterRegistry{filters: filters}
}

// Register adds fn under name, replacing any filter already registered for it.
func (r *FilterRegistry) Register(name string, fn Filter) error {
	if name == "" {
		return NewFilterRegistrationError(ErrMsgEmptyFilterName, name)
	}
	if fn == nil {
		return NewFilterRegistrationError(ErrMsgNilFilter, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.filters[name] = fn
	return nil
}

// MustRegister adds a filter and panics on error.
func (r *FilterRegistry) MustRegister(name string, fn Filter) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Get returns the filter registered for name.
func (r *FilterRegistry) Get(name string) (Filter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.filters[name]
	return fn, ok
}

// Has reports whether a filter is registered for name.
func (r *FilterRegistry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns all registered filter names, sorted.
func (r *FilterRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered filters.
func (r *FilterRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.filters)
}

// Apply runs value through the named filters left to right. Unknown names are skipped.
func (r *FilterRegistry) Apply(value any, names []string) any {
	return internal.ApplyFilters(value, names, func(name string) (internal.FilterFunc, bool) {
		fn, ok := r.Get(name)
		if !ok {
			return nil, false
		}
		return internal.FilterFunc(fn), true
	})
}
