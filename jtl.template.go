package jtl

import (
	"sort"

	"github.com/itsatony/go-jtl/internal"
)

// Attributes is a read-only view over a template's attribute dictionary.
// The zero value is an empty dictionary.
type Attributes struct {
	values map[string]any
}

// Get returns the top-level attribute name.
func (a Attributes) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Lookup resolves a dotted path against the attributes.
func (a Attributes) Lookup(path string) (any, bool) {
	return internal.WalkPath(a.values, path)
}

// Has reports whether a top-level attribute exists.
func (a Attributes) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Keys returns the top-level attribute names, sorted.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a.values))
	for k := range a.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of top-level attributes.
func (a Attributes) Len() int {
	return len(a.values)
}

// Map returns a shallow copy of the attributes.
func (a Attributes) Map() map[string]any {
	return internal.CopyDict(a.values)
}

// Template is an immutable pairing of a location and the attributes to render it with.
type Template struct {
	location   string
	attributes Attributes
}

// NewTemplate snapshots attrs; later changes to attrs do not affect the template.
func NewTemplate(location string, attrs map[string]any) *Template {
	return &Template{
		location:   location,
		attributes: Attributes{values: internal.CopyDict(attrs)},
	}
}

// Location returns the template identifier used for asset lookup and caching.
func (t *Template) Location() string {
	return t.location
}

// Attributes returns the read-only attribute view.
func (t *Template) Attributes() Attributes {
	return t.attributes
}

// WithAttributes derives a template at the same location with different attributes.
func (t *Template) WithAttributes(attrs map[string]any) *Template {
	return NewTemplate(t.location, attrs)
}

// overlay derives a template whose attributes are a copy of t's overlaid with extra.
func (t *Template) overlay(extra map[string]any) *Template {
	merged := internal.CopyDict(t.attributes.values)
	for k, v := range extra {
		merged[k] = v
	}
	return &Template{location: t.location, attributes: Attributes{values: merged}}
}

// TemplateBuilder accumulates attributes for a Template.
// Build hands the accumulated dictionary to the template and resets the builder.
type TemplateBuilder struct {
	location string
	values   map[string]any
}

// NewTemplateBuilder starts a builder for location.
func NewTemplateBuilder(location string) *TemplateBuilder {
	return &TemplateBuilder{
		location: location,
		values:   make(map[string]any),
	}
}

// Set adds or replaces an attribute.
func (b *TemplateBuilder) Set(name string, value any) *TemplateBuilder {
	b.values[name] = value
	return b
}

// SetAll adds or replaces every entry of attrs.
func (b *TemplateBuilder) SetAll(attrs map[string]any) *TemplateBuilder {
	for k, v := range attrs {
		b.values[k] = v
	}
	return b
}

// Build returns the template. The builder starts over with an empty dictionary.
func (b *TemplateBuilder) Build() *Template {
	tmpl := &Template{
		location:   b.location,
		attributes: Attributes{values: b.values},
	}
	b.values = make(map[string]any)
	return tmpl
}
