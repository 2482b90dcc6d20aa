package jtl

import "go.uber.org/zap"

// Context bundles the long-lived collaborators a render reads from: the variable
// resolver, the expression evaluator and the filter registry.
type Context struct {
	resolver  *VariableResolver
	evaluator *ExpressionEvaluator
	filters   *FilterRegistry
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithResolver sets the variable resolver.
func WithResolver(resolver *VariableResolver) ContextOption {
	return func(c *Context) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// WithEvaluator sets the expression evaluator.
func WithEvaluator(evaluator *ExpressionEvaluator) ContextOption {
	return func(c *Context) {
		if evaluator != nil {
			c.evaluator = evaluator
		}
	}
}

// WithFilterRegistry sets the filter registry.
func WithFilterRegistry(filters *FilterRegistry) ContextOption {
	return func(c *Context) {
		if filters != nil {
			c.filters = filters
		}
	}
}

// NewContext creates a context. Collaborators not supplied are created empty:
// a resolver without variables, a non-logging evaluator and the built-in filters.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{}
	for _, opt := range opts {
		opt(c)
	}
	if c.resolver == nil {
		c.resolver = NewVariableResolver(nil)
	}
	if c.evaluator == nil {
		c.evaluator = NewExpressionEvaluator(zap.NewNop())
	}
	if c.filters == nil {
		c.filters = NewFilterRegistry()
	}
	return c
}

// Resolver returns the variable resolver.
func (c *Context) Resolver() *VariableResolver {
	return c.resolver
}

// Evaluator returns the expression evaluator.
func (c *Context) Evaluator() *ExpressionEvaluator {
	return c.evaluator
}

// Filters returns the filter registry.
func (c *Context) Filters() *FilterRegistry {
	return c.filters
}

// Scope returns the variable lookup for rendering tmpl.
func (c *Context) Scope(tmpl *Template) *VariableScope {
	return c.resolver.Scope(tmpl.Attributes())
}
