package router

import (
	"context"
	"net/http"
)

// ContextKey is the type used for context keys to avoid collisions.
type ContextKey string

const (
	// ParamsKey is the context key for URL parameters.
	ParamsKey ContextKey = "router.params"
	// PatternKey is the context key for the matched route pattern.
	PatternKey ContextKey = "router.pattern"
)

// Params holds URL parameter values extracted from the route pattern.
type Params map[string]string

// Get returns the value of the parameter with the given key.
// Returns an empty string if the parameter doesn't exist.
func (p Params) Get(key string) string {
	return p[key]
}

// Has returns true if the parameter with the given key exists.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// WithParams returns a new context with the given parameters.
func WithParams(ctx context.Context, params Params) context.Context {
	return context.WithValue(ctx, ParamsKey, params)
}

// ParamsFromContext extracts URL parameters from the context.
func ParamsFromContext(ctx context.Context) (Params, bool) {
	params, ok := ctx.Value(ParamsKey).(Params)
	return params, ok
}

// Param returns a URL parameter of the request.
func Param(r *http.Request, key string) string {
	params, _ := ParamsFromContext(r.Context())
	return params.Get(key)
}

func withPattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, PatternKey, pattern)
}

// Pattern returns the route pattern the request matched, or "" when no
// route matched. It keeps metric labels bounded.
func Pattern(r *http.Request) string {
	p, _ := r.Context().Value(PatternKey).(string)
	return p
}
