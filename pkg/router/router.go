package router

import (
	"net/http"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// Route represents an HTTP route with its handler and metadata.
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
	Params  []string
	Regex   *regexp.Regexp
}

// Router is an HTTP router that supports ":name" parameters, trailing
// wildcards and middleware.
type Router struct {
	mu         sync.RWMutex
	routes     map[string][]Route
	middleware []Middleware
	notFound   http.Handler
	notAllowed http.Handler
}

// New creates a new Router instance.
func New() *Router {
	return &Router{
		routes:   make(map[string][]Route),
		notFound: http.NotFoundHandler(),
		notAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}),
	}
}

// GET is a shortcut for adding a route with GET method.
func (r *Router) GET(pattern string, handler http.HandlerFunc) {
	r.AddRoute(http.MethodGet, pattern, handler)
}

// POST is a shortcut for adding a route with POST method.
func (r *Router) POST(pattern string, handler http.HandlerFunc) {
	r.AddRoute(http.MethodPost, pattern, handler)
}

// PUT is a shortcut for adding a route with PUT method.
func (r *Router) PUT(pattern string, handler http.HandlerFunc) {
	r.AddRoute(http.MethodPut, pattern, handler)
}

// DELETE is a shortcut for adding a route with DELETE method.
func (r *Router) DELETE(pattern string, handler http.HandlerFunc) {
	r.AddRoute(http.MethodDelete, pattern, handler)
}

// AddRoute adds a new route with the specified method and pattern.
func (r *Router) AddRoute(method, pattern string, handler http.Handler) {
	params, re := compilePattern(pattern)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[method] = append(r.routes[method], Route{
		Method:  method,
		Pattern: pattern,
		Handler: handler,
		Params:  params,
		Regex:   re,
	})
}

var paramSegment = regexp.MustCompile(`^:(\w+)$`)

// compilePattern converts a route pattern to a regex and extracts parameter
// names. A trailing "/*" captures the rest of the path as "wildcard".
func compilePattern(pattern string) ([]string, *regexp.Regexp) {
	var params []string
	wildcard := strings.HasSuffix(pattern, "/*")
	pattern = strings.TrimSuffix(pattern, "/*")

	parts := strings.Split(pattern, "/")
	for i, part := range parts {
		if m := paramSegment.FindStringSubmatch(part); m != nil {
			params = append(params, m[1])
			parts[i] = "(?P<" + m[1] + ">[^/]+)"
			continue
		}
		parts[i] = regexp.QuoteMeta(part)
	}

	expr := "^" + strings.Join(parts, "/")
	if wildcard {
		params = append(params, "wildcard")
		expr += "(?P<wildcard>/.*)?"
	}
	return params, regexp.MustCompile(expr + "$")
}

// ServeHTTP implements http.Handler interface.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	middleware := r.middleware
	routes := r.routes[req.Method]
	r.mu.RUnlock()

	handler := r.notFound
	matched := false
	for _, route := range routes {
		if params := matchRoute(req.URL.Path, route); params != nil {
			ctx := WithParams(req.Context(), params)
			ctx = withPattern(ctx, route.Pattern)
			req = req.WithContext(ctx)
			handler = route.Handler
			matched = true
			break
		}
	}
	if !matched {
		if allow := r.allowed(req.URL.Path); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
			handler = r.notAllowed
		}
	}

	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	handler.ServeHTTP(w, req)
}

// allowed lists the methods that have a route matching path.
func (r *Router) allowed(path string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var methods []string
	for method, routes := range r.routes {
		for _, route := range routes {
			if matchRoute(path, route) != nil {
				methods = append(methods, method)
				break
			}
		}
	}
	slices.Sort(methods)
	return methods
}

// matchRoute returns the route's parameters if path matches it.
func matchRoute(path string, route Route) Params {
	matches := route.Regex.FindStringSubmatch(path)
	if matches == nil {
		return nil
	}

	params := make(Params, len(route.Params))
	for i, name := range route.Regex.SubexpNames() {
		if name != "" {
			params[name] = matches[i]
		}
	}
	return params
}

// Use adds a middleware to the router's global middleware chain.
func (r *Router) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middlewares...)
}

// SetNotFoundHandler sets the handler for routes that don't match.
func (r *Router) SetNotFoundHandler(handler http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = handler
}

// SetMethodNotAllowedHandler sets the handler for paths that match under
// another method only.
func (r *Router) SetMethodNotAllowedHandler(handler http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notAllowed = handler
}

// Routes returns all registered routes, ordered by pattern then method.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var routes []Route
	for _, methodRoutes := range r.routes {
		routes = append(routes, methodRoutes...)
	}
	slices.SortFunc(routes, func(a, b Route) int {
		if c := strings.Compare(a.Pattern, b.Pattern); c != 0 {
			return c
		}
		return strings.Compare(a.Method, b.Method)
	})
	return routes
}
