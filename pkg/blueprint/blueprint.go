package blueprint

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// Route binds a method and path to handlers.
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

// Blueprint is a self-contained set of URL-path-to-handler bindings for one
// feature module.
type Blueprint struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []Route
}

// Option configures a Blueprint.
type Option func(*Blueprint)

// WithPrefix mounts every route of the blueprint under prefix.
func WithPrefix(prefix string) Option {
	return func(b *Blueprint) {
		b.prefix = prefix
	}
}

// New creates an empty blueprint.
func New(name string, opts ...Option) *Blueprint {
	b := &Blueprint{name: name}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the blueprint name.
func (b *Blueprint) Name() string {
	return b.name
}

// Prefix returns the URL prefix routes are mounted under.
func (b *Blueprint) Prefix() string {
	return b.prefix
}

// Use appends middleware that runs before every route of the blueprint.
func (b *Blueprint) Use(mw ...gin.HandlerFunc) *Blueprint {
	b.middleware = append(b.middleware, mw...)
	return b
}

// Handle adds a route.
func (b *Blueprint) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *Blueprint {
	b.routes = append(b.routes, Route{
		Method:   method,
		Path:     relativePath,
		Handlers: handlers,
	})
	return b
}

// GET adds a GET route.
func (b *Blueprint) GET(relativePath string, handlers ...gin.HandlerFunc) *Blueprint {
	return b.Handle(http.MethodGet, relativePath, handlers...)
}

// POST adds a POST route.
func (b *Blueprint) POST(relativePath string, handlers ...gin.HandlerFunc) *Blueprint {
	return b.Handle(http.MethodPost, relativePath, handlers...)
}

// PUT adds a PUT route.
func (b *Blueprint) PUT(relativePath string, handlers ...gin.HandlerFunc) *Blueprint {
	return b.Handle(http.MethodPut, relativePath, handlers...)
}

// PATCH adds a PATCH route.
func (b *Blueprint) PATCH(relativePath string, handlers ...gin.HandlerFunc) *Blueprint {
	return b.Handle(http.MethodPatch, relativePath, handlers...)
}

// DELETE adds a DELETE route.
func (b *Blueprint) DELETE(relativePath string, handlers ...gin.HandlerFunc) *Blueprint {
	return b.Handle(http.MethodDelete, relativePath, handlers...)
}

// Routes returns the routes with the prefix applied.
func (b *Blueprint) Routes() []Route {
	out := make([]Route, 0, len(b.routes))
	for _, r := range b.routes {
		r.Path = b.fullPath(r.Path)
		out = append(out, r)
	}
	return out
}

// Register mounts the blueprint's routes on r.
func (b *Blueprint) Register(r gin.IRouter) {
	g := r.Group(b.prefix, b.middleware...)
	for _, route := range b.routes {
		g.Handle(route.Method, route.Path, route.Handlers...)
	}
}

func (b *Blueprint) fullPath(p string) string {
	if b.prefix == "" {
		return p
	}
	joined := path.Join(b.prefix, p)
	if len(p) > 0 && p[len(p)-1] == '/' && joined[len(joined)-1] != '/' {
		joined += "/"
	}
	return joined
}
