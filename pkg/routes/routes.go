// Package routes declares HTTP endpoints as data so domain handlers can
// describe themselves and callers can register and document them.
package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/mediflow/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler.
// OpenAPI is optional; undocumented routes are still registered.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group organizes routes and nested groups under a common prefix.
// Schemas are the component schemas the group's operations reference.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
	Schemas  map[string]*openapi.Schema
}

// Patterns returns the full ServeMux pattern of every route in g,
// including nested groups, in declaration order.
func (g Group) Patterns() []string {
	var patterns []string
	g.walk("", nil, func(r Route, path string, _ []string) {
		patterns = append(patterns, r.Method+" "+path)
	})
	return patterns
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		group.walk("", nil, func(r Route, path string, _ []string) {
			mux.HandleFunc(r.Method+" "+path, r.Handler)
		})
	}
}

// Describe adds the documented operations and schemas of groups to spec.
// base is prepended to every path, matching the mount point of the mux.
func Describe(spec *openapi.Spec, base string, groups ...Group) {
	for _, group := range groups {
		group.walk("", nil, func(r Route, path string, tags []string) {
			if r.OpenAPI == nil {
				return
			}
			op := *r.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = tags
			}
			spec.AddOperation(r.Method, openAPIPath(base+path), &op)
		})
		group.schemas(spec.Components)
	}
}

func (g Group) walk(parent string, tags []string, fn func(r Route, path string, tags []string)) {
	prefix := parent + g.Prefix
	if len(g.Tags) > 0 {
		tags = g.Tags
	}
	for _, r := range g.Routes {
		fn(r, prefix+r.Pattern, tags)
	}
	for _, child := range g.Children {
		child.walk(prefix, tags, fn)
	}
}

func (g Group) schemas(c *openapi.Components) {
	if len(g.Schemas) > 0 {
		c.AddSchemas(g.Schemas)
	}
	for _, child := range g.Children {
		child.schemas(c)
	}
}

func openAPIPath(pattern string) string {
	path := strings.TrimSuffix(pattern, "{$}")
	if path == "" {
		return "/"
	}
	return path
}
