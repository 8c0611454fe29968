package templates

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/format"
	"text/template"
)

// BlueprintImport is the import path generated route files register with.
const BlueprintImport = "github.com/constrictor-dev/constrictor/pkg/blueprint"

// Route is a route entry with every placeholder already rendered.
type Route struct {
	Method       string
	Path         string
	Handler      string
	ResponseType string
	View         string
}

// Kind returns the response shape the stub produces: html only when a view
// is named, json, or text for anything else.
func (r Route) Kind() string {
	switch {
	case r.ResponseType == ResponseHTML && r.View != "":
		return ResponseHTML
	case r.ResponseType == ResponseJSON:
		return ResponseJSON
	default:
		return ResponseText
	}
}

// RouteEmitter turns rendered routes into a module's routing-definition
// source file.
type RouteEmitter interface {
	// FileName is the file written inside the module directory.
	FileName() string

	// Emit returns the file content.
	Emit(module string, routes []Route) ([]byte, error)
}

//go:embed builtin/gin_routes.go.tmpl
var ginRoutesTemplate string

var ginRoutes = template.Must(template.New("routes.go").Parse(ginRoutesTemplate))

// GinEmitter emits a routes.go that builds a gin blueprint and registers it
// from init().
type GinEmitter struct{}

var _ RouteEmitter = GinEmitter{}

// FileName implements RouteEmitter.
func (GinEmitter) FileName() string {
	return "routes.go"
}

// Emit implements RouteEmitter. Handler names must be unique identifiers;
// the output is gofmt'ed, so a route that would produce invalid Go fails here.
func (GinEmitter) Emit(module string, routes []Route) ([]byte, error) {
	seen := make(map[string]bool, len(routes))
	for i, r := range routes {
		if err := validateHandlerName(r.Handler); err != nil {
			return nil, fmt.Errorf("routes[%d].function: %w", i, err)
		}
		if seen[r.Handler] {
			return nil, fmt.Errorf("routes[%d].function: handler %q is declared twice", i, r.Handler)
		}
		seen[r.Handler] = true
	}

	var buf bytes.Buffer
	err := ginRoutes.Execute(&buf, struct {
		Module          string
		BlueprintImport string
		Routes          []Route
	}{module, BlueprintImport, routes})
	if err != nil {
		return nil, fmt.Errorf("emitting routes: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated routes: %w", err)
	}
	return src, nil
}
