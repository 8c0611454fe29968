package templates

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinEmitter_Emit(t *testing.T) {
	src, err := GinEmitter{}.Emit("billing", []Route{
		{Method: "GET", Path: "/billing/", Handler: "index", ResponseType: ResponseHTML, View: "billing/index.html"},
		{Method: "DELETE", Path: "/billing/:id", Handler: "remove", ResponseType: ResponseJSON},
		{Method: "GET", Path: `/billing/"quoted"`, Handler: "hello"},
	})
	require.NoError(t, err)

	f, err := parser.ParseFile(token.NewFileSet(), "routes.go", src, parser.ImportsOnly)
	require.NoError(t, err, string(src))
	var imports []string
	for _, imp := range f.Imports {
		imports = append(imports, imp.Path.Value)
	}
	assert.ElementsMatch(t, []string{`"net/http"`, `"github.com/gin-gonic/gin"`, `"` + BlueprintImport + `"`}, imports)

	out := string(src)
	assert.Contains(t, out, `bp.Handle("DELETE", "/billing/:id", remove)`)
	assert.Contains(t, out, `"/billing/\"quoted\""`)
	assert.Contains(t, out, "func index(c *gin.Context)")
}

func TestGinEmitter_NoRoutes(t *testing.T) {
	src, err := GinEmitter{}.Emit("empty", nil)
	require.NoError(t, err)

	f, err := parser.ParseFile(token.NewFileSet(), "routes.go", src, 0)
	require.NoError(t, err, string(src))
	require.Len(t, f.Imports, 1, "unused imports would not compile")
	assert.Contains(t, string(src), `blueprint.MustRegister("empty", New)`)
}

func TestGinEmitter_RejectsBadHandlers(t *testing.T) {
	tests := []struct {
		name   string
		routes []Route
	}{
		{"keyword", []Route{{Method: "GET", Path: "/", Handler: "func"}}},
		{"hyphen", []Route{{Method: "GET", Path: "/", Handler: "a-b"}}},
		{"duplicate", []Route{{Method: "GET", Path: "/a", Handler: "x"}, {Method: "GET", Path: "/b", Handler: "x"}}},
		{"clashes with constructor", []Route{{Method: "GET", Path: "/", Handler: "New"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GinEmitter{}.Emit("m", tt.routes)
			assert.Error(t, err)
		})
	}
}

func TestRoute_Kind(t *testing.T) {
	assert.Equal(t, ResponseHTML, Route{ResponseType: "html", View: "v.html"}.Kind())
	assert.Equal(t, ResponseText, Route{ResponseType: "html"}.Kind())
	assert.Equal(t, ResponseJSON, Route{ResponseType: "json"}.Kind())
	assert.Equal(t, ResponseText, Route{ResponseType: "xml"}.Kind())
	assert.Equal(t, ResponseText, Route{}.Kind())
}
