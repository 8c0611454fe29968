package templates

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
)

// newProject creates a temp project root with a go.mod.
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/shop\n\ngo 1.25\n"), 0o644))
	return root
}

// loadDoc writes a YAML document to a temp file and loads it.
func loadDoc(t *testing.T, doc string) *Template {
	t.Helper()
	p := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(p, []byte(doc), 0o644))
	tmpl, err := LoadFile(p)
	require.NoError(t, err)
	return tmpl
}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{})
}

func generate(t *testing.T, opts Options) (*Result, error) {
	t.Helper()
	opts.Logger = quietLogger()
	return NewGenerator(opts).Generate()
}

// handlerFuncs parses generated Go source and returns the declared function
// names other than init and New.
func handlerFuncs(t *testing.T, src []byte) map[string]*ast.FuncDecl {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "routes.go", src, parser.ParseComments)
	require.NoError(t, err, "generated routes must be valid Go:\n%s", src)

	out := make(map[string]*ast.FuncDecl)
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name == "init" || fn.Name.Name == "New" {
			continue
		}
		out[fn.Name.Name] = fn
	}
	return out
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerate_GreetingRoute(t *testing.T) {
	root := newProject(t)
	tmpl := loadDoc(t, `
routes:
  - path: "/{{module_name}}/"
    function: index
    response_type: text
`)

	res, err := generate(t, Options{Root: root, ModuleName: "billing", Template: tmpl})
	require.NoError(t, err)

	src := readFile(t, filepath.Join(root, "modules", "billing", "routes.go"))
	assert.Contains(t, src, "package billing")
	assert.Contains(t, src, `blueprint.MustRegister("billing", New)`)
	assert.Contains(t, src, `bp.Handle("GET", "/billing/", index)`)
	assert.Contains(t, src, `c.String(http.StatusOK, "Hello from billing module!")`)
	assert.Len(t, handlerFuncs(t, []byte(src)), 1)
	assert.Equal(t, "modules/billing", filepath.ToSlash(res.ModuleDir))
}

func TestGenerate_MarkerDirectories(t *testing.T) {
	root := newProject(t)
	tmpl := loadDoc(t, `
structure:
  directories: ["tests", "views", "models"]
`)

	_, err := generate(t, Options{Root: root, ModuleName: "billing", Template: tmpl})
	require.NoError(t, err)

	moduleDir := filepath.Join(root, "modules", "billing")
	entries, err := os.ReadDir(moduleDir)
	require.NoError(t, err)

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	assert.Equal(t, []string{"models", "tests", "views"}, dirs)

	for _, d := range dirs {
		marker := readFile(t, filepath.Join(moduleDir, d, MarkerFile))
		assert.Contains(t, marker, "package "+d)
		assert.Contains(t, marker, "billing")
	}
	assert.FileExists(t, filepath.Join(moduleDir, "routes.go"), "every module gets a routes file")
}

func TestGenerate_DirectoryMarkerOverride(t *testing.T) {
	root := newProject(t)
	tmpl := loadDoc(t, `
structure:
  directories:
    - static
    - name: handlers
      package: true
    - name: models
      package: false
`)

	_, err := generate(t, Options{Root: root, ModuleName: "billing", Template: tmpl})
	require.NoError(t, err)

	moduleDir := filepath.Join(root, "modules", "billing")
	assert.DirExists(t, filepath.Join(moduleDir, "static"))
	assert.NoFileExists(t, filepath.Join(moduleDir, "static", MarkerFile))
	assert.FileExists(t, filepath.Join(moduleDir, "handlers", MarkerFile))
	assert.NoFileExists(t, filepath.Join(moduleDir, "models", MarkerFile))
}

func TestGenerate_HandlerPerRoute(t *testing.T) {
	tests := []struct {
		name   string
		routes string
		count  int
	}{
		{"none", "routes: []", 0},
		{"one", "routes:\n  - {path: \"/{{module_name}}/\", function: index}", 1},
		{"three mixed", `routes:
  - {path: "/{{module_name}}/", function: index, response_type: html, template: "{{module_name}}/index.html"}
  - {path: "/{{module_name}}/api/", function: api, response_type: json}
  - {path: "/{{module_name}}/items", function: create, method: post}`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newProject(t)
			_, err := generate(t, Options{Root: root, ModuleName: "inventory", Template: loadDoc(t, tt.routes)})
			require.NoError(t, err)

			src := readFile(t, filepath.Join(root, "modules", "inventory", "routes.go"))
			handlers := handlerFuncs(t, []byte(src))
			assert.Len(t, handlers, tt.count)

			for name, fn := range handlers {
				body := src[fn.Body.Pos()-1 : fn.Body.End()-1]
				assert.Contains(t, body, "inventory", "handler %s must mention the module", name)
			}
		})
	}
}

func TestGenerate_ResponseShapes(t *testing.T) {
	root := newProject(t)
	tmpl := loadDoc(t, `
routes:
  - {path: "/{{module_name}}/", function: index, response_type: html, template: "{{module_name}}/index.html"}
  - {path: "/{{module_name}}/api/", function: api, response_type: json}
  - {path: "/{{module_name}}/x", function: fallback, response_type: html}
  - {path: "/{{module_name}}/items", function: create, method: post}
`)

	_, err := generate(t, Options{Root: root, ModuleName: "billing", Template: tmpl})
	require.NoError(t, err)

	src := readFile(t, filepath.Join(root, "modules", "billing", "routes.go"))
	assert.Contains(t, src, `c.HTML(http.StatusOK, "billing/index.html", gin.H{"module_name": "billing"})`)
	assert.Contains(t, src, `c.JSON(http.StatusOK, gin.H{"module": "billing", "status": "active"})`)
	assert.Contains(t, src, `bp.Handle("POST", "/billing/items", create)`)
	assert.Equal(t, 2, strings.Count(src, `c.String(http.StatusOK, "Hello from billing module!")`),
		"html without a view falls back to the greeting")
}

func TestGenerate_DefaultTemplate(t *testing.T) {
	root := newProject(t)

	res, err := generate(t, Options{Root: root, ModuleName: "billing"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplateName, res.Template)

	moduleDir := filepath.Join(root, "modules", "billing")
	assert.FileExists(t, filepath.Join(moduleDir, "routes.go"))
	assert.FileExists(t, filepath.Join(moduleDir, "README.md"))
	assert.FileExists(t, filepath.Join(moduleDir, "models", "billing.go"))
	assert.FileExists(t, filepath.Join(root, "templates", "billing", "index.html"))

	model := readFile(t, filepath.Join(moduleDir, "models", "billing.go"))
	assert.Contains(t, model, "type Billing struct")

	test := readFile(t, filepath.Join(moduleDir, "tests", "billing_test.go"))
	assert.Contains(t, test, `"example.com/shop/modules/billing"`)
	assert.Contains(t, test, "func TestBillingHello")

	view := readFile(t, filepath.Join(root, "templates", "billing", "index.html"))
	assert.Contains(t, view, "<h1>Billing Module</h1>")

	assert.True(t, res.IndexWritten)
	assert.Equal(t, []string{"example.com/shop/modules/billing"}, res.Index)
	assert.Contains(t, res.Tree(), "modules/modules.go")
}

func TestGenerate_BuiltinsProduceValidRoutes(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			tmpl, err := Resolve(name)
			require.NoError(t, err)

			res, err := NewGenerator(Options{
				Root:       newProject(t),
				ModuleName: "orders",
				Template:   tmpl,
				DryRun:     true,
				Logger:     quietLogger(),
			}).Generate()
			require.NoError(t, err)

			for _, f := range res.Files {
				if filepath.Ext(f.Path) != ".go" {
					continue
				}
				_, err := parser.ParseFile(token.NewFileSet(), f.Path, f.Content, 0)
				assert.NoError(t, err, "%s must be valid Go", f.Path)
			}
		})
	}
}

func TestGenerate_ExistingModule(t *testing.T) {
	root := newProject(t)
	tmpl := loadDoc(t, "routes:\n  - {path: \"/{{module_name}}/\", function: index}\n")

	_, err := generate(t, Options{Root: root, ModuleName: "billing", Template: tmpl})
	require.NoError(t, err)

	stale := filepath.Join(root, "modules", "billing", "stale.go")
	require.NoError(t, os.WriteFile(stale, []byte("package billing\n"), 0o644))

	_, err = generate(t, Options{Root: root, ModuleName: "billing", Template: tmpl})
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.FileExists(t, stale, "refused generation leaves the module alone")

	res, err := generate(t, Options{Root: root, ModuleName: "billing", Template: tmpl, Force: true})
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(root, "modules", "billing", "routes.go"))
}

func TestGenerate_DryRunWritesNothing(t *testing.T) {
	root := newProject(t)

	res, err := generate(t, Options{Root: root, ModuleName: "billing", DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.NotEmpty(t, res.Files)
	assert.False(t, res.IndexWritten)

	assert.NoDirExists(t, filepath.Join(root, "modules"))
	assert.NoDirExists(t, filepath.Join(root, "templates"))
}

func TestGenerate_TemplateErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name: "missing file reference",
			doc: `
structure:
  directories: [models]
  files:
    - {name: models/x.go, template: files/missing.tmpl}
routes:
  - {path: /x, function: index}`,
			field: "structure.files[0].template",
		},
		{
			name:  "duplicate handler",
			doc:   "routes:\n  - {path: /a, function: index}\n  - {path: /b, function: index}\n",
			field: "routes",
		},
		{
			name:  "invalid handler name",
			doc:   "routes:\n  - {path: /a, function: get-items}\n",
			field: "routes",
		},
		{
			name:  "route path without slash",
			doc:   "routes:\n  - {path: \"{{module_name}}\", function: index}\n",
			field: "routes[0].path",
		},
		{
			name:  "escaping test name",
			doc:   "tests:\n  - {name: ../../evil.go, content: x}\n",
			field: "tests[0].name",
		},
		{
			name:  "escaping view path",
			doc:   "templates:\n  - {path: /etc/passwd, content: x}\n",
			field: "templates[0].path",
		},
		{
			name:  "bad placeholder",
			doc:   "templates:\n  - {path: a.html, content: \"{{ nope }}\"}\n",
			field: "templates[0].content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newProject(t)
			_, err := generate(t, Options{Root: root, ModuleName: "billing", Template: loadDoc(t, tt.doc)})

			var parseErr *TemplateParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.field, parseErr.Field)
			assert.ErrorIs(t, err, oerrors.ErrValidation)

			assert.NoDirExists(t, filepath.Join(root, "modules"))
			assert.NoDirExists(t, filepath.Join(root, "templates"))
		})
	}
}

func TestGenerate_WriteFailureRollsBack(t *testing.T) {
	root := newProject(t)
	// A file where the views directory should be makes the templates step fail.
	require.NoError(t, os.WriteFile(filepath.Join(root, "templates"), []byte("x"), 0o644))

	_, err := generate(t, Options{Root: root, ModuleName: "billing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "templates step")

	assert.NoDirExists(t, filepath.Join(root, "modules", "billing"))
	assert.NoDirExists(t, filepath.Join(root, "modules"))
	assert.FileExists(t, filepath.Join(root, "templates"), "pre-existing paths are left alone")
}

func TestGenerate_ForceFailureRestoresModule(t *testing.T) {
	root := newProject(t)
	tmpl := loadDoc(t, "routes:\n  - {path: \"/{{module_name}}/\", function: index}\n")

	_, err := generate(t, Options{Root: root, ModuleName: "billing", Template: tmpl})
	require.NoError(t, err)
	routes := filepath.Join(root, "modules", "billing", "routes.go")
	before := readFile(t, routes)
	custom := filepath.Join(root, "modules", "billing", "service.go")
	require.NoError(t, os.WriteFile(custom, []byte("package billing\n"), 0o644))

	// The default template writes views, which a file at templates/ blocks.
	require.NoError(t, os.WriteFile(filepath.Join(root, "templates"), []byte("x"), 0o644))

	_, err = generate(t, Options{Root: root, ModuleName: "billing", Force: true})
	require.Error(t, err)

	assert.Equal(t, before, readFile(t, routes))
	assert.FileExists(t, custom)
	assert.NoDirExists(t, filepath.Join(root, "modules", ".billing.previous"))
}

func TestGenerate_ForceRemovesPreviousCopy(t *testing.T) {
	root := newProject(t)
	tmpl := loadDoc(t, "routes:\n  - {path: \"/{{module_name}}/\", function: index}\n")

	_, err := generate(t, Options{Root: root, ModuleName: "billing", Template: tmpl})
	require.NoError(t, err)
	_, err = generate(t, Options{Root: root, ModuleName: "billing", Template: tmpl, Force: true})
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(root, "modules", ".billing.previous"))
	assert.NotContains(t, readFile(t, filepath.Join(root, "modules", IndexFile)), ".billing")
}

func TestGenerate_WriteFailureRestoresOverwrittenViews(t *testing.T) {
	root := newProject(t)
	existing := filepath.Join(root, "templates", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0o755))
	require.NoError(t, os.WriteFile(existing, []byte("<p>keep</p>"), 0o644))
	// A file where the second view's directory belongs fails the templates step.
	require.NoError(t, os.WriteFile(filepath.Join(root, "templates", "billing"), []byte("x"), 0o644))

	tmpl := loadDoc(t, `
routes:
  - {path: /x, function: index}
templates:
  - {path: index.html, content: "<p>new</p>"}
  - {path: "{{module_name}}/page.html", content: "<p>page</p>"}
`)
	_, err := generate(t, Options{Root: root, ModuleName: "billing", Template: tmpl})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "templates step")

	assert.Equal(t, "<p>keep</p>", readFile(t, existing))
	assert.NoDirExists(t, filepath.Join(root, "modules", "billing"))
}

func TestGenerate_InvalidModuleName(t *testing.T) {
	root := newProject(t)
	_, err := generate(t, Options{Root: root, ModuleName: "Bad-Name"})
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.NoDirExists(t, filepath.Join(root, "modules"))
}

func TestGenerate_ProjectModuleFallback(t *testing.T) {
	root := filepath.Join(t.TempDir(), "plainproj")
	require.NoError(t, os.MkdirAll(root, 0o755))

	res, err := generate(t, Options{Root: root, ModuleName: "billing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"plainproj/modules/billing"}, res.Index)
}

func TestGenerate_DoesNotMutateDocument(t *testing.T) {
	tmpl, err := Resolve("default")
	require.NoError(t, err)
	before := tmpl.Doc.Routes[0].Path

	_, err = generate(t, Options{Root: newProject(t), ModuleName: "billing", Template: tmpl})
	require.NoError(t, err)
	assert.Equal(t, before, tmpl.Doc.Routes[0].Path)
	assert.Equal(t, "/{{module_name}}/", before)
}
