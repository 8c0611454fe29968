package templates

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/mod/modfile"

	"github.com/constrictor-dev/constrictor/pkg/blueprint"
)

// IndexFile is the generated file that links module packages into the
// application binary.
const IndexFile = "modules.go"

var indexTemplate = template.Must(template.New(IndexFile).Parse(`// Code generated by constrictor. DO NOT EDIT.

// Package modules links every feature module into the application so that
// their init functions register blueprints.
package modules
{{if .}}
import (
{{- range .}}
	_ "{{.}}"
{{- end}}
)
{{end}}`))

// ReadModulePath returns the module path declared in root/go.mod.
func ReadModulePath(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("reading go.mod: %w", err)
	}
	mp := modfile.ModulePath(data)
	if mp == "" {
		return "", fmt.Errorf("go.mod in %s has no module directive", root)
	}
	return mp, nil
}

// RenderModulesIndex returns modules/modules.go for the given package
// import paths.
func RenderModulesIndex(imports []string) ([]byte, error) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, imports); err != nil {
		return nil, err
	}
	return format.Source(buf.Bytes())
}

// IndexImports lists the import paths of every module under root/modules
// that has a routes file, in lexical order. Directories matching an ignore
// pattern are left out, as are names the go tool skips (leading "." or "_").
func IndexImports(root, projectModule string, ignore ...string) ([]string, error) {
	candidates, err := blueprint.Discover(filepath.Join(root, blueprint.ModulesDir),
		blueprint.WithIgnore(ignore...))
	if errors.Is(err, blueprint.ErrModulesDirMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var imports []string
	for _, c := range candidates {
		if c.HasRoutes && !strings.HasPrefix(c.Name, ".") && !strings.HasPrefix(c.Name, "_") {
			imports = append(imports, path.Join(projectModule, blueprint.ModulesDir, c.Name))
		}
	}
	return imports, nil
}

// WriteModulesIndex regenerates root/modules/modules.go and returns the
// listed import paths. ignore takes the registrar's ignore patterns.
func WriteModulesIndex(root, projectModule string, ignore ...string) ([]string, error) {
	imports, err := IndexImports(root, projectModule, ignore...)
	if err != nil {
		return nil, err
	}
	src, err := RenderModulesIndex(imports)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", IndexFile, err)
	}

	dir := filepath.Join(root, blueprint.ModulesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, IndexFile), src, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", IndexFile, err)
	}
	return imports, nil
}
