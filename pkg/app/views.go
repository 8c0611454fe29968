package app

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// TemplatesDir is the project-level view template root.
const TemplatesDir = "templates"

const viewPattern = "**/*.html"

// loadViews parses every HTML file under dir into one template set. Each
// template is named by its slash-separated path relative to dir, so
// "billing/index.html" and "users/index.html" do not collide. A missing dir
// yields a nil set.
func loadViews(dir string) (*template.Template, []string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("checking templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("templates path %s is not a directory", dir)
	}

	fsys := os.DirFS(dir)
	names, err := doublestar.Glob(fsys, viewPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, nil, fmt.Errorf("globbing view templates: %w", err)
	}
	if len(names) == 0 {
		return nil, nil, nil
	}

	set := template.New("")
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, nil, fmt.Errorf("reading view template %s: %w", name, err)
		}
		if _, err := set.New(name).Parse(string(data)); err != nil {
			return nil, nil, fmt.Errorf("parsing view template %s: %w", filepath.FromSlash(name), err)
		}
	}
	return set, names, nil
}
