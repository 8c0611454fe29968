// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// NewProject creates a minimal project (go.mod, app.go, modules/) in a
// temporary directory and returns its root.
func NewProject(t *testing.T, modulePath string) string {
	t.Helper()
	root := t.TempDir()
	WriteFile(t, root, "go.mod", fmt.Sprintf("module %s\n\ngo 1.25\n", modulePath))
	WriteFile(t, root, "app.go", "package main\n\nfunc main() {}\n")
	if err := os.MkdirAll(filepath.Join(root, "modules"), 0o755); err != nil {
		t.Fatalf("failed to create modules dir: %v", err)
	}
	return root
}

// AddModule creates modules/<name> under root. With routes, a routes.go
// registering the module is written too.
func AddModule(t *testing.T, root, name string, routes bool) string {
	t.Helper()
	dir := filepath.Join(root, "modules", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create module %s: %v", name, err)
	}
	if routes {
		WriteFile(t, dir, "routes.go", fmt.Sprintf(`package %[1]s

import "github.com/constrictor-dev/constrictor/pkg/blueprint"

func init() {
	blueprint.MustRegister(%[1]q, New)
}

func New() (*blueprint.Blueprint, error) {
	return blueprint.New(%[1]q, blueprint.WithPrefix("/%[1]s")), nil
}
`, name))
	}
	return dir
}

// Chdir changes the working directory for the duration of the test.
func Chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Logf("warning: failed to restore working directory %s: %v", wd, err)
		}
	})
}
