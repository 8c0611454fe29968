package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadModulePath(t *testing.T) {
	root := newProject(t)
	mp, err := ReadModulePath(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", mp)

	_, err = ReadModulePath(t.TempDir())
	assert.Error(t, err)

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "go.mod"), []byte("go 1.25\n"), 0o644))
	_, err = ReadModulePath(bad)
	assert.ErrorContains(t, err, "no module directive")
}

func TestWriteModulesIndex_ListsModulesWithRoutes(t *testing.T) {
	root := newProject(t)
	for _, m := range []string{"users", "billing", "drafts"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "modules", m), 0o755))
	}
	for _, m := range []string{"users", "billing"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, "modules", m, "routes.go"), []byte("package "+m+"\n"), 0o644))
	}

	imports, err := WriteModulesIndex(root, "example.com/shop")
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/shop/modules/billing", "example.com/shop/modules/users"}, imports)

	src := readFile(t, filepath.Join(root, "modules", IndexFile))
	assert.Contains(t, src, "package modules")
	assert.Contains(t, src, `_ "example.com/shop/modules/billing"`)
	assert.Contains(t, src, `_ "example.com/shop/modules/users"`)
	assert.NotContains(t, src, "drafts")
}

func TestWriteModulesIndex_Ignore(t *testing.T) {
	root := newProject(t)
	for _, m := range []string{"billing", "legacy", "_scratch", ".cache"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "modules", m), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "modules", m, "routes.go"), []byte("package x\n"), 0o644))
	}

	imports, err := WriteModulesIndex(root, "example.com/shop", "legacy")
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/shop/modules/billing"}, imports)

	src := readFile(t, filepath.Join(root, "modules", IndexFile))
	assert.NotContains(t, src, "legacy")
	assert.NotContains(t, src, "_scratch")
	assert.NotContains(t, src, ".cache")
}

func TestRenderModulesIndex_Empty(t *testing.T) {
	src, err := RenderModulesIndex(nil)
	require.NoError(t, err)
	assert.Contains(t, string(src), "package modules")
	assert.NotContains(t, string(src), "import")
}

func TestWriteModulesIndex_NoModulesDir(t *testing.T) {
	root := newProject(t)
	imports, err := WriteModulesIndex(root, "example.com/shop")
	require.NoError(t, err)
	assert.Empty(t, imports)
	assert.FileExists(t, filepath.Join(root, "modules", IndexFile))
}
