package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constrictor-dev/constrictor/internal/config"
)

func TestNewProject(t *testing.T) {
	root := NewProject(t, "example.com/shop")
	assert.True(t, config.IsProjectRoot(root))

	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "module example.com/shop")
}

func TestAddModule(t *testing.T) {
	root := NewProject(t, "example.com/shop")

	withRoutes := AddModule(t, root, "billing", true)
	assert.FileExists(t, filepath.Join(withRoutes, "routes.go"))

	bare := AddModule(t, root, "drafts", false)
	assert.DirExists(t, bare)
	assert.NoFileExists(t, filepath.Join(bare, "routes.go"))
}
