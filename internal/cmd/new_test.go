package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/constrictor-dev/constrictor/internal/config"
	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
)

func TestNewCmd(t *testing.T) {
	parent := t.TempDir()

	out, err := execute(t, "new", "shop", "--parent", parent, "--skip-git", "--skip-deps",
		"--module-path", "example.com/shop")
	require.NoError(t, err)

	root := filepath.Join(parent, "shop")
	assert.True(t, config.IsProjectRoot(root))
	assert.Contains(t, out, "Project shop created successfully")
	assert.Contains(t, out, "go mod tidy")
	assert.Contains(t, out, "constrictor.yaml")
	assert.Contains(t, out, "templates/")
	assert.Regexp(t, `dependencies\s+skipped`, out)
	assert.Regexp(t, `git repository\s+skipped`, out)
}

func TestNewCmd_Errors(t *testing.T) {
	parent := t.TempDir()

	_, err := execute(t, "new", "9lives", "--parent", parent, "--skip-git", "--skip-deps")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))

	_, err = execute(t, "new")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
