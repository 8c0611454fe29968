// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and its sub-packages (internal/cmd/template).
package cmdtypes

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/constrictor-dev/constrictor/internal/config"
	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// Config is the project configuration with defaults applied. It is never
	// nil after PersistentPreRunE.
	Config *config.Config

	// ProjectRoot is the enclosing project directory, or "" outside a project.
	ProjectRoot string

	// ConfigPath is the constrictor.yaml that was read, if any.
	ConfigPath string

	Verbose bool
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess         = oerrors.ExitSuccess
	ExitGeneralError    = oerrors.ExitGeneralError
	ExitValidationError = oerrors.ExitValidationError
	ExitNotFound        = oerrors.ExitNotFound
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError

// Cfg returns the project configuration, falling back to defaults.
func (g *GlobalConfig) Cfg() *config.Config {
	if g == nil || g.Config == nil {
		return config.DefaultConfig()
	}
	return g.Config
}

// RequireProject returns the project root or a not-found ExitError when the
// command runs outside a project.
func (g *GlobalConfig) RequireProject() (string, error) {
	if g != nil && g.ProjectRoot != "" {
		return g.ProjectRoot, nil
	}
	wd, _ := os.Getwd()
	err := oerrors.NewNotFoundError(
		"this doesn't look like a constrictor project",
		wd,
		fmt.Sprintf("run the command from a directory containing %s and %s/",
			config.AppFile, config.ModulesDir))
	return "", &ExitError{Code: ExitNotFound, Err: err}
}

// TemplateSearchDirs returns the directories searched for custom template
// documents: the configured templates.dir (relative to the project root).
func (g *GlobalConfig) TemplateSearchDirs() []string {
	dir := g.Cfg().Templates.Dir
	if dir == "" {
		return nil
	}
	if expanded, err := config.ExpandPath(dir); err == nil {
		dir = expanded
	}
	if !filepath.IsAbs(dir) && g != nil && g.ProjectRoot != "" {
		dir = filepath.Join(g.ProjectRoot, dir)
	}
	return []string{dir}
}
