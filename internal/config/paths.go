package config

import (
	"errors"
	"os"
	"path/filepath"
)

// ProjectConfigFile is the per-project configuration file name.
const ProjectConfigFile = "constrictor.yaml"

// Project layout names.
const (
	AppFile      = "app.go"
	ModulesDir   = "modules"
	TemplatesDir = "templates"
	GoModFile    = "go.mod"
)

// ErrNoProject is returned when no project root is found.
var ErrNoProject = errors.New("not inside a constrictor project")

// IsProjectRoot reports whether dir contains app.go and a modules directory.
func IsProjectRoot(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, AppFile)); err != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, ModulesDir))
	return err == nil && info.IsDir()
}

// FindProjectRoot walks up from start until it finds a project root.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		if IsProjectRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProject
		}
		dir = parent
	}
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// ~username is not supported
	return path, nil
}
