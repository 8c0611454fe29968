package blueprint

import (
	"errors"
	"fmt"
)

var (
	// ErrModulesDirMissing is recorded when <root>/modules does not exist.
	ErrModulesDirMissing = errors.New("modules directory not found")

	// ErrModulesNotDir is recorded when <root>/modules is not a directory.
	ErrModulesNotDir = errors.New("modules path is not a directory")

	// ErrNilBlueprint is returned for a factory that produced no blueprint.
	ErrNilBlueprint = errors.New("factory returned a nil blueprint")
)

// ModuleLoadError reports a module whose blueprint could not be built or
// registered.
type ModuleLoadError struct {
	Module string
	Err    error
}

// Error implements the error interface.
func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("loading module %q: %v", e.Module, e.Err)
}

// Unwrap returns the underlying error.
func (e *ModuleLoadError) Unwrap() error {
	return e.Err
}
