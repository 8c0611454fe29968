package templates

import (
	"fmt"
	"go/token"
	"go/types"
	"regexp"

	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
)

// Name limits.
const (
	MaxModuleNameLength  = 50
	MaxProjectNameLength = 100
)

var (
	moduleNameRegex  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	projectNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
)

// reservedModuleNames collide with the project layout or the Go toolchain.
var reservedModuleNames = map[string]bool{
	"modules":   true,
	"templates": true,
	"internal":  true,
	"main":      true,
	"app":       true,
	"tests":     true,
	"vendor":    true,
	"testdata":  true,
}

// ValidateModuleName checks that name can be both a directory under
// modules/ and a Go package name.
func ValidateModuleName(name string) error {
	const hint = "use lowercase letters, digits and underscores, starting with a letter (e.g. billing, user_profiles)"

	switch {
	case name == "":
		return oerrors.NewValidationError("module name cannot be empty", "", "module", hint)
	case len(name) > MaxModuleNameLength:
		return oerrors.NewValidationError(
			fmt.Sprintf("module name %q is longer than %d characters", name, MaxModuleNameLength),
			"", "module", hint)
	case !moduleNameRegex.MatchString(name):
		return oerrors.NewValidationError(
			fmt.Sprintf("invalid module name %q", name), "", "module", hint)
	case token.IsKeyword(name) || types.Universe.Lookup(name) != nil:
		return oerrors.NewValidationError(
			fmt.Sprintf("module name %q is a Go keyword or predeclared identifier", name),
			"", "module", "choose a different name")
	case reservedModuleNames[name]:
		return oerrors.NewValidationError(
			fmt.Sprintf("module name %q is reserved", name), "", "module", "choose a different name")
	}
	return nil
}

// ValidateProjectName checks a project directory name for `constrictor new`.
func ValidateProjectName(name string) error {
	const hint = "use letters, digits, hyphens and underscores, starting with a letter"

	switch {
	case name == "":
		return oerrors.NewValidationError("project name cannot be empty", "", "project", hint)
	case len(name) > MaxProjectNameLength:
		return oerrors.NewValidationError(
			fmt.Sprintf("project name %q is longer than %d characters", name, MaxProjectNameLength),
			"", "project", hint)
	case !projectNameRegex.MatchString(name):
		return oerrors.NewValidationError(
			fmt.Sprintf("invalid project name %q", name), "", "project", hint)
	}
	return nil
}

// reservedHandlerNames are declared or imported by every generated routes.go.
var reservedHandlerNames = map[string]bool{
	"New":       true,
	"init":      true,
	"_":         true,
	"http":      true,
	"gin":       true,
	"blueprint": true,
}

// validateHandlerName checks a route's function name.
func validateHandlerName(name string) error {
	switch {
	case !token.IsIdentifier(name):
		return fmt.Errorf("%q is not a valid Go identifier", name)
	case reservedHandlerNames[name]:
		return fmt.Errorf("%q is reserved in generated route files", name)
	case types.Universe.Lookup(name) != nil:
		return fmt.Errorf("%q shadows a predeclared identifier", name)
	}
	return nil
}
