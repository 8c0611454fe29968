package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates invalid user input: a bad module or project name,
	// a malformed template document, or a project layout that fails checks.
	ErrValidation = errors.New("validation error")

	// ErrPermission indicates insufficient filesystem permissions.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a template, module, or file was not found.
	ErrNotFound = errors.New("not found")
)
