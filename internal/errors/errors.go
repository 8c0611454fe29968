// Package errors provides sentinel errors, structured error details, and
// exit-code mapping for the constrictor CLI.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// DetailError captures structured error information for user-facing output.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is a file or directory path (optional).
	Location string

	// Field locates the problem inside a document, e.g. "routes[1].path" (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Problems lists individual violations, e.g. from schema validation (optional).
	Problems []string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error renders the error as a multi-line block:
//
//	Error: <type>
//	  Location: ...
//	  Field: ...
//
//	  <message>
//	    - <problem>
//
//	Hint: ...
func (e *DetailError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", e.Type)

	attr := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "  %s: %s\n", k, v)
		}
	}
	attr("Location", e.Location)
	attr("Field", e.Field)
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attr(k, e.Context[k])
	}

	fmt.Fprintf(&b, "\n  %s\n", e.Message)
	for _, p := range e.Problems {
		fmt.Fprintf(&b, "    - %s\n", p)
	}

	if e.Hint != "" {
		fmt.Fprintf(&b, "\nHint: %s\n", e.Hint)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// NewPermissionError creates a permission denied error with details.
func NewPermissionError(message string, context map[string]string, hint string) error {
	return &DetailError{
		Type:    "permission denied",
		Message: message,
		Context: context,
		Hint:    hint,
		Cause:   ErrPermission,
	}
}

// PathError reports a filesystem failure while performing action on path.
// Permission failures become permission errors; others are wrapped as is.
func PathError(action, path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &DetailError{
			Type:     "permission denied",
			Message:  fmt.Sprintf("%s %s: %v", action, path, err),
			Location: path,
			Hint:     "check the owner and mode of the directory",
			Cause:    fmt.Errorf("%w: %w", ErrPermission, err),
		}
	}
	return fmt.Errorf("%s %s: %w", action, path, err)
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
