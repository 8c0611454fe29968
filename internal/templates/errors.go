package templates

import (
	"fmt"
	"strings"

	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
)

// TemplateNotFoundError is returned when a template identifier resolves to
// neither a built-in template nor a readable document.
type TemplateNotFoundError struct {
	Name     string
	Searched []string
}

// Error implements the error interface.
func (e *TemplateNotFoundError) Error() string {
	msg := fmt.Sprintf("template %q not found", e.Name)
	if len(e.Searched) > 0 {
		msg += " (searched: " + strings.Join(e.Searched, ", ") + ")"
	}
	return msg
}

// Is reports ErrNotFound so the CLI maps this error to its exit code.
func (e *TemplateNotFoundError) Is(target error) bool {
	return target == oerrors.ErrNotFound
}

// TemplateParseError is returned for malformed template documents and for
// placeholders or route entries that cannot be rendered.
type TemplateParseError struct {
	// Template is the template name or path.
	Template string

	// Field locates the problem inside the document, e.g. "routes[1].function".
	Field string

	// Problems lists individual schema violations, when there are several.
	Problems []string

	Err error
}

// Error implements the error interface.
func (e *TemplateParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid template %q", e.Template)
	if e.Field != "" {
		fmt.Fprintf(&b, " at %s", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	for _, p := range e.Problems {
		b.WriteString("\n  ")
		b.WriteString(p)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *TemplateParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidation so the CLI maps this error to its exit code.
func (e *TemplateParseError) Is(target error) bool {
	return target == oerrors.ErrValidation
}
