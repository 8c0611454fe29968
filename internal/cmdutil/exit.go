package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/templates"
)

// ErrStream is where multi-line error details are written.
var ErrStream io.Writer = os.Stderr

// Fail reports err under msg and returns an ExitError marked as printed,
// with the exit code derived from err's sentinel.
func Fail(msg string, err error) error {
	PrintError(msg, err)
	return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
}

// PrintError prints an error in a user-friendly format. Structured details
// are printed verbatim; other errors go through the logger.
func PrintError(msg string, err error) {
	if detail := toDetail(err); detail != nil {
		output.Error(msg)
		fmt.Fprint(ErrStream, detail.Error())
		return
	}
	output.Error(msg, "error", err)
}

func toDetail(err error) *oerrors.DetailError {
	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		return detail
	}

	var parseErr *templates.TemplateParseError
	if errors.As(err, &parseErr) {
		d := &oerrors.DetailError{
			Type:     "invalid template",
			Message:  fmt.Sprintf("template %q cannot be used", parseErr.Template),
			Field:    parseErr.Field,
			Problems: parseErr.Problems,
			Hint:     "check the document with `constrictor template vet " + parseErr.Template + "`",
			Cause:    err,
		}
		if parseErr.Err != nil {
			d.Message = parseErr.Err.Error()
		}
		return d
	}
	return nil
}
