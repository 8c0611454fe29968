package cmdutil

import (
	"fmt"
	"io"

	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/templates"
)

// WriteGenerateResult prints the project-relative file tree of a generation
// followed by a summary line.
func WriteGenerateResult(w io.Writer, res *templates.Result) {
	fmt.Fprint(w, output.RenderFileTree(".", res.Tree()))

	verb := "Created"
	switch {
	case res.DryRun:
		verb = "Would create"
	case res.Replaced:
		verb = "Replaced"
	}
	fmt.Fprintln(w, output.FormatCheckmark(fmt.Sprintf("%s module %s from template %s",
		verb, output.StyleNoun.Render(res.Module), output.StyleNoun.Render(res.Template))))
}
