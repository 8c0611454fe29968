package template

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
	"github.com/constrictor-dev/constrictor/internal/cmdutil"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/templates"
)

// NewDiffCmd creates the template diff command.
func NewDiffCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Compare two template documents",
		Long: `Show a structural YAML diff between two template documents.

Typical use is comparing a customized template against the built-in it was
copied from. The command exits 1 when the documents differ.

Examples:
  constrictor template diff default ./templates/default.yml`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			dirs := cfg.TemplateSearchDirs()
			from, err := templates.Resolve(args[0], dirs...)
			if err != nil {
				return cmdutil.Fail("resolving template", err)
			}
			to, err := templates.Resolve(args[1], dirs...)
			if err != nil {
				return cmdutil.Fail("resolving template", err)
			}

			diff, err := output.DiffYAML(label(from), from.Raw, label(to), to.Raw, output.IsTTY())
			if err != nil {
				return cmdutil.Fail("comparing templates", err)
			}
			if diff == "" {
				fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("No differences"))
				return nil
			}

			fmt.Fprintln(c.OutOrStdout(), diff)
			return &cmdtypes.ExitError{
				Code:    cmdtypes.ExitGeneralError,
				Err:     fmt.Errorf("templates %s and %s differ", from.Name, to.Name),
				Printed: true,
			}
		},
	}
}

func label(t *templates.Template) string {
	if t.Path != "" {
		return t.Path
	}
	return t.Name + " (" + t.Source + ")"
}
