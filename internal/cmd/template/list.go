package template

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/templates"
)

// NewListCmd creates the template list command.
func NewListCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available templates",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			def := cfg.Cfg().Templates.Default

			t := output.NewTable("NAME", "SOURCE", "DESCRIPTION")
			for _, info := range templates.List(cfg.TemplateSearchDirs()...) {
				name := info.Name
				if name == def {
					name += " *"
				}
				t.Row(output.StyleNoun.Render(name), info.Source, info.Description)
			}
			fmt.Fprintln(c.OutOrStdout(), t.String())
			fmt.Fprintln(c.OutOrStdout(), output.StyleMuted.Render("* default template"))
			return nil
		},
	}
}
