// Package template provides the `constrictor template` command group.
package template

import (
	"github.com/spf13/cobra"

	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
)

// NewTemplateCmd creates the template command group.
func NewTemplateCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect and validate module templates",
		Long: `Commands for listing, showing, comparing and validating the YAML
documents "constrictor generate" builds modules from.

A template is named either by a built-in name, by a name found in the
configured templates.dir, or by a path to a .yml/.yaml file.`,
	}

	cmd.AddCommand(
		NewListCmd(cfg),
		NewShowCmd(cfg),
		NewDiffCmd(cfg),
		NewVetCmd(cfg),
	)

	return cmd
}
