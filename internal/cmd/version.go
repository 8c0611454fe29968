package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
	"github.com/constrictor-dev/constrictor/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show constrictor version information.

Displays:
  - constrictor version, commit, and build date
  - the go and git tools the CLI shells out to`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			info := version.Get()
			tools := []version.ToolInfo{
				version.DetectTool(c.Context(), "go", "version"),
				version.DetectTool(c.Context(), "git", "--version"),
			}
			fmt.Fprintln(c.OutOrStdout(), version.FullVersionString(info, tools...))
			return nil
		},
	}
}
