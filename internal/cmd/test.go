package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
	"github.com/constrictor-dev/constrictor/internal/cmdutil"
	"github.com/constrictor-dev/constrictor/internal/config"
	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/templates"
	"github.com/constrictor-dev/constrictor/internal/toolrunner"
)

// NewTestCmd creates the test command.
func NewTestCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var run string

	c := &cobra.Command{
		Use:   "test [module...]",
		Short: "Run tests",
		Long: `Run tests for the whole project or for specific modules.

Without arguments every package is tested ("go test ./..."). With module
names only modules/<name>/... is tested.

Examples:
  constrictor test
  constrictor test billing orders
  constrictor test billing --run TestBillingHello`,
		RunE: func(c *cobra.Command, args []string) error {
			root, err := cfg.RequireProject()
			if err != nil {
				return err
			}
			goArgs, err := testArgs(root, args, run, cfg.Verbose)
			if err != nil {
				return cmdutil.Fail("selecting modules", err)
			}

			runner := toolrunner.NewRunner(root, output.ComponentLogger("test"))
			output.Debug("running tests", "args", goArgs)
			if err := runner.Stream(c.Context(), c.OutOrStdout(), c.ErrOrStderr(), "go", goArgs...); err != nil {
				output.Error("tests failed")
				return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err, Printed: true}
			}
			fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("All tests passed"))
			return nil
		},
	}

	c.Flags().StringVar(&run, "run", "", "Only run tests matching this regular expression")
	return c
}

// testArgs builds the go test argument list. Every module must exist.
func testArgs(root string, modules []string, run string, verbose bool) ([]string, error) {
	args := []string{"test"}
	if verbose {
		args = append(args, "-v")
	}
	if run != "" {
		args = append(args, "-run", run)
	}
	if len(modules) == 0 {
		return append(args, "./..."), nil
	}

	for _, m := range modules {
		if err := templates.ValidateModuleName(m); err != nil {
			return nil, err
		}
		dir := filepath.Join(root, config.ModulesDir, m)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return nil, oerrors.NewNotFoundError(
				fmt.Sprintf("module %q not found", m), dir,
				"run `constrictor modules` to list the project's modules")
		}
		args = append(args, "./"+config.ModulesDir+"/"+m+"/...")
	}
	return args, nil
}
