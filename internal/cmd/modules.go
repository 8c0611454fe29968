package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
	"github.com/constrictor-dev/constrictor/internal/cmdutil"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/templates"
	"github.com/constrictor-dev/constrictor/pkg/blueprint"
)

// NewModulesCmd creates the modules command.
func NewModulesCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var syncIndex bool

	c := &cobra.Command{
		Use:   "modules",
		Short: "List the project's modules",
		Long: `List the module directories under modules/ in load order.

A module is loaded at startup only if it has a routes.go file; the others
are skipped with a warning. Directories matching registrar.ignore in
constrictor.yaml are not listed.

With --sync, modules/modules.go is rewritten to import exactly the modules
that have a routes.go file.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			root, err := cfg.RequireProject()
			if err != nil {
				return err
			}
			return runModules(c, cfg, root, syncIndex)
		},
	}

	c.Flags().BoolVar(&syncIndex, "sync", false, "Regenerate modules/modules.go")
	return c
}

func runModules(c *cobra.Command, cfg *cmdtypes.GlobalConfig, root string, syncIndex bool) error {
	w := c.OutOrStdout()

	candidates, err := blueprint.Discover(filepath.Join(root, blueprint.ModulesDir),
		blueprint.WithIgnore(cfg.Cfg().Registrar.Ignore...),
		blueprint.WithLogger(output.ComponentLogger("modules")))
	if err != nil && !errors.Is(err, blueprint.ErrModulesDirMissing) {
		return cmdutil.Fail("listing modules", err)
	}

	if len(candidates) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render("No modules found. Create one with `constrictor generate <name>`."))
	} else {
		rows := make([]output.ModuleRow, 0, len(candidates))
		for _, cand := range candidates {
			status := output.StatusLoaded
			if !cand.HasRoutes {
				status = output.StatusSkipped
			}
			rows = append(rows, output.ModuleRow{Name: cand.Name, Routes: cand.HasRoutes, Status: status})
		}
		fmt.Fprintln(w, output.RenderModuleTable(rows))
	}

	if !syncIndex {
		return nil
	}
	projectModule, err := templates.ReadModulePath(root)
	if err != nil {
		return cmdutil.Fail("reading project module path", err)
	}
	imports, err := templates.WriteModulesIndex(root, projectModule, cfg.Cfg().Registrar.Ignore...)
	if err != nil {
		return cmdutil.Fail("writing module index", err)
	}
	fmt.Fprintln(w, output.FormatCheckmark(fmt.Sprintf("Wrote %s with %d module(s)",
		filepath.ToSlash(filepath.Join(blueprint.ModulesDir, templates.IndexFile)), len(imports))))
	return nil
}
