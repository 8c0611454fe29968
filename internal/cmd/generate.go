package cmd

import (
	"github.com/spf13/cobra"

	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
	"github.com/constrictor-dev/constrictor/internal/cmdutil"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/templates"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	flags := &cmdutil.GenerateFlags{}

	c := &cobra.Command{
		Use:     "generate <module-name>",
		Aliases: []string{"g"},
		Short:   "Generate a new module",
		Long: `Generate a module in modules/<module-name> from a template.

Templates are looked up by name in the configured templates.dir, then among
the built-in templates (default, minimal, api). A path to a YAML document is
also accepted. modules/modules.go is regenerated afterwards so the module is
compiled into the application.

Examples:
  # Generate with the default template
  constrictor generate billing

  # Use a built-in template and replace an existing module
  constrictor g orders -t api --force

  # Preview without writing
  constrictor generate billing --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runGenerate(c, cfg, flags, args[0])
		},
	}

	flags.AddTo(c)
	return c
}

func runGenerate(c *cobra.Command, cfg *cmdtypes.GlobalConfig, flags *cmdutil.GenerateFlags, module string) error {
	root, err := cfg.RequireProject()
	if err != nil {
		return err
	}

	if err := templates.ValidateModuleName(module); err != nil {
		return cmdutil.Fail("invalid module name", err)
	}

	ident := flags.Template
	if ident == "" {
		ident = cfg.Cfg().Templates.Default
	}
	tmpl, err := templates.Resolve(ident, cfg.TemplateSearchDirs()...)
	if err != nil {
		return cmdutil.Fail("resolving template", err)
	}

	gen := templates.NewGenerator(templates.Options{
		Root:        root,
		ModuleName:  module,
		Template:    tmpl,
		Force:       flags.Force,
		DryRun:      flags.DryRun,
		IndexIgnore: cfg.Cfg().Registrar.Ignore,
		Logger:      output.ComponentLogger("generate"),
	})
	res, err := gen.Generate()
	if err != nil {
		return cmdutil.Fail("generating module "+module, err)
	}

	cmdutil.WriteGenerateResult(c.OutOrStdout(), res)
	return nil
}
