package template

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
	"github.com/constrictor-dev/constrictor/internal/cmdutil"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/templates"
)

// vetOptions holds the flags for the vet command.
type vetOptions struct {
	module        string
	projectModule string
}

// NewVetCmd creates the template vet command.
func NewVetCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	opts := &vetOptions{}

	c := &cobra.Command{
		Use:   "vet <template>",
		Short: "Validate a template document",
		Long: `Validate a template document against the template schema, then render it
for a sample module without writing anything. Placeholder, route and
handler problems are reported the same way "generate" would report them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runVet(c, cfg, opts, args[0])
		},
	}

	c.Flags().StringVar(&opts.module, "module", "sample", "Module name used for the trial render")
	c.Flags().StringVar(&opts.projectModule, "project-module", "example.com/app", "Project module path used for the trial render")

	return c
}

func runVet(c *cobra.Command, cfg *cmdtypes.GlobalConfig, opts *vetOptions, ident string) error {
	tmpl, err := templates.Resolve(ident, cfg.TemplateSearchDirs()...)
	if err != nil {
		return cmdutil.Fail("resolving template", err)
	}

	scratch, err := os.MkdirTemp("", "constrictor-vet-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratch)

	res, err := templates.NewGenerator(templates.Options{
		Root:          scratch,
		ModuleName:    opts.module,
		Template:      tmpl,
		ProjectModule: opts.projectModule,
		DryRun:        true,
		Logger:        output.ComponentLogger("vet"),
	}).Plan()
	if err != nil {
		return cmdutil.Fail(fmt.Sprintf("template %s is invalid", tmpl.Name), err)
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark(fmt.Sprintf("Template %s is valid (%s)",
		output.StyleNoun.Render(tmpl.Name), summary(res))))
	return nil
}

func summary(res *templates.Result) string {
	counts := make(map[templates.Step]int)
	for _, f := range res.Files {
		counts[f.Step]++
	}
	return fmt.Sprintf("%d files: %d structure, %d routes, %d templates, %d tests",
		len(res.Files),
		counts[templates.StepStructure],
		counts[templates.StepRoutes],
		counts[templates.StepTemplates],
		counts[templates.StepTests])
}
