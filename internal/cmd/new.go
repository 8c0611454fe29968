package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
	"github.com/constrictor-dev/constrictor/internal/cmdutil"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/project"
	"github.com/constrictor-dev/constrictor/internal/version"
)

type newOptions struct {
	modulePath string
	parent     string
	skipGit    bool
	skipDeps   bool
}

// NewNewCmd creates the new command.
func NewNewCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	opts := &newOptions{}

	c := &cobra.Command{
		Use:   "new <project-name>",
		Short: "Create a new project",
		Long: `Create a new constrictor project.

The project directory contains app.go, go.mod, constrictor.yaml and an empty
modules/ directory ready for "constrictor generate". Dependencies are
installed with "go mod tidy" and a git repository is initialized. If any
step fails the project directory is removed.

Examples:
  # Create a project named shop
  constrictor new shop

  # Use a full module path
  constrictor new shop --module-path github.com/acme/shop`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runNew(c, args[0], opts)
		},
	}

	c.Flags().StringVar(&opts.modulePath, "module-path", "", "Go module path (default: project name)")
	c.Flags().StringVar(&opts.parent, "parent", ".", "Directory to create the project in")
	c.Flags().BoolVar(&opts.skipGit, "skip-git", false, "Do not initialize a git repository")
	c.Flags().BoolVar(&opts.skipDeps, "skip-deps", false, "Do not run go mod tidy")

	return c
}

func runNew(c *cobra.Command, name string, opts *newOptions) error {
	res, err := project.Create(c.Context(), project.Options{
		Name:             name,
		Parent:           opts.parent,
		ModulePath:       opts.modulePath,
		FrameworkVersion: version.FrameworkVersion(),
		SkipGit:          opts.skipGit,
		SkipDeps:         opts.skipDeps,
		Logger:           output.ComponentLogger("new"),
	})
	if err != nil {
		return cmdutil.Fail(fmt.Sprintf("creating project %s", name), err)
	}

	w := c.OutOrStdout()
	fmt.Fprint(w, output.RenderFileTree(filepath.Base(res.Root), res.Files))
	fmt.Fprintln(w, output.FormatStatusLine("dependencies", stepStatus(res.DepsInstalled), 16))
	fmt.Fprintln(w, output.FormatStatusLine("git repository", stepStatus(res.GitInitialized), 16))
	fmt.Fprintln(w, output.FormatCheckmark(fmt.Sprintf("Project %s created successfully", output.StyleNoun.Render(name))))
	if opts.skipDeps {
		fmt.Fprintln(w, output.StyleMuted.Render("Run `go mod tidy` before starting the server."))
	}
	return nil
}

func stepStatus(done bool) string {
	if done {
		return output.StatusDone
	}
	return output.StatusSkipped
}
