// Package cmdutil provides shared command utilities: flag groups, error
// reporting, and output helpers used by the command packages.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/constrictor-dev/constrictor/internal/config"
)

// ServerFlags holds the development server flags (run).
type ServerFlags struct {
	Host   string
	Port   int
	Debug  bool
	Reload bool
}

// AddTo registers the server flags on the given cobra command.
func (f *ServerFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Host, "host", "",
		"Interface to bind (env: CONSTRICTOR_RUN_HOST, default: "+config.DefaultHost+")")
	cmd.Flags().IntVarP(&f.Port, "port", "p", 0,
		"Port to listen on (env: CONSTRICTOR_RUN_PORT, default: 5000)")
	cmd.Flags().BoolVar(&f.Debug, "debug", false,
		"Enable debug mode (env: CONSTRICTOR_RUN_DEBUG)")
	cmd.Flags().BoolVar(&f.Reload, "reload", false,
		"Restart the server when source files change")
}

// RunFlags converts the parsed flags for config.ResolveRun, recording which
// were set explicitly.
func (f *ServerFlags) RunFlags(cmd *cobra.Command) config.RunFlags {
	return config.RunFlags{
		Host:     f.Host,
		HostSet:  cmd.Flags().Changed("host"),
		Port:     f.Port,
		PortSet:  cmd.Flags().Changed("port"),
		Debug:    f.Debug,
		DebugSet: cmd.Flags().Changed("debug"),
	}
}

// GenerateFlags holds the module generation flags (generate, template vet).
type GenerateFlags struct {
	Template string
	Force    bool
	DryRun   bool
}

// AddTo registers the generation flags on the given cobra command.
func (f *GenerateFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Template, "template", "t", "",
		"Template name or path to a template document (default: from config)")
	cmd.Flags().BoolVarP(&f.Force, "force", "f", false,
		"Replace the module if it already exists")
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false,
		"Show what would be generated without writing anything")
}
