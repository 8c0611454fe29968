// Package cmd provides CLI command implementations.
package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	templatecmd "github.com/constrictor-dev/constrictor/internal/cmd/template"
	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
	"github.com/constrictor-dev/constrictor/internal/config"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/version"
)

// rootFlags holds the persistent flags.
type rootFlags struct {
	verbose    bool
	timestamps bool
	config     string
	dir        string
}

// NewRootCmd creates the root command for the constrictor CLI.
func NewRootCmd() *cobra.Command {
	cfg := &cmdtypes.GlobalConfig{}
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "constrictor",
		Short: "Microframework CLI for modular gin applications",
		Long: `Constrictor scaffolds web projects made of self-contained feature modules.

Each module lives in modules/<name> and registers its routes with the
application at startup. Use this tool to:
  - Create projects and generate modules from templates
  - Run the development server, optionally reloading on change
  - Run tests for the whole project or selected modules`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, flags, cfg)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")
	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to config file (default: <project>/constrictor.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "Run as if started in this directory")

	rootCmd.AddCommand(
		NewNewCmd(cfg),
		NewGenerateCmd(cfg),
		NewTestCmd(cfg),
		NewRunCmd(cfg),
		NewModulesCmd(cfg),
		templatecmd.NewTemplateCmd(cfg),
		NewVersionCmd(cfg),
	)

	return rootCmd
}

// initializeGlobals locates the project, loads its configuration and sets
// up logging.
func initializeGlobals(cmd *cobra.Command, flags *rootFlags, cfg *cmdtypes.GlobalConfig) error {
	start := flags.dir
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		start = wd
	}

	root, err := config.FindProjectRoot(start)
	switch {
	case errors.Is(err, config.ErrNoProject):
		root = ""
	case err != nil:
		return err
	}
	cfg.ProjectRoot = root
	cfg.Verbose = flags.verbose

	loader := config.NewLoader()
	var (
		loaded  *config.Config
		loadErr error
	)
	switch {
	case flags.config != "":
		cfg.ConfigPath = flags.config
		loaded, loadErr = loader.LoadFile(flags.config)
	case root != "":
		cfg.ConfigPath = filepath.Join(root, config.ProjectConfigFile)
		loaded, loadErr = loader.Load(root)
	default:
		loaded = &config.Config{}
	}
	if loadErr != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: loadErr}
	}
	cfg.Config = loaded.WithDefaults()

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: flags.verbose}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	} else if loaded.Log.Timestamps != nil {
		logCfg.Timestamps = loaded.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	output.Debug("constrictor started",
		"version", version.Get().Version,
		"project", cfg.ProjectRoot,
		"config", cfg.ConfigPath,
	)
	return nil
}
