package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/constrictor-dev/constrictor/internal/cmdtypes"
	"github.com/constrictor-dev/constrictor/internal/cmdutil"
	"github.com/constrictor-dev/constrictor/internal/config"
	oerrors "github.com/constrictor-dev/constrictor/internal/errors"
	"github.com/constrictor-dev/constrictor/internal/output"
	"github.com/constrictor-dev/constrictor/internal/toolrunner"
	"github.com/constrictor-dev/constrictor/internal/watcher"
	"github.com/constrictor-dev/constrictor/pkg/app"
)

// stopGrace is how long a server gets to shut down before it is killed.
const stopGrace = 5 * time.Second

// NewRunCmd creates the run command.
func NewRunCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	flags := &cmdutil.ServerFlags{}

	c := &cobra.Command{
		Use:   "run",
		Short: "Run the application",
		Long: `Run the application in the current project with "go run .".

The command checks that it is started inside a constrictor project (app.go
and modules/ present). Host, port and debug mode resolve from flags, then
CONSTRICTOR_RUN_* environment variables, then constrictor.yaml.

With --reload the server is restarted whenever a .go, .html or .yml file
changes. Paths matching run.reload.ignore are not watched.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runRun(c, cfg, flags)
		},
	}

	flags.AddTo(c)
	return c
}

func runRun(c *cobra.Command, cfg *cmdtypes.GlobalConfig, flags *cmdutil.ServerFlags) error {
	root, err := cfg.RequireProject()
	if err != nil {
		return err
	}
	if err := toolrunner.LookPath("go"); err != nil {
		return cmdutil.Fail("cannot run the application", oerrors.NewNotFoundError(
			err.Error(), "", "install Go from https://go.dev/dl/"))
	}

	settings := config.ResolveRun(flags.RunFlags(c), cfg.Cfg())
	config.LogResolvedValues(output.Logger(), settings.Host, settings.Port, settings.Debug)

	env, err := serverEnv(settings)
	if err != nil {
		return cmdutil.Fail("invalid server settings", err)
	}

	logger := output.ComponentLogger("run")
	runner := toolrunner.NewRunner(root, logger).WithEnv(env...)
	stdout, stderr := c.OutOrStdout(), c.ErrOrStderr()

	ctx := c.Context()

	output.Info(fmt.Sprintf("starting server on http://%s:%s", settings.Host.Value, settings.Port.Value))

	if !flags.Reload {
		if err := runner.Stream(ctx, stdout, stderr, "go", "run", "."); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return cmdutil.Fail("server exited", err)
		}
		return nil
	}

	reload := cfg.Cfg().Run.Reload
	w, err := watcher.New(watcher.Config{
		Root:     root,
		Ignore:   reload.Ignore,
		Debounce: reload.Debounce,
		Logger:   logger,
	})
	if err != nil {
		return cmdutil.Fail("starting file watcher", err)
	}
	defer w.Close()

	start := func() (watcher.Process, error) {
		p, err := runner.Start(stdout, stderr, "go", "run", ".")
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	if err := w.Supervise(ctx, start, stopGrace); err != nil {
		return cmdutil.Fail("reload loop stopped", err)
	}
	return nil
}

// serverEnv validates the resolved settings and turns them into the
// environment the application reads through app.ConfigFromEnv.
func serverEnv(s config.RunSettings) ([]string, error) {
	port, err := strconv.Atoi(s.Port.Value)
	if err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("port %q is not a number", s.Port.Value),
			string(s.Port.Source), "port", "use a port between 1 and 65535")
	}
	debug, err := strconv.ParseBool(s.Debug.Value)
	if err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("debug %q is not a boolean", s.Debug.Value),
			string(s.Debug.Source), "debug", "use true or false")
	}

	appCfg := app.Config{Host: s.Host.Value, Port: port, Debug: debug}
	if err := appCfg.Validate(); err != nil {
		return nil, oerrors.NewValidationError(err.Error(), string(s.Port.Source), "port",
			"use a port between 1 and 65535")
	}

	return []string{
		app.EnvHost + "=" + appCfg.Host,
		app.EnvPort + "=" + strconv.Itoa(appCfg.Port),
		app.EnvDebug + "=" + strconv.FormatBool(appCfg.Debug),
	}, nil
}
