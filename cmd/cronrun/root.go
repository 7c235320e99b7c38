package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deixis/cronrun/internal/config"
	"github.com/deixis/cronrun/internal/logging"
	"github.com/deixis/cronrun/internal/workflow"
)

const (
	FlagConfig   = "config"
	FlagLogLevel = "log-level"
)

// options holds the global flags.
type options struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "cronrun",
		Short: "Run the project program once and append its output to cron.log",
		Long: `cronrun changes into the project directory (exiting with status 1 if it cannot),
runs the interpreter with the script, and appends the program's stdout and stderr,
merged in the order they were written, to cron.log in that directory.

The program's own exit status is ignored unless propagate_exit_code is set in the
config file. Invoked with no arguments it uses the built-in defaults, which is how
cron is expected to call it.`,
		Example: `  # Crontab entry
  */30 * * * * /usr/local/bin/cronrun

  # Use a config file
  cronrun --config /etc/cronrun.yaml

  # Verify the setup without running anything
  cronrun check`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	cmd.PersistentFlags().StringVarP(&opts.configPath, FlagConfig, "c", "", "config file (default $"+config.EnvVar+", else built-in defaults)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, FlagLogLevel, "", "log level for cronrun's own stderr output (default from config, else warn)")

	cmd.AddCommand(newCheckCmd(opts), newMCPCmd(opts), newVersionCmd())
	return cmd
}

// setup loads the config and builds the logger.
func setup(opts *options) (*config.Config, *zap.Logger, error) {
	loaded, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, &usageError{err: err}
	}
	cfg := loaded.Config

	level := cfg.LogLevel()
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log, err := logging.New(level)
	if err != nil {
		return nil, nil, &usageError{err: err}
	}
	if loaded.Path != "" {
		log.Debug("loaded config", zap.String("path", loaded.Path))
	}
	return cfg, log, nil
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &usageError{err: err}
	}
	return nil
}

// signalContext is cancelled when cronrun is asked to stop. It is used by
// the check and mcp commands, never by the run itself.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runOnce(parent context.Context, opts *options) error {
	cfg, log, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Once launched the child runs to completion. A signal sent to cronrun
	// terminates cronrun alone; the child keeps appending to the log.
	if parent == nil {
		parent = context.Background()
	}
	ctx := context.WithoutCancel(parent)

	r := workflow.NewRunner(cfg, log)
	r.Stdin = os.Stdin
	_, err = (&workflow.Engine{Config: cfg, Runner: r}).Run(ctx)
	return err
}
