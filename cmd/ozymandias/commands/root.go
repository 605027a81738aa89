package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ozymandias/internal/app"
	"ozymandias/internal/apperr"
	"ozymandias/internal/config"
	"ozymandias/internal/logging"
)

// rootOptions carries the global flags and the state built from them.
type rootOptions struct {
	verbose    int
	quiet      int
	logLevel   string
	logFormat  string
	home       string
	configPath string

	settings *config.Config
	logger   *zap.Logger
}

// Execute runs the CLI against the process streams.
func Execute() error {
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background())
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "ozymandias",
		Short:         "Personal knowledge-management CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.CountVarP(&opts.verbose, "verbose", "v", "more log output (repeatable)")
	pf.CountVarP(&opts.quiet, "quiet", "q", "less log output (repeatable)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides -v/-q)")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: console, text, json")
	pf.StringVar(&opts.home, "home", "", "knowledge-base directory (default $OZY_HOME or ~/.ozymandias)")
	pf.StringVar(&opts.configPath, "config", "", "config file (default <home>/config.yaml)")

	root.AddCommand(
		initCmd(opts),
		ingestCmd(opts),
		showCmd(opts),
		listCmd(opts),
		relatedCmd(opts),
		removeCmd(opts),
		categoriesCmd(opts),
		watchCmd(opts),
		versionCmd(),
	)
	return root
}

// setup resolves paths, loads settings and builds the logger. Flags take
// precedence over the environment and config file.
func (o *rootOptions) setup(stderr io.Writer) error {
	if o.home == "" {
		home, err := app.DefaultHome()
		if err != nil {
			return err
		}
		o.home = home
	}
	if o.configPath == "" {
		o.configPath = config.Path(o.home)
	}

	formatName := o.logFormat
	if formatName == "" {
		formatName = os.Getenv("OZY_LOG_FORMAT")
	}
	// A bad flag is reported before the config file is read.
	if _, err := logging.ParseFormat(formatName); err != nil {
		return err
	}
	if o.logLevel != "" {
		if _, err := logging.ParseLevel(o.logLevel); err != nil {
			return err
		}
	}

	settings, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	o.settings = settings

	if o.logFormat == "" {
		formatName = settings.Logging.Format
	}
	format, err := logging.ParseFormat(formatName)
	if err != nil {
		return err
	}
	base, err := logging.ParseLevel(settings.Logging.Level)
	if err != nil {
		return err
	}
	level, err := logging.ResolveLevel(base, o.verbose, o.quiet, o.logLevel)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: level, Format: format, Output: stderr})
	if err != nil {
		return err
	}
	o.logger = logger
	return nil
}

func (o *rootOptions) appConfig() app.Config {
	return app.Config{
		Home:       o.home,
		ConfigPath: o.configPath,
		Settings:   o.settings,
		Logger:     o.logger,
	}
}

// withWire opens the application graph, runs fn and closes the store.
func (o *rootOptions) withWire(cmd *cobra.Command, fn func(w *app.Wire) error) (err error) {
	w, err := app.NewWire(cmd.Context(), o.appConfig())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = apperr.NewStorageError("close", cerr)
		}
	}()
	return fn(w)
}
