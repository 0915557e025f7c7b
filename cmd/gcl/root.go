package main

import (
	"github.com/benbjohnson/gcl/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Main holds state shared by every subcommand.
type Main struct {
	ConfigPath string
	Verbose    bool
	FuncName   string
	Strategy   string
	Color      string // auto, always or never

	Config config.Config
	Logger *zap.Logger
}

// NewRootCommand returns the gcl command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	m := &Main{Logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "gcl",
		Short: "gcl - path conditions for Go functions",
		Long: `gcl lowers acyclic Go functions to guarded-command programs and builds
their path conditions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return m.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = m.Logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&m.ConfigPath, "config", "", "Path to the configuration file (default "+config.DefaultPath+")")
	flags.BoolVarP(&m.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVarP(&m.FuncName, "func", "f", "", "Name of the function to lower")
	flags.StringVar(&m.Color, "color", "auto", "Colorize output: auto, always or never")

	root.AddCommand(newPrintCommand(m))
	root.AddCommand(newEvalCommand(m))
	root.AddCommand(newSolveCommand(m))
	return root
}

// init loads the configuration and builds the logger.
func (m *Main) init(cmd *cobra.Command) error {
	var err error
	if m.ConfigPath != "" {
		m.Config, err = config.Load(m.ConfigPath)
	} else {
		m.Config, err = config.LoadDefault()
	}
	if err != nil {
		return errors.Wrap(err, "config")
	}

	if m.Strategy != "" {
		m.Config.Strategy = m.Strategy
	}
	if err := m.Config.Validate(); err != nil {
		return err
	}

	level, err := m.Config.Log.ZapLevel()
	if err != nil {
		return err
	} else if m.Verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	logger, err := zc.Build()
	if err != nil {
		return errors.Wrap(err, "logger")
	}
	m.Logger = logger
	return nil
}
