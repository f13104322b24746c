package main

import (
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/statefold/config"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	fs         afero.Fs
	configPath string
	envFiles   []string
	logLevel   string
	logJSON    bool
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	opts := &globalOptions{fs: fs}

	root := &cobra.Command{
		Use:           "statefold",
		Short:         "Fold a long document into an evolving LLM-maintained state",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(opts.envFiles...)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (.yaml, .toml, .json or .jsonc)")
	pf.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "env files loaded before reading the environment")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&opts.logJSON, "log-json", false, "log as JSON lines")

	root.AddCommand(
		newRunCmd(opts),
		newWindowsCmd(opts),
		newWatchCmd(opts),
		newSchemaCmd(),
	)
	return root
}

// loadConfig reads the configured file and applies the global log flags.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.fs, o.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = o.logJSON
	}
	return cfg, nil
}

// newLogger builds a slog logger on a charm handler writing to w.
func newLogger(w io.Writer, cfg config.Log) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           charmLevel(level),
	})
	if cfg.JSON {
		handler.SetFormatter(charmlog.JSONFormatter)
	} else {
		handler.SetFormatter(charmlog.TextFormatter)
	}
	return slog.New(handler), nil
}

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level <= slog.LevelInfo:
		return charmlog.InfoLevel
	case level <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}
