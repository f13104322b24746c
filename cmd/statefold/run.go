package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/statefold/config"
	"github.com/randalmurphal/statefold/fold"
	"github.com/randalmurphal/statefold/input"
	"github.com/randalmurphal/statefold/prompt"
	"github.com/randalmurphal/statefold/provider"
	"github.com/randalmurphal/statefold/statelog"
	"github.com/randalmurphal/statefold/tokens"
	"github.com/randalmurphal/statefold/window"
)

type runOptions struct {
	size        int
	overlap     int
	output      string
	overwrite   bool
	provider    string
	model       string
	seedFromLog bool
	jsonOut     bool
}

func newRunCmd(g *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fold the document into the state log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			res, err := runFold(ctx, g.fs, cfg, logger)
			if res != nil {
				if perr := printResult(cmd.OutOrStdout(), res, cfg, opts.jsonOut); perr != nil && err == nil {
					err = perr
				}
			}
			return err
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.size, "size", 0, "words per window")
	f.IntVar(&opts.overlap, "overlap", 0, "words shared by consecutive windows")
	f.StringVarP(&opts.output, "output", "o", "", "state log path")
	f.BoolVar(&opts.overwrite, "overwrite", false, "truncate the state log on the first write")
	f.StringVar(&opts.provider, "provider", "", "completion provider (openai, mock)")
	f.StringVar(&opts.model, "model", "", "model name")
	f.BoolVar(&opts.seedFromLog, "seed-from-log", false, "start from the last state in the log")
	f.BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	return cmd
}

// apply copies explicitly set flags over the loaded config.
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("size") {
		cfg.Window.Size = o.size
	}
	if f.Changed("overlap") {
		cfg.Window.Overlap = o.overlap
	}
	if f.Changed("output") {
		cfg.Output.Path = o.output
	}
	if f.Changed("overwrite") {
		cfg.Output.Overwrite = o.overwrite
	}
	if f.Changed("provider") {
		cfg.Provider = cfg.Provider.WithProvider(o.provider)
	}
	if f.Changed("model") {
		cfg.Provider = cfg.Provider.WithModel(o.model)
	}
	if f.Changed("seed-from-log") {
		cfg.Output.SeedFromLog = o.seedFromLog
	}
}

// runFold loads inputs, windows the document and folds it into the log.
func runFold(ctx context.Context, fs afero.Fs, cfg *config.Config, logger *slog.Logger) (*fold.Result, error) {
	in, err := input.Load(fs, cfg.Inputs)
	if err != nil {
		return nil, err
	}

	initial, err := initialState(fs, cfg, in, logger)
	if err != nil {
		return nil, err
	}

	words := window.Words(in.Document)
	windows, err := window.Split(words, cfg.Window.Size, cfg.Window.Overlap)
	if err != nil {
		return nil, err
	}
	if dropped, _ := window.Dropped(len(words), cfg.Window.Size, cfg.Window.Overlap); dropped > 0 {
		logger.Warn("trailing words dropped",
			slog.Int("dropped", dropped),
			slog.Int("words", len(words)))
	}

	builder, err := newBuilder(fs, cfg, in)
	if err != nil {
		return nil, err
	}

	client, err := provider.FromConfig(cfg.Provider)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	opts := []fold.Option{
		fold.WithLogger(logger),
		fold.WithGeneration(cfg.Generation),
		fold.WithSink(statelog.NewFileSink(fs, cfg.Output.Path, statelog.WithOverwrite(cfg.Output.Overwrite))),
	}
	if budget := cfg.TokenBudget(); budget != nil {
		opts = append(opts, fold.WithBudget(budget, cfg.Budget.Mode))
	}

	return fold.New(client, builder, opts...).Run(ctx, windows, initial)
}

// initialState picks the seed state: the log's last line when asked and
// available, the initial state file otherwise.
func initialState(fs afero.Fs, cfg *config.Config, in *input.Inputs, logger *slog.Logger) (string, error) {
	if !cfg.Output.SeedFromLog {
		return in.InitialState, nil
	}

	last, err := statelog.LastState(fs, cfg.Output.Path)
	if err == nil {
		logger.Info("seeding from state log", slog.String("path", cfg.Output.Path))
		return last, nil
	}
	if exists, _ := afero.Exists(fs, cfg.Output.Path); exists && !errors.Is(err, statelog.ErrEmptyLog) {
		return "", err
	}
	logger.Warn("state log has no state to seed from, using initial state",
		slog.String("path", cfg.Output.Path))
	return in.InitialState, nil
}

func newBuilder(fs afero.Fs, cfg *config.Config, in *input.Inputs) (*prompt.Builder, error) {
	var opts []prompt.Option
	if cfg.LayoutFile != "" {
		data, err := afero.ReadFile(fs, cfg.LayoutFile)
		if err != nil {
			return nil, fmt.Errorf("read layout %s: %w", cfg.LayoutFile, err)
		}
		opts = append(opts, prompt.WithLayout(string(data)))
	}
	return prompt.NewBuilder(in.Instructions, in.Example, opts...)
}

func printResult(w io.Writer, res *fold.Result, cfg *config.Config, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if _, err := fmt.Fprintf(w, "windows: %d\ntokens:  %d\nphase:   %s\nlog:     %s\n",
		res.Windows, res.Tokens, res.Phase, cfg.Output.Path); err != nil {
		return err
	}
	if cfg.Provider.Provider == "mock" {
		return nil
	}
	if cost, ok := tokens.EstimateCost(cfg.Provider.Model, res.Usage.InputTokens, res.Usage.OutputTokens); ok {
		_, err := fmt.Fprintf(w, "cost:    ~$%.4f\n", cost)
		return err
	}
	return nil
}
