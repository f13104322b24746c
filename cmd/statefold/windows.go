package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/statefold/config"
	"github.com/randalmurphal/statefold/tokens"
	"github.com/randalmurphal/statefold/window"
)

func newWindowsCmd(g *globalOptions) *cobra.Command {
	var size, overlap int

	cmd := &cobra.Command{
		Use:   "windows",
		Short: "Show how the document would be windowed, without calling a model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("size") {
				cfg.Window.Size = size
			}
			if cmd.Flags().Changed("overlap") {
				cfg.Window.Overlap = overlap
			}

			data, err := afero.ReadFile(g.fs, cfg.Inputs.Document)
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			words := window.Words(string(data))

			plan, err := window.Plan(words, cfg.Window.Size, cfg.Window.Overlap)
			if err != nil {
				return err
			}
			dropped, err := window.Dropped(len(words), cfg.Window.Size, cfg.Window.Overlap)
			if err != nil {
				return err
			}

			counter := planCounter(cfg)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tSTART\tWORDS\tTOKENS\tPREVIEW")
			for _, w := range plan {
				fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\n", w.Index, w.Start, w.Words, counter.Count(w.Text), preview(w.Text, 40))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "\n%d windows, %d words, %d trailing words dropped\n",
				len(plan), len(words), dropped)
			return err
		},
	}

	cmd.Flags().IntVar(&size, "size", 0, "words per window")
	cmd.Flags().IntVar(&overlap, "overlap", 0, "words shared by consecutive windows")
	return cmd
}

func planCounter(cfg *config.Config) tokens.Counter {
	if cfg.Budget.Counter == config.CounterTiktoken {
		model := cfg.Provider.Model
		if model == "" {
			model = config.DefaultModel
		}
		return tokens.NewTiktokenCounter(model)
	}
	return tokens.NewEstimatingCounter()
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
