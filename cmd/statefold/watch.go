package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/statefold/statelog"
)

func newWatchCmd(g *globalOptions) *cobra.Command {
	var fromStart bool

	cmd := &cobra.Command{
		Use:   "watch [log]",
		Short: "Print states as a run appends them",
		Long: "Follow a state log and print every state appended to it. " +
			"Without an argument the configured output path is watched.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := g.loadConfig(cmd)
				if err != nil {
					return err
				}
				path = cfg.Output.Path
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			for state := range statelog.Follow(ctx, path, fromStart) {
				if _, err := fmt.Fprintln(out, state); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStart, "from-start", false, "print states already in the log first")
	return cmd
}
