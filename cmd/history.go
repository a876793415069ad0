package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/valuescore/internal/app"
)

//nolint:gochecknoglobals // Cobra boilerplate
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or edit the history log",
}

//nolint:gochecknoglobals // Cobra boilerplate
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List history entries with per-category deltas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg, log, err := bootstrap(ctx, os.Stderr)
		if err != nil {
			return err
		}
		session, closeStore, err := openSession(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeStore()

		session.ToggleHistoryView(ctx)
		printHistory(cmd.OutOrStdout(), session, cfg.UnitLabel)
		return nil
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var historyDeleteCmd = &cobra.Command{
	Use:   "delete INDEX",
	Short: "Delete the entry at INDEX as shown by 'history list'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("index %q is not an integer: %w", args[0], err)
		}

		ctx := cmd.Context()
		cfg, log, err := bootstrap(ctx, os.Stderr)
		if err != nil {
			return err
		}
		session, closeStore, err := openSession(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeStore()

		session.ToggleHistoryView(ctx)
		out := cmd.OutOrStdout()
		if !session.DeleteEntry(ctx, index) {
			fmt.Fprintf(out, "no entry at index %d\n", index)
			return nil
		}
		fmt.Fprintf(out, "deleted entry %d\n", index)
		return nil
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	historyCmd.AddCommand(historyListCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func printHistory(w io.Writer, session *app.Session, unit string) {
	entries := session.History()
	if len(entries) == 0 {
		fmt.Fprintln(w, "no history")
		return
	}
	order := session.Categories()
	for i, e := range entries {
		fmt.Fprintf(w, "[%d] Date: %s\n", i, e.Date)
		for _, d := range e.Deltas(order, unit) {
			fmt.Fprintf(w, "    %s:   %s\n", d.Category, d.Display)
		}
		fmt.Fprintf(w, "    Total Score: %d\n", e.TotalScore)
	}
}

