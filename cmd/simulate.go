package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/valuescore/internal/simulate"
)

//nolint:gochecknoglobals // Cobra boilerplate
var simCfg simulate.Config

//nolint:gochecknoglobals // Cobra boilerplate
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Submit generated questionnaires to a running server and verify the scores",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, _, err := bootstrap(cmd.Context(), os.Stderr); err != nil {
			return err
		}
		stats, err := simulate.Run(cmd.Context(), simCfg)
		fmt.Fprintf(cmd.OutOrStdout(), "submitted=%d persisted=%d mismatches=%d score=[%d,%d] duration=%s\n",
			stats.Submitted, stats.Persisted, stats.Mismatches, stats.MinScore, stats.MaxScore, stats.Duration)
		return err
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	simulateCmd.Flags().StringVar(&simCfg.BaseURL, "target", "http://localhost:9080", "base URL of the server")
	simulateCmd.Flags().IntVarP(&simCfg.Submissions, "count", "n", 10, "number of questionnaires to submit")
	simulateCmd.Flags().DurationVar(&simCfg.Timeout, "timeout", 10*time.Second, "HTTP request timeout")
	simulateCmd.Flags().BoolVarP(&simCfg.Verbose, "verbose", "v", false, "log every submission")
	rootCmd.AddCommand(simulateCmd)
}
