package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the questionnaire categories with their numbers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := bootstrap(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, c := range cfg.Categories {
			fmt.Fprintf(out, "%2d  %s\n", i+1, c)
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(categoriesCmd)
}
