package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/valuescore/internal/domain/model"
)

// ErrInvalidRateFlag is returned for a --rate value not of the form N=I:M.
var ErrInvalidRateFlag = errors.New("invalid --rate value")

// rateArg is one parsed --rate N=I:M flag.
type rateArg struct {
	Number     int
	Importance int
	Match      int
}

//nolint:gochecknoglobals // Cobra boilerplate
var rateFlags []string

//nolint:gochecknoglobals // Cobra boilerplate
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Rate categories and submit the questionnaire",
	Long: `Rate categories and submit the questionnaire. Categories not named by a
--rate flag keep the default rating of 1 for both importance and match.

  valuescore submit --rate 1=9:4 --rate 3=7:7`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	submitCmd.Flags().StringArrayVar(&rateFlags, "rate", nil, "category rating as N=IMPORTANCE:MATCH, N is the number shown by 'categories'")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}

	rates := make([]rateArg, 0, len(rateFlags))
	for _, raw := range rateFlags {
		r, err := parseRate(raw)
		if err != nil {
			return err
		}
		rates = append(rates, r)
	}

	session, closeStore, err := openSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	categories := session.Categories()
	for _, r := range rates {
		if r.Number < 1 || r.Number > len(categories) {
			return fmt.Errorf("%w: category %d not in [1,%d]", ErrInvalidRateFlag, r.Number, len(categories))
		}
		c := categories[r.Number-1]
		if err := session.SetRating(ctx, c, model.FieldImportance, r.Importance); err != nil {
			return err
		}
		if err := session.SetRating(ctx, c, model.FieldMatch, r.Match); err != nil {
			return err
		}
	}

	receipt := session.Submit(ctx)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, receipt.Message)
	if !receipt.Persisted {
		fmt.Fprintln(out, "(not persisted)")
	}
	return nil
}

// parseRate parses N=I:M.
func parseRate(raw string) (rateArg, error) {
	num, pair, ok := strings.Cut(raw, "=")
	if !ok {
		return rateArg{}, fmt.Errorf("%w: %q: expected N=IMPORTANCE:MATCH", ErrInvalidRateFlag, raw)
	}
	imp, match, ok := strings.Cut(pair, ":")
	if !ok {
		return rateArg{}, fmt.Errorf("%w: %q: expected N=IMPORTANCE:MATCH", ErrInvalidRateFlag, raw)
	}
	var r rateArg
	var err error
	if r.Number, err = strconv.Atoi(strings.TrimSpace(num)); err != nil {
		return rateArg{}, fmt.Errorf("%w: %q: category number: %w", ErrInvalidRateFlag, raw, err)
	}
	if r.Importance, err = strconv.Atoi(strings.TrimSpace(imp)); err != nil {
		return rateArg{}, fmt.Errorf("%w: %q: importance: %w", ErrInvalidRateFlag, raw, err)
	}
	if r.Match, err = strconv.Atoi(strings.TrimSpace(match)); err != nil {
		return rateArg{}, fmt.Errorf("%w: %q: match: %w", ErrInvalidRateFlag, raw, err)
	}
	return r, nil
}
