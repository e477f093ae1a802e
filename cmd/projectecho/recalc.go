package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	recalcDate string
	recalcAll  bool
)

var recalcCmd = &cobra.Command{
	Use:   "recalc",
	Short: "Recompute entry durations for a day or for every day",
	Args:  cobra.NoArgs,
	RunE:  runRecalc,
}

func init() {
	recalcCmd.Flags().StringVar(&recalcDate, "date", "", "day to recalculate (YYYY-MM-DD)")
	recalcCmd.Flags().BoolVar(&recalcAll, "all", false, "recalculate every day with entries")
}

func runRecalc(cmd *cobra.Command, args []string) error {
	if recalcAll == (recalcDate != "") {
		return errors.New("use exactly one of --date or --all")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if recalcAll {
		days, err := a.svc.entries.RecalculateAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "recalculated %d day(s)\n", days)
		return nil
	}

	day, err := a.dateFlag(recalcDate)
	if err != nil {
		return err
	}
	if err := a.svc.entries.Recalculate(cmd.Context(), day); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "recalculated %s\n", day)
	return nil
}
