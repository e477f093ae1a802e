package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var advanceDate string

var advanceCmd = &cobra.Command{
	Use:   "advance",
	Short: "Create todos from due recurring templates",
	Long: `advance runs the recurrence advancer once for the given day (default
today), ignoring the configured check time.`,
	Args: cobra.NoArgs,
	RunE: runAdvance,
}

func init() {
	advanceCmd.Flags().StringVar(&advanceDate, "date", "", "day to treat as today (YYYY-MM-DD)")
}

func runAdvance(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	today, err := a.dateFlag(advanceDate)
	if err != nil {
		return err
	}
	created, err := a.svc.recurring.Advance(cmd.Context(), today)
	if err != nil {
		return fmt.Errorf("advance after %d created: %w", created, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d todo(s) created for %s\n", created, today)
	return nil
}
