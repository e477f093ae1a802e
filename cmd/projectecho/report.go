package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"project-echo/internal/service"
)

var (
	reportDate string
	reportOut  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a PDF report of one day's entries and project totals",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "day to report (YYYY-MM-DD, default today)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output file (default journal_<date>.pdf)")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	day, err := a.dateFlag(reportDate)
	if err != nil {
		return err
	}
	name := reportOut
	if name == "" {
		name = service.ReportFilename(day)
	}
	if err := writeFile(name, func(f *os.File) error {
		return a.svc.reports.DayReport(cmd.Context(), day, f)
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", name)
	return nil
}
