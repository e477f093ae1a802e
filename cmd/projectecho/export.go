package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"project-echo/internal/service"
)

var (
	exportFrom string
	exportTo   string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write entries and finished todos in a date range to a zip of CSV files",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first day (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last day (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default project_echo_export_<from>_to_<to>.zip)")
	_ = exportCmd.MarkFlagRequired("from")
	_ = exportCmd.MarkFlagRequired("to")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	from, err := a.dateFlag(exportFrom)
	if err != nil {
		return err
	}
	to, err := a.dateFlag(exportTo)
	if err != nil {
		return err
	}
	name := exportOut
	if name == "" {
		name = service.ExportFilename(from, to)
	}

	if err := writeFile(name, func(f *os.File) error {
		return a.svc.export.Export(cmd.Context(), from, to, f)
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", name)
	return nil
}

// writeFile creates name, runs write and removes the file again on failure.
func writeFile(name string, write func(f *os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}
