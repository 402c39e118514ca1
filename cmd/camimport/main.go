// Command camimport loads CAM budget amounts from a society spreadsheet
// into the budget_master table. By default it runs dry: it prints every
// accepted (serial, amount) pair and the total without touching the
// database. Pass --apply to write the amounts.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pbv-society/societyhub/internal/spreadsheet"
	"github.com/pbv-society/societyhub/internal/storage/sqlite"
	"github.com/pbv-society/societyhub/pkg/logging"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var (
		dbPath     string
		fiscalYear string
		apply      bool
	)

	cmd := &cobra.Command{
		Use:   "camimport <workbook.xlsx>",
		Short: "Import CAM budget amounts from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup()
			return importRun(cmd.Context(), args[0], dbPath, fiscalYear, apply)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "societyhub.db", "path to the SQLite database")
	cmd.Flags().StringVar(&fiscalYear, "fiscal-year", "2025-26", "fiscal year to update")
	cmd.Flags().BoolVar(&apply, "apply", false, "write the amounts instead of a dry run")
	return cmd
}

func importRun(ctx context.Context, workbookPath, dbPath, fiscalYear string, apply bool) error {
	f, err := os.Open(workbookPath)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	result, err := spreadsheet.ParseWorkbook(f)
	if err != nil {
		return fmt.Errorf("failed to parse workbook: %w", err)
	}

	for _, u := range result.Updates {
		fmt.Printf("serial %3d  monthly %12s\n", u.SerialNo, u.Amount.StringFixed(2))
	}
	fmt.Printf("accepted %d rows, total %s\n", len(result.Updates), result.Total.StringFixed(2))

	if !apply {
		slog.Info("Dry run, no changes written (pass --apply to write)")
		return nil
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	var applied, missed int
	for _, u := range result.Updates {
		amount, _ := u.Amount.Float64()
		n, err := store.UpdateMonthlyBudget(ctx, fiscalYear, u.SerialNo, amount)
		if err != nil {
			return fmt.Errorf("failed to update serial %d: %w", u.SerialNo, err)
		}
		if n == 0 {
			slog.Warn("No budget line for serial", "serial", u.SerialNo, "fiscal_year", fiscalYear)
			missed++
			continue
		}
		applied++
	}
	slog.Info("Import complete", "applied", applied, "missed", missed, "fiscal_year", fiscalYear)
	return nil
}
