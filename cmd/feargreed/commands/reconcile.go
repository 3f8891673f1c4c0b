package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Close ledger rows against arrived ground truth",
	Long: `Scans the trailing lookback window for weekdays whose ground truth
has arrived and whose ledger row is missing or still open, rescores
them as of that day, and closes the rows.

Example:
  go run ./cmd/feargreed reconcile`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fear/Greed: Ledger Reconciliation ===")

	a, err := initApp()
	if err != nil {
		return err
	}

	reconciled, err := a.pipeline.RunReconcile(cmd.Context(), time.Now())
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	fmt.Printf("\nClosed %d rows (lookback %d days)\n", reconciled, a.factors.Reconcile.LookbackDays)
	return nil
}
