package commands

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/quantlab/feargreed/internal/contracts"
	"github.com/quantlab/feargreed/internal/ledger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the scoring ledger",
	Long: `Prints a summary of the CSV ledger: row counts, the most recent
rows, and the running prediction error over closed rows.

Example:
  go run ./cmd/feargreed status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fear/Greed: Ledger Status ===")

	a, err := initApp()
	if err != nil {
		return err
	}

	rows, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	closed := 0
	for _, r := range rows {
		if r.Closed() {
			closed++
		}
	}

	fmt.Printf("\nLedger: %s\n", a.cfg.LedgerPath)
	fmt.Printf("Rows: %d total, %d closed, %d open\n", len(rows), closed, len(rows)-closed)

	if len(rows) == 0 {
		return nil
	}

	if closed > 0 {
		var sumAbs float64
		for _, r := range rows {
			if r.Closed() {
				sumAbs += math.Abs(*r.Bias)
			}
		}
		fmt.Printf("Mean absolute bias: %.2f over %d closed rows\n", sumAbs/float64(closed), closed)
	}

	if last, ok := ledger.LastClosed(rows); ok {
		fmt.Printf("Last closed: %s  predicted %.2f  actual %.2f  bias %+.2f\n",
			last.Date.Format("2006-01-02"), last.Predicted, *last.Actual, *last.Bias)
	}

	fmt.Println("\nRecent rows:")
	start := len(rows) - 5
	if start < 0 {
		start = 0
	}
	for _, r := range rows[start:] {
		fmt.Printf("  %s  predicted %6.2f  %s\n",
			r.Date.Format("2006-01-02"), r.Predicted, rowState(r))
	}

	return nil
}

func rowState(r contracts.LedgerRow) string {
	if r.Closed() {
		return fmt.Sprintf("actual %6.2f  bias %+6.2f", *r.Actual, *r.Bias)
	}
	return "open"
}
