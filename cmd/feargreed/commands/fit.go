package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit composite weights from the ledger",
	Long: `Fits the bounded weight vector against the closed ledger rows and
prints it. Falls back to uniform weights when there are too few closed
rows or the fit does not converge.

Example:
  go run ./cmd/feargreed fit`,
	RunE: runFit,
}

func init() {
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fear/Greed: Weight Fit ===")

	a, err := initApp()
	if err != nil {
		return err
	}

	vector, fitted, err := a.pipeline.FitWeights()
	if err != nil {
		return fmt.Errorf("fit weights: %w", err)
	}

	if fitted {
		fmt.Printf("\nFitted over closed rows (bounds %.0f%%-%.0f%%):\n",
			a.factors.Weights.Min*100, a.factors.Weights.Max*100)
	} else {
		fmt.Println("\nFit unavailable, uniform fallback:")
	}

	names := make([]string, 0, len(vector))
	for name := range vector {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s %5.1f%%\n", name, vector[name]*100)
	}

	return nil
}
