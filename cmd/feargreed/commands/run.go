package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantlab/feargreed/internal/pipeline"
)

var runDate string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full daily pipeline",
	Long: `Runs the complete pipeline: reconcile the ledger against arrived
ground truth, fit composite weights, score today, apply the bias
correction, persist the open row, and notify the webhook.

Example:
  go run ./cmd/feargreed run
  go run ./cmd/feargreed run --date 2026-03-13`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDate, "date", "", "run as of date (YYYY-MM-DD, default: today)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fear/Greed: Daily Run ===")

	date, err := parseDateFlag(runDate)
	if err != nil {
		return err
	}

	a, err := initApp()
	if err != nil {
		return err
	}

	result, err := a.pipeline.Run(cmd.Context(), date)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	printResult(result)
	fmt.Printf("\nReconciled rows: %d\n", result.Reconciled)
	fmt.Printf("Ledger: %s\n", a.cfg.LedgerPath)
	return nil
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

func printResult(r *pipeline.Result) {
	fmt.Printf("\nDate: %s\n", r.Date.Format("2006-01-02"))

	fmt.Println("\nFactor scores:")
	for _, s := range r.Scores {
		if s.Neutral {
			fmt.Printf("  %-18s %6.2f  (neutral: %s)\n", s.Name, s.Score, s.Reason)
		} else {
			fmt.Printf("  %-18s %6.2f\n", s.Name, s.Score)
		}
	}

	source := "uniform"
	if r.WeightsFitted {
		source = "fitted"
	}
	fmt.Printf("\nWeights (%s):\n", source)
	names := make([]string, 0, len(r.Weights))
	for name := range r.Weights {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s %5.1f%%\n", name, r.Weights[name]*100)
	}

	fmt.Printf("\nComposite:  %6.2f\n", r.Composite)
	fmt.Printf("Correction: %+6.2f\n", r.Correction)
	fmt.Printf("Final:      %6.2f\n", r.Final)
}
