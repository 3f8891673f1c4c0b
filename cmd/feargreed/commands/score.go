package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scoreDate string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a date without persisting",
	Long: `Computes the factor scores and corrected composite for a date
using the current ledger for weights and bias, without writing the
ledger or sending a notification.

Example:
  go run ./cmd/feargreed score
  go run ./cmd/feargreed score --date 2026-03-13`,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreDate, "date", "", "score as of date (YYYY-MM-DD, default: today)")
}

func runScore(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fear/Greed: Score Preview ===")

	date, err := parseDateFlag(scoreDate)
	if err != nil {
		return err
	}

	a, err := initApp()
	if err != nil {
		return err
	}

	result, err := a.pipeline.Preview(cmd.Context(), date)
	if err != nil {
		return fmt.Errorf("score preview: %w", err)
	}

	printResult(result)
	return nil
}
