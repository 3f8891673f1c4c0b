package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "feargreed",
	Short: "Market fear/greed index pipeline",
	Long: `Daily fear/greed index for the CSI 300.

Fetches market series, scores the factor catalogue against their own
history, fits composite weights from the closed ledger rows, applies the
running bias correction, and records the prediction in the CSV ledger.

Usage:
  go run ./cmd/feargreed [command]

Examples:
  go run ./cmd/feargreed run
  go run ./cmd/feargreed score --date 2026-03-13
  go run ./cmd/feargreed schedule start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
