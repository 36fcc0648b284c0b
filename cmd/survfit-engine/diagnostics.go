package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelstack/survfit-engine/internal/diagnostics"
)

var (
	diagnosticsInput  string
	diagnosticsOutput string
)

var diagnosticsCmd = &cobra.Command{
	Use:   "diagnostics",
	Short: "Aggregate fit-health statistics per distribution family from a batch of history records",
	RunE:  runDiagnostics,
}

func init() {
	diagnosticsCmd.Flags().StringVar(&diagnosticsInput, "input", "-", "path to a JSON array of history records, or - for stdin")
	diagnosticsCmd.Flags().StringVar(&diagnosticsOutput, "output", "-", "path to write the aggregated report, or - for stdout")
	rootCmd.AddCommand(diagnosticsCmd)
}

func runDiagnostics(cmd *cobra.Command, args []string) error {
	records, err := readHistoryRecords(diagnosticsInput)
	if err != nil {
		return fmt.Errorf("read history records: %w", err)
	}

	report := diagnostics.NewAggregator(nil).Aggregate(records)
	return writeJSON(diagnosticsOutput, report)
}
