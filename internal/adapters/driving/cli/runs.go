package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect extraction runs",
	Long:  `View the history of extraction runs per source.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list [source-id]",
	Short: "List extraction runs for a source, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsList,
}

// runsListLimit is a flag for runs list.
var runsListLimit int

func init() {
	runsListCmd.Flags().IntVarP(&runsListLimit, "limit", "n", 10, "Maximum runs to show (0 = all)")

	runsCmd.AddCommand(runsListCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	if extractOrchestrator == nil {
		return errors.New("extract service not configured")
	}

	sourceID := args[0]
	ctx := context.Background()

	runs, err := extractOrchestrator.Runs(ctx, sourceID, runsListLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Printf("No runs found for source: %s\n", sourceID)
		return nil
	}

	cmd.Printf("Runs for source %s:\n\n", sourceID)
	for i := range runs {
		run := &runs[i]
		cmd.Printf("  %s\n", run.ID)
		cmd.Printf("    Status:   %s\n", run.Status)
		cmd.Printf("    Started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
		if run.Finished() {
			cmd.Printf("    Finished: %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
		}
		cmd.Printf("    Extracted %d records from %d blobs\n", run.RecordsExtracted, run.BlobsSeen)
		if run.Error != "" {
			cmd.Printf("    Error:    %s\n", run.Error)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d runs\n", len(runs))
	return nil
}
