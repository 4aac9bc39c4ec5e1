package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

var extractCmd = &cobra.Command{
	Use:   "extract [source-id]",
	Short: "Extract records from sources",
	Long: `Triggers record extraction from configured sources.
If a source ID is provided, only that source is extracted.
Otherwise, all sources are extracted.`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractOrchestrator == nil {
		return errors.New("extract service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		// Extract specific source
		sourceID := args[0]
		cmd.Printf("Extracting source: %s...\n", sourceID)

		if err := extractWithProgress(ctx, cmd, extractOrchestrator, sourceID); err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}

		cmd.Printf("Source %s extracted successfully.\n", sourceID)
	} else {
		// Extract all sources
		cmd.Println("Extracting all sources...")

		if err := extractOrchestrator.ExtractAll(ctx); err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}

		cmd.Println("All sources extracted successfully.")
	}

	return nil
}

// extractWithProgress runs extraction while displaying progress updates.
func extractWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	orch driving.ExtractOrchestrator,
	sourceID string,
) error {
	// Start extraction in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- orch.Extract(ctx, sourceID)
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case err := <-errCh:
			// Print final status (ignore status error - best effort)
			status, statusErr := orch.Status(ctx, sourceID)
			if statusErr == nil && status != nil && status.RecordsExtracted > 0 {
				cmd.Printf("\rExtracted %d records from %d blobs\n",
					status.RecordsExtracted, status.BlobsSeen)
			}
			return err
		case <-ticker.C:
			// Check progress (ignore status error - best effort)
			status, statusErr := orch.Status(ctx, sourceID)
			if statusErr == nil && status != nil && status.RecordsExtracted > lastCount {
				cmd.Printf("\rExtracting... %d records", status.RecordsExtracted)
				lastCount = status.RecordsExtracted
			}
		}
	}
}
