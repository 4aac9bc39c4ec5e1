package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [source-id]",
	Short: "Watch a source and extract changes as they happen",
	Long: `Watches a source for changes and re-extracts changed blobs through
the configured parsers until interrupted with Ctrl-C.

Only sources that support change notification can be watched;
filesystem sources use inotify/FSEvents under the hood.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if extractOrchestrator == nil {
		return errors.New("extract service not configured")
	}

	sourceID := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, err := extractOrchestrator.Watch(ctx, sourceID)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedType) {
			return fmt.Errorf("source %s does not support watching", sourceID)
		}
		return fmt.Errorf("failed to watch source: %w", err)
	}

	cmd.Printf("Watching source %s (Ctrl-C to stop)...\n", sourceID)

	for event := range events {
		switch {
		case event.Err != nil:
			cmd.Printf("  %s: error: %v\n", event.Change.Blob.Origin(), event.Err)
		case event.Change.Type == domain.ChangeDeleted:
			cmd.Printf("  %s: deleted, records purged\n", event.Change.Blob.Origin())
		default:
			cmd.Printf("  %s: %d records extracted\n", event.Change.Blob.Origin(), event.RecordsExtracted)
		}
	}

	cmd.Println("Watch stopped.")
	return nil
}
