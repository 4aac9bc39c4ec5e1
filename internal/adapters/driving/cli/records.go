package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Browse extracted records",
	Long:  `List, view, count, or purge extracted records.`,
}

var recordsListCmd = &cobra.Command{
	Use:   "list [source-id]",
	Short: "List records for a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsList,
}

var recordsGetCmd = &cobra.Command{
	Use:   "get [record-id]",
	Short: "Show record info",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsGet,
}

var recordsContentCmd = &cobra.Command{
	Use:   "content [record-id]",
	Short: "Print record content",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsContent,
}

var recordsDetailsCmd = &cobra.Command{
	Use:   "details [record-id]",
	Short: "Show record metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsDetails,
}

var recordsCountCmd = &cobra.Command{
	Use:   "count [source-id]",
	Short: "Count records for a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsCount,
}

var recordsPurgeCmd = &cobra.Command{
	Use:   "purge [source-id]",
	Short: "Delete all records for a source",
	Long:  `Removes every extracted record for a source. The source configuration is kept.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsPurge,
}

// Flags for records list.
var (
	recordsListLimit  int
	recordsListOffset int
)

func init() {
	recordsListCmd.Flags().IntVarP(&recordsListLimit, "limit", "n", 0, "Maximum records to show (0 = all)")
	recordsListCmd.Flags().IntVar(&recordsListOffset, "offset", 0, "Records to skip")

	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsGetCmd)
	recordsCmd.AddCommand(recordsContentCmd)
	recordsCmd.AddCommand(recordsDetailsCmd)
	recordsCmd.AddCommand(recordsCountCmd)
	recordsCmd.AddCommand(recordsPurgeCmd)
	rootCmd.AddCommand(recordsCmd)
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	if recordsService == nil {
		return errors.New("records service not configured")
	}

	sourceID := args[0]
	ctx := context.Background()

	records, err := recordsService.ListBySource(ctx, sourceID, recordsListLimit, recordsListOffset)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if len(records) == 0 {
		cmd.Printf("No records found for source: %s\n", sourceID)
		return nil
	}

	cmd.Printf("Records for source %s:\n\n", sourceID)
	for i := range records {
		cmd.Printf("  %s\n", records[i].ID)
		cmd.Printf("    Origin: %s\n", records[i].Origin)
		cmd.Printf("    Content: %s\n", preview(records[i].Content))
		cmd.Println()
	}

	cmd.Printf("Total: %d records\n", len(records))
	return nil
}

func runRecordsGet(cmd *cobra.Command, args []string) error {
	if recordsService == nil {
		return errors.New("records service not configured")
	}

	recordID := args[0]
	ctx := context.Background()

	rec, err := recordsService.Get(ctx, recordID)
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	cmd.Printf("Record: %s\n\n", rec.ID)
	cmd.Printf("  Source:    %s\n", rec.SourceID)
	cmd.Printf("  Run:       %s\n", rec.RunID)
	cmd.Printf("  Origin:    %s\n", rec.Origin)
	cmd.Printf("  Extracted: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))

	if len(rec.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for k, v := range rec.Metadata {
			cmd.Printf("    %s: %v\n", k, v)
		}
	}

	return nil
}

func runRecordsContent(cmd *cobra.Command, args []string) error {
	if recordsService == nil {
		return errors.New("records service not configured")
	}

	recordID := args[0]
	ctx := context.Background()

	rec, err := recordsService.Get(ctx, recordID)
	if err != nil {
		return fmt.Errorf("failed to get record content: %w", err)
	}

	cmd.Println(rec.Content)
	return nil
}

func runRecordsDetails(cmd *cobra.Command, args []string) error {
	if recordsService == nil {
		return errors.New("records service not configured")
	}

	recordID := args[0]
	ctx := context.Background()

	details, err := recordsService.GetDetails(ctx, recordID)
	if err != nil {
		return fmt.Errorf("failed to get record details: %w", err)
	}

	cmd.Printf("Record Details: %s\n\n", details.ID)
	cmd.Printf("  Source:      %s (%s)\n", details.SourceName, details.SourceType)
	cmd.Printf("  Source ID:   %s\n", details.SourceID)
	cmd.Printf("  Origin:      %s\n", details.Origin)
	cmd.Printf("  Preview:     %s\n", details.Preview)
	cmd.Printf("  Size:        %d bytes\n", details.ContentLength)
	cmd.Printf("  Extracted:   %s\n", details.CreatedAt.Format("2006-01-02 15:04:05"))

	if len(details.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for k, v := range details.Metadata {
			cmd.Printf("    %s: %s\n", k, v)
		}
	}

	return nil
}

func runRecordsCount(cmd *cobra.Command, args []string) error {
	if recordsService == nil {
		return errors.New("records service not configured")
	}

	sourceID := args[0]
	ctx := context.Background()

	count, err := recordsService.Count(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	cmd.Printf("%d records for source %s\n", count, sourceID)
	return nil
}

func runRecordsPurge(cmd *cobra.Command, args []string) error {
	if recordsService == nil {
		return errors.New("records service not configured")
	}

	sourceID := args[0]
	ctx := context.Background()

	if err := recordsService.Purge(ctx, sourceID); err != nil {
		return fmt.Errorf("failed to purge records: %w", err)
	}

	cmd.Printf("Records for source %s purged.\n", sourceID)
	return nil
}

// preview returns the first line of content, truncated for display.
func preview(content string) string {
	const maxLen = 80
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			content = content[:i]
			break
		}
	}
	if len(content) > maxLen {
		return content[:maxLen] + "..."
	}
	return content
}
