package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage record sources",
	Long:  `Add, list, and remove the sources gleaner extracts records from.`,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [source-type]",
	Short: "Add a new source",
	Long: `Add a new source configuration.

Run 'gleaner source types' to see the supported source types and the
configuration keys each one accepts.

Examples:
  gleaner source add filesystem --name notes -c path=./docs
  gleaner source add filesystem -c path=/var/log -c glob=*.log
  gleaner source add gcs -c bucket=my-bucket -c prefix=exports/
  gleaner source add github -c repo=golang/go`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSourceAdd,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE:  runSourceList,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove [source-id]",
	Short: "Remove a source and its extracted records",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceRemove,
}

var sourceTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List supported source types",
	RunE:  runSourceTypes,
}

// Flags for source add.
var (
	sourceAddName   string
	sourceAddConfig []string
)

func init() {
	sourceAddCmd.Flags().StringVar(
		&sourceAddName, "name", "", "Human-readable name for the source")
	sourceAddCmd.Flags().StringArrayVarP(
		&sourceAddConfig, "config", "c", nil, "Source configuration as key=value (repeatable)")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceTypesCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}
	if sourceTypeRegistry == nil {
		return errors.New("source type registry not configured")
	}

	if len(args) == 0 {
		return errors.New("source type required; run 'gleaner source types' to list them")
	}
	sourceType := args[0]

	if _, err := sourceTypeRegistry.Get(sourceType); err != nil {
		return fmt.Errorf("unknown source type %q: %w", sourceType, err)
	}

	config, err := parseConfigPairs(sourceAddConfig)
	if err != nil {
		return err
	}

	ctx := context.Background()

	source := domain.SourceConfig{
		ID:     uuid.New().String(),
		Type:   sourceType,
		Name:   sourceAddName,
		Config: config,
	}

	if err := sourceService.Add(ctx, source); err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}

	cmd.Printf("Source added: %s\n", source.ID)
	if source.Name != "" {
		cmd.Printf("  Name: %s\n", source.Name)
	}
	cmd.Printf("  Type: %s\n", source.Type)
	cmd.Printf("\nRun 'gleaner extract %s' to extract records.\n", source.ID)
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()

	sources, err := sourceService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources configured. Add one with 'gleaner source add'.")
		return nil
	}

	cmd.Println("Configured sources:")
	cmd.Println()
	for i := range sources {
		cmd.Printf("  %s\n", sources[i].ID)
		cmd.Printf("    Name: %s\n", sources[i].DisplayName())
		cmd.Printf("    Type: %s\n", sources[i].Type)
		cmd.Println()
	}

	cmd.Printf("Total: %d sources\n", len(sources))
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	sourceID := args[0]
	ctx := context.Background()

	if err := sourceService.Remove(ctx, sourceID); err != nil {
		return fmt.Errorf("failed to remove source: %w", err)
	}

	cmd.Printf("Source %s removed.\n", sourceID)
	return nil
}

func runSourceTypes(cmd *cobra.Command, _ []string) error {
	if sourceTypeRegistry == nil {
		return errors.New("source type registry not configured")
	}

	cmd.Println("Supported source types:")
	cmd.Println()
	for _, t := range sourceTypeRegistry.Types() {
		cmd.Printf("  %s - %s\n", t.ID, t.Description)
		for _, key := range t.ConfigKeys {
			required := ""
			if key.Required {
				required = " (required)"
			}
			cmd.Printf("    %s%s: %s\n", key.Key, required, key.Description)
		}
		if t.RequiresAuth() {
			cmd.Printf("    Requires a token; set one with 'gleaner auth set-token %s'.\n", t.ID)
		}
		cmd.Println()
	}

	return nil
}

// parseConfigPairs turns repeated key=value flags into a config map.
func parseConfigPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	config := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid config %q: expected key=value", pair)
		}
		config[key] = value
	}
	return config, nil
}
