package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
)

// TUIConfig holds configuration for the TUI command.
type TUIConfig struct {
	ExtractOrchestrator driving.ExtractOrchestrator
	SourceService       driving.SourceService
	RecordsService      driving.RecordsService
	SettingsService     driving.SettingsService
	SourceTypeRegistry  driving.SourceTypeRegistry
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Gleaner.

The TUI provides a visual interface for browsing your sources and
extracted records, and for running extractions with live progress.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select
  Esc      - Back / Cancel
  q        - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Build ports from configuration
	ports := &tui.Ports{}

	if tuiConfig != nil {
		ports.Extract = tuiConfig.ExtractOrchestrator
		ports.Source = tuiConfig.SourceService
		ports.Records = tuiConfig.RecordsService
		ports.Settings = tuiConfig.SettingsService
		ports.SourceTypes = tuiConfig.SourceTypeRegistry
	}

	// Create the TUI app
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Set up context from command
	app.WithContext(cmd.Context())

	// Create and run the bubbletea program
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
