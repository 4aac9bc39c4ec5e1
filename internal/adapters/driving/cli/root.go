package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driving"
	"github.com/custodia-labs/gleaner-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services the commands depend on. Set via SetServices before Execute;
// commands whose service is nil fail with a "not configured" error so
// a partially wired binary degrades per command, not wholesale.
var (
	extractOrchestrator driving.ExtractOrchestrator
	sourceService       driving.SourceService
	recordsService      driving.RecordsService
	settingsService     driving.SettingsService
	sourceTypeRegistry  driving.SourceTypeRegistry
	parserRegistry      driven.ParserRegistry
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gleaner",
	Short: "Extract structured records from files, buckets and repos",
	Long: `Gleaner pulls records out of your data sources.

Point it at a directory, a GCS bucket or a GitHub repository and it
enumerates the blobs, picks a parser per format (CSV, JSON Lines,
Markdown, HTML, plain text) and turns each blob into records you can
list, inspect and export.

Start with an ad-hoc scan:
  gleaner scan ./docs --pattern "*.csv"

Or configure a named source and extract repeatedly:
  gleaner source add filesystem --name notes -c path=./docs
  gleaner extract <source-id>
  gleaner records list <source-id>`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Services bundles everything the CLI commands need.
type Services struct {
	Extract   driving.ExtractOrchestrator
	Source    driving.SourceService
	Records   driving.RecordsService
	Settings  driving.SettingsService
	Types     driving.SourceTypeRegistry
	Parsers   driven.ParserRegistry
	TUIConfig *TUIConfig
}

// SetServices wires the command implementations to their services.
func SetServices(s Services) {
	extractOrchestrator = s.Extract
	sourceService = s.Source
	recordsService = s.Records
	settingsService = s.Settings
	sourceTypeRegistry = s.Types
	parserRegistry = s.Parsers
	if s.TUIConfig != nil {
		SetTUIConfig(s.TUIConfig)
	}
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
