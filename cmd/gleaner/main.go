// Command gleaner extracts structured records from files, buckets and
// repositories. It wires the storage, source and parser adapters to the
// core services and hands control to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/gleaner-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/gleaner-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
	"github.com/custodia-labs/gleaner-cli/internal/core/ports/driven"
	"github.com/custodia-labs/gleaner-cli/internal/core/services"
	"github.com/custodia-labs/gleaner-cli/internal/logger"
	"github.com/custodia-labs/gleaner-cli/internal/parsers"
	"github.com/custodia-labs/gleaner-cli/internal/postprocessors"
	"github.com/custodia-labs/gleaner-cli/internal/sources"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config store backs the settings service (~/.gleaner/config.toml).
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	// SQLite store for sources, records and runs (~/.gleaner/data).
	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	typeRegistry := services.NewSourceTypeRegistry()

	sourceService := services.NewSourceService(
		store.SourceStore(), store.RecordStore(), store.RunStore(),
	)
	sourceService.SetTypeRegistry(typeRegistry)

	recordsService := services.NewRecordsService(store.RecordStore(), store.SourceStore())

	factory := sources.Defaults()
	factory.SetTokenLookup(settingsService.Token)
	parserRegistry := parsers.Defaults()

	extractService := services.NewExtractService(
		store.SourceStore(),
		store.RecordStore(),
		store.RunStore(),
		factory,
		parserRegistry,
		buildPipeline(settingsService),
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Extract:  extractService,
		Source:   sourceService,
		Records:  recordsService,
		Settings: settingsService,
		Types:    typeRegistry,
		Parsers:  parserRegistry,
		TUIConfig: &cli.TUIConfig{
			ExtractOrchestrator: extractService,
			SourceService:       sourceService,
			RecordsService:      recordsService,
			SettingsService:     settingsService,
			SourceTypeRegistry:  typeRegistry,
		},
	})

	return cli.Execute()
}

// buildPipeline assembles the post-processor pipeline from saved
// settings, falling back to the default pipeline when the configured
// one cannot be built.
func buildPipeline(settings *services.SettingsService) driven.PostProcessorPipeline {
	reg := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(reg)

	cfg := domain.DefaultPipelineConfig()
	if s, err := settings.Get(); err == nil && s != nil {
		cfg = s.Pipeline
	}

	pipeline, err := postprocessors.FromConfig(reg, cfg)
	if err != nil {
		logger.Warn("invalid pipeline configuration, using defaults: %v", err)
		pipeline, _ = postprocessors.FromConfig(reg, domain.DefaultPipelineConfig())
	}
	return pipeline
}
