package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure extraction behaviour.

Use subcommands to change a specific setting.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEncodingCmd = &cobra.Command{
	Use:   "encoding [name]",
	Short: "Set the default text encoding",
	Long: `Sets the encoding assumed for blobs that carry no encoding hint.

The name must be a registered IANA charset name, e.g. utf-8,
iso-8859-1, windows-1252, shift_jis. An empty name resets to UTF-8.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsEncoding,
}

var settingsHiddenCmd = &cobra.Command{
	Use:   "hidden [true|false]",
	Short: "Include hidden files when scanning directories",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsHidden,
}

var settingsMaxBlobSizeCmd = &cobra.Command{
	Use:   "max-blob-size [bytes]",
	Short: "Cap the blob size resolved in full",
	Long:  `Blobs larger than the cap are skipped during extraction. Zero removes the cap.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsMaxBlobSize,
}

var settingsPipelineCmd = &cobra.Command{
	Use:   "pipeline [processors]",
	Short: "Set the post-processor pipeline",
	Long: `Sets the ordered, comma-separated list of post-processors applied to
records before they are persisted.

Available processors:
  trim - Trim whitespace from record content
  tag  - Stamp configured tags onto record metadata

Example:
  gleaner settings pipeline trim,tag`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsPipeline,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEncodingCmd)
	settingsCmd.AddCommand(settingsHiddenCmd)
	settingsCmd.AddCommand(settingsMaxBlobSizeCmd)
	settingsCmd.AddCommand(settingsPipelineCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	encoding := settings.Extraction.DefaultEncoding
	if encoding == "" {
		encoding = "utf-8 (default)"
	}

	cmd.Println("Current settings:")
	cmd.Println()
	cmd.Printf("  Default encoding: %s\n", encoding)
	cmd.Printf("  Follow hidden:    %t\n", settings.Extraction.FollowHidden)
	if settings.Extraction.MaxBlobSize > 0 {
		cmd.Printf("  Max blob size:    %d bytes\n", settings.Extraction.MaxBlobSize)
	} else {
		cmd.Printf("  Max blob size:    unlimited\n")
	}
	cmd.Printf("  Pipeline:         %s\n", strings.Join(settings.Pipeline.Processors, ", "))

	return nil
}

func runSettingsEncoding(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	encoding := ""
	if len(args) > 0 {
		encoding = args[0]
	}

	if err := settingsService.SetDefaultEncoding(encoding); err != nil {
		return fmt.Errorf("failed to set encoding: %w", err)
	}

	if encoding == "" {
		cmd.Println("Default encoding reset to utf-8.")
	} else {
		cmd.Printf("Default encoding set to %s.\n", encoding)
	}
	return nil
}

func runSettingsHidden(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	follow, err := strconv.ParseBool(args[0])
	if err != nil {
		return fmt.Errorf("invalid value %q: expected true or false", args[0])
	}

	if err := settingsService.SetFollowHidden(follow); err != nil {
		return fmt.Errorf("failed to set follow hidden: %w", err)
	}

	cmd.Printf("Follow hidden set to %t.\n", follow)
	return nil
}

func runSettingsMaxBlobSize(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	size, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || size < 0 {
		return fmt.Errorf("invalid size %q: expected a non-negative byte count", args[0])
	}

	if err := settingsService.SetMaxBlobSize(size); err != nil {
		return fmt.Errorf("failed to set max blob size: %w", err)
	}

	if size == 0 {
		cmd.Println("Max blob size cap removed.")
	} else {
		cmd.Printf("Max blob size set to %d bytes.\n", size)
	}
	return nil
}

func runSettingsPipeline(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var processors []string
	for _, name := range strings.Split(args[0], ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			processors = append(processors, name)
		}
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := current.Pipeline
	cfg.Processors = processors

	if err := settingsService.SetPipeline(cfg); err != nil {
		return fmt.Errorf("failed to set pipeline: %w", err)
	}

	cmd.Printf("Pipeline set to: %s\n", strings.Join(processors, ", "))
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	return readLine(reader)
}
