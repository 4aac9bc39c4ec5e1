package cli

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported blob formats",
	Long:  `Lists the MIME types the registered parsers can turn into records.`,
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, _ []string) error {
	if parserRegistry == nil {
		return errors.New("parser registry not configured")
	}

	mimeTypes := parserRegistry.MIMETypes()
	sort.Strings(mimeTypes)

	cmd.Println("Supported formats:")
	cmd.Println()
	for _, mimeType := range mimeTypes {
		parser, err := parserRegistry.ParserFor(mimeType)
		if err != nil {
			continue
		}
		cmd.Printf("  %-30s (priority %d)\n", mimeType, parser.Priority())
	}

	return nil
}
