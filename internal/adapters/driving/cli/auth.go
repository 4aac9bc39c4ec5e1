package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gleaner-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage source access tokens",
	Long: `Store, inspect, and clear the access tokens sources authenticate with.

Tokens are kept in the config file and picked up when a source of the
matching type is constructed. For example, a GitHub personal access
token raises the API rate limit and grants access to private repos.

Examples:
  # Store a GitHub token (prompted, input hidden)
  gleaner auth set-token github

  # Store a token non-interactively
  gleaner auth set-token github --token ghp_xxx

  # Show which source types have a token
  gleaner auth status

  # Remove a stored token
  gleaner auth clear github`,
}

var authSetTokenCmd = &cobra.Command{
	Use:   "set-token [source-type]",
	Short: "Store an access token for a source type",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthSetToken,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which source types have a stored token",
	RunE:  runAuthStatus,
}

var authClearCmd = &cobra.Command{
	Use:   "clear [source-type]",
	Short: "Remove the stored token for a source type",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthClear,
}

// authToken is a flag for set-token; empty means prompt.
var authToken string

func init() {
	authSetTokenCmd.Flags().StringVar(
		&authToken, "token", "", "Token value (prompted with hidden input when omitted)")

	authCmd.AddCommand(authSetTokenCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authClearCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSetToken(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	sourceType := args[0]
	if err := checkTokenAuth(sourceType); err != nil {
		return err
	}

	token := authToken
	if token == "" {
		cmd.Printf("Token for %s: ", sourceType)
		token = readPassword()
		cmd.Println()
	}
	if token == "" {
		return errors.New("token must not be empty")
	}

	if err := settingsService.SetToken(sourceType, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	cmd.Printf("Token stored for %s.\n", sourceType)
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if sourceTypeRegistry == nil {
		return errors.New("source type registry not configured")
	}

	cmd.Println("Token status:")
	cmd.Println()
	for _, t := range sourceTypeRegistry.Types() {
		if !t.RequiresAuth() {
			continue
		}
		token, err := settingsService.Token(t.ID)
		if err != nil {
			return fmt.Errorf("failed to read token for %s: %w", t.ID, err)
		}
		if token != "" {
			cmd.Printf("  %s: token configured\n", t.ID)
		} else {
			cmd.Printf("  %s: no token\n", t.ID)
		}
	}

	return nil
}

func runAuthClear(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	sourceType := args[0]
	if err := checkTokenAuth(sourceType); err != nil {
		return err
	}

	if err := settingsService.ClearToken(sourceType); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}

	cmd.Printf("Token cleared for %s.\n", sourceType)
	return nil
}

// checkTokenAuth verifies the source type exists and uses token auth.
func checkTokenAuth(sourceType string) error {
	if sourceTypeRegistry == nil {
		return nil
	}
	t, err := sourceTypeRegistry.Get(sourceType)
	if err != nil {
		return fmt.Errorf("unknown source type %q: %w", sourceType, err)
	}
	if t.AuthMethod != domain.AuthMethodToken {
		return fmt.Errorf("source type %q does not use token authentication", sourceType)
	}
	return nil
}
