package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srclient"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		apiKey   string
		skipTest bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a speedrun.com API key",
		Long: `Store a speedrun.com API key in the configuration file.

The key is shown at https://www.speedrun.com/settings/api. It is read
without echo when it is not passed with --key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error

			if apiKey == "" {
				apiKey, err = promptAPIKey(cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}

			if apiKey == "" {
				return constants.ErrAPIKeyRequired
			}

			config := loadConfig()
			config.APIKey = apiKey

			var user *srcom.User

			if !skipTest {
				user, err = checkAPIKey(config)
				if err != nil {
					return err
				}
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if user != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Name)
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API key stored")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "key", "", "API key (prompted when omitted)")
	cmd.Flags().BoolVar(&skipTest, "skip-check", false, "store the key without checking it")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.APIKey = ""

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the API key belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client srcom.Client) error {
				user, err := client.Profile(ctx)
				if err != nil {
					return fmt.Errorf("failed to get profile: %w", err)
				}

				return renderUser(cmd.OutOrStdout(), user)
			})
		},
	}
}

func promptAPIKey(out io.Writer) (string, error) {
	_, _ = fmt.Fprint(out, "API key: ")

	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int

	if term.IsTerminal(fd) {
		key, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(out)

		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}

		return strings.TrimSpace(string(key)), nil
	}

	reader := bufio.NewReader(os.Stdin)

	key, err := reader.ReadString('\n')
	if err != nil && key == "" {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	return strings.TrimSpace(key), nil
}

// checkAPIKey validates the key and returns the user it belongs to.
func checkAPIKey(config *Config) (*srcom.User, error) {
	client, err := createClientFromConfig(config)
	if err != nil {
		return nil, err
	}

	defer func() { _ = srclient.Close(client) }()

	ctx := context.Background()

	valid, err := client.IsAccessTokenValid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check API key: %w", err)
	}

	if !valid {
		return nil, constants.ErrInvalidAPIKey
	}

	// The profile response is cached by the validity check.
	return client.Profile(ctx)
}
