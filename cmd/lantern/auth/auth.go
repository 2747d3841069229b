// Package authcmder provides commands for managing Identity Toolkit
// accounts: creating them, exchanging credentials for tokens, and
// refreshing expired tokens.
package authcmder

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/auth"
	"github.com/lanternhq/lantern/pkg/cliui"
	"github.com/lanternhq/lantern/pkg/config"
	"github.com/lanternhq/lantern/pkg/logger"
)

const authLongDesc string = `Manage Identity Toolkit accounts.

Exchanges credentials for an ID token, refresh token, and expiry. The ID
token authenticates database access; pass it to db and watch commands
with --token, or store it as database.token.

The API key comes from --api-key, the LANTERN_ environment, or the
.lantern/config.toml file. When FIREBASE_AUTH_EMULATOR_HOST is set,
requests are routed to the local Auth emulator instead of production.

Examples:
  lantern auth signup alice@example.com s3cret
  lantern auth signin alice@example.com s3cret
  lantern auth refresh <refresh-token>
  lantern auth reset alice@example.com`

const authShortDesc string = "Manage Identity Toolkit accounts"

// authCommander carries the endpoint settings shared by every auth
// subcommand.
type authCommander struct {
	apiKey   string
	authURL  string
	emulator bool
	debug    bool

	logger *slog.Logger
}

func NewAuthCmd() *cobra.Command {
	cmder := &authCommander{}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: authShortDesc,
		Long:  authLongDesc,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&cmder.apiKey, "api-key", "k", "", "Identity Toolkit API key")
	cmd.PersistentFlags().StringVar(&cmder.authURL, "auth-url", "", "Override the Identity Toolkit endpoint")
	cmd.PersistentFlags().BoolVar(&cmder.emulator, "emulator", false, "Route requests to the local Auth emulator")

	cmd.AddCommand(newSignupCmd(cmder))
	cmd.AddCommand(newSigninCmd(cmder))
	cmd.AddCommand(newRefreshCmd(cmder))
	cmd.AddCommand(newResetCmd(cmder))

	return cmd
}

// loadConfig merges file-backed config into any flag the user did not set.
func (c *authCommander) loadConfig(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cmd.Flags().Changed("api-key") && cfg.Auth.APIKey != "" {
		c.apiKey = cfg.Auth.APIKey
	}
	if !cmd.Flags().Changed("auth-url") && cfg.Auth.URL != "" {
		c.authURL = cfg.Auth.URL
	}
	if !cmd.Flags().Changed("emulator") {
		c.emulator = cfg.Auth.Emulator
	}

	c.debug, err = cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("could not get debug flag: %w", err)
	}

	if c.debug {
		c.logger = logger.New(logger.WithDebug(true), logger.WithPretty(true))
	} else {
		c.logger = logger.Nop()
	}

	return nil
}

// newClient resolves the Identity Toolkit endpoint and builds a client.
func (c *authCommander) newClient() (*auth.Client, error) {
	if c.apiKey == "" {
		return nil, errors.New("no API key configured; pass --api-key or set auth.api_key")
	}

	opts := []auth.Option{auth.WithLogger(c.logger)}

	if host := os.Getenv("FIREBASE_AUTH_EMULATOR_HOST"); host != "" {
		opts = append(opts, auth.WithEmulator("http://"+host))
	} else if c.emulator && c.authURL != "" {
		opts = append(opts, auth.WithEmulator(c.authURL))
	} else if c.authURL != "" {
		opts = append(opts, auth.WithIdentityToolkitURL(c.authURL))
	}

	return auth.New(c.apiKey, opts...), nil
}

// printTokens renders the credential triple every sign-in flow returns.
func printTokens(idToken, refreshToken, expiresIn string) {
	fmt.Printf("\n  %s  %s\n", cliui.KeyStyle.Render("ID token:     "), idToken)
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Refresh token:"), refreshToken)
	fmt.Printf("  %s  %s\n\n", cliui.KeyStyle.Render("Expires in:   "), cliui.DimStyle.Render(expiresIn+"s"))
}
