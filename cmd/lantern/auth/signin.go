package authcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/cliui"
)

const signinLongDesc string = `Sign in to an existing account.

Exchanges an email and password (or a custom token minted by a trusted
backend) for an ID token, refresh token, and expiry.

Examples:
  lantern auth signin alice@example.com s3cret
  lantern auth signin --custom-token <jwt>`

const signinShortDesc string = "Sign in to an Identity Toolkit account"

func newSigninCmd(cmder *authCommander) *cobra.Command {
	var customToken string

	cmd := &cobra.Command{
		Use:   "signin [email] [password]",
		Short: signinShortDesc,
		Long:  signinLongDesc,
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmder.newClient()
			if err != nil {
				return err
			}

			if customToken != "" {
				resp, err := client.SignInWithCustomToken(cmd.Context(), customToken)
				if err != nil {
					return err
				}

				fmt.Printf("%s Signed in with custom token\n", cliui.SuccessMark)
				printTokens(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
				return nil
			}

			if len(args) != 2 {
				return fmt.Errorf("email and password arguments required (or --custom-token)")
			}

			resp, err := client.SignInWithPassword(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("%s Signed in as %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(resp.Email))
			printTokens(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
			return nil
		},
	}

	cmd.Flags().StringVar(&customToken, "custom-token", "", "Sign in with a custom token minted by a trusted backend")

	return cmd
}
