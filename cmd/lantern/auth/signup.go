package authcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/cliui"
)

const signupLongDesc string = `Create an account from an email and password.

On success, prints the ID token, refresh token, and expiry for the new
account. Use --anonymous to create a throwaway account with no
credentials.

Examples:
  lantern auth signup alice@example.com s3cret
  lantern auth signup --anonymous`

const signupShortDesc string = "Create an Identity Toolkit account"

func newSignupCmd(cmder *authCommander) *cobra.Command {
	var anonymous bool

	cmd := &cobra.Command{
		Use:   "signup [email] [password]",
		Short: signupShortDesc,
		Long:  signupLongDesc,
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmder.newClient()
			if err != nil {
				return err
			}

			if anonymous {
				resp, err := client.SignInAnonymous(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Printf("%s Created anonymous account %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(resp.LocalID))
				printTokens(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
				return nil
			}

			if len(args) != 2 {
				return fmt.Errorf("email and password arguments required (or --anonymous)")
			}

			resp, err := client.SignUp(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("%s Created account %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(resp.Email))
			printTokens(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
			return nil
		},
	}

	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "Create an anonymous account")

	return cmd
}
