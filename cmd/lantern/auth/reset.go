package authcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/cliui"
)

const resetLongDesc string = `Send a password reset email.

The email contains an out-of-band code; confirm it with --confirm and a
new password to complete the reset.

Examples:
  lantern auth reset alice@example.com
  lantern auth reset --confirm <oob-code> <new-password>
  lantern auth reset alice@example.com --locale fr`

const resetShortDesc string = "Send or confirm a password reset"

func newResetCmd(cmder *authCommander) *cobra.Command {
	var (
		confirm bool
		locale  string
	)

	cmd := &cobra.Command{
		Use:   "reset <email> | reset --confirm <oob-code> <new-password>",
		Short: resetShortDesc,
		Long:  resetLongDesc,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmder.newClient()
			if err != nil {
				return err
			}

			if confirm {
				if len(args) != 2 {
					return fmt.Errorf("oob-code and new-password arguments required with --confirm")
				}

				resp, err := client.ConfirmPasswordReset(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}

				fmt.Printf("%s Password reset for %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(resp.Email))
				return nil
			}

			resp, err := client.SendPasswordResetEmail(cmd.Context(), args[0], locale)
			if err != nil {
				return err
			}

			fmt.Printf("%s Reset email sent to %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(resp.Email))
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm a reset with an out-of-band code and new password")
	cmd.Flags().StringVar(&locale, "locale", "", "Locale for the reset email (X-Firebase-Locale)")

	return cmd
}
