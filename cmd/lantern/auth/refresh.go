package authcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/cliui"
)

const refreshLongDesc string = `Exchange a refresh token for a fresh ID token.

ID tokens expire after about an hour; the refresh token from a sign-in
flow mints a new one without re-entering credentials.

Examples:
  lantern auth refresh <refresh-token>`

const refreshShortDesc string = "Exchange a refresh token for a fresh ID token"

func newRefreshCmd(cmder *authCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh <refresh-token>",
		Short: refreshShortDesc,
		Long:  refreshLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmder.newClient()
			if err != nil {
				return err
			}

			resp, err := client.Refresh(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s Refreshed token for user %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(resp.UserID))
			printTokens(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
			return nil
		},
	}

	return cmd
}
