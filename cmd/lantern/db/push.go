package dbcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/cliui"
)

const pushLongDesc string = `Append a value under a server-generated key.

The server generates a chronologically-ordered key for the new child and
returns it, so concurrent pushes never collide.

Examples:
  lantern db push /messages '{"text": "hello", "from": "alice"}'`

const pushShortDesc string = "Append a value under a server-generated key"

func newPushCmd(cmder *dbCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push <path> <value>",
		Short: pushShortDesc,
		Long:  pushLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := cmder.node(args[0])
			if err != nil {
				return err
			}

			key, err := node.Push(cmd.Context(), parseJSONValue(args[1]))
			if err != nil {
				return err
			}

			fmt.Printf("%s Pushed %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(args[0]+"/"+key))
			return nil
		},
	}

	return cmd
}
