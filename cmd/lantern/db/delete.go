package dbcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/cliui"
)

const deleteLongDesc string = `Delete the value at a database path.

Removes the value and every node below it.

Examples:
  lantern db delete /users/alice
  lantern db delete /messages`

const deleteShortDesc string = "Delete the value at a database path"

func newDeleteCmd(cmder *dbCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <path>",
		Short: deleteShortDesc,
		Long:  deleteLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := cmder.node(args[0])
			if err != nil {
				return err
			}

			if err := node.Delete(cmd.Context()); err != nil {
				return err
			}

			fmt.Printf("%s Deleted %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(args[0]))
			return nil
		},
	}

	return cmd
}
