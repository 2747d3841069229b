package dbcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/cliui"
	"github.com/lanternhq/lantern/pkg/rtdb"
)

const setLongDesc string = `Replace the value at a database path.

Any data previously held at the path is deleted. The value is JSON;
anything that does not parse as JSON is written as a plain string.

Examples:
  lantern db set /users/alice '{"name": "Alice", "age": 30}'
  lantern db set /flags/dark_mode true
  lantern db set /motd "welcome back"
  lantern db set /big '{"blob": "..."}' --write-size-limit tiny`

const setShortDesc string = "Replace the value at a database path"

func newSetCmd(cmder *dbCommander) *cobra.Command {
	var writeSizeLimit string

	cmd := &cobra.Command{
		Use:   "set <path> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := cmder.node(args[0])
			if err != nil {
				return err
			}

			if writeSizeLimit != "" {
				node = node.WriteSizeLimit(rtdb.WriteSizeLimit(writeSizeLimit))
			}

			if err := node.Set(cmd.Context(), parseJSONValue(args[1])); err != nil {
				return err
			}

			fmt.Printf("%s Set %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&writeSizeLimit, "write-size-limit", "", "Reject the write server-side above this size (tiny, small, medium, large, unlimited)")

	return cmd
}
