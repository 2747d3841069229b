package dbcmder

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/cliui"
)

const updateLongDesc string = `Merge values into a database path.

Unlike set, siblings not named in the value are left untouched. Keys may
be deep paths ("a/b/c"), and a null value deletes that child.

Examples:
  lantern db update /users/alice '{"age": 31}'
  lantern db update /users/alice '{"profile/bio": "hi", "temp": null}'`

const updateShortDesc string = "Merge values into a database path"

func newUpdateCmd(cmder *dbCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <path> <values>",
		Short: updateShortDesc,
		Long:  updateLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var values map[string]any
			if err := json.Unmarshal([]byte(args[1]), &values); err != nil {
				return fmt.Errorf("values must be a JSON object: %w", err)
			}

			node, err := cmder.node(args[0])
			if err != nil {
				return err
			}

			if err := node.Update(cmd.Context(), values); err != nil {
				return err
			}

			fmt.Printf("%s Updated %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(args[0]))
			return nil
		},
	}

	return cmd
}
