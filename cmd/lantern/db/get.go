package dbcmder

import (
	"github.com/spf13/cobra"
)

const getLongDesc string = `Read the value at a database path.

Query filters compose the same way the REST API composes them: pick an
ordering with --order-by, then bound it with --start-at, --end-at,
--equal-to, --limit-to-first, or --limit-to-last. Filter values are JSON,
so strings need their quotes ('"apple"', not 'apple').

Examples:
  lantern db get /users/alice
  lantern db get /scores --order-by '$value' --limit-to-last 3
  lantern db get /users --order-by 'age' --start-at 18 --end-at 65
  lantern db get /rooms --shallow
  lantern db get / --export`

const getShortDesc string = "Read the value at a database path"

func newGetCmd(cmder *dbCommander) *cobra.Command {
	var (
		orderBy      string
		startAt      string
		endAt        string
		equalTo      string
		limitToFirst int
		limitToLast  int
		shallow      bool
		export       bool
	)

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := cmder.node(args[0])
			if err != nil {
				return err
			}

			if orderBy != "" {
				node = node.OrderBy(orderBy)
			}
			if startAt != "" {
				node = node.StartAt(parseJSONValue(startAt))
			}
			if endAt != "" {
				node = node.EndAt(parseJSONValue(endAt))
			}
			if equalTo != "" {
				node = node.EqualTo(parseJSONValue(equalTo))
			}
			if limitToFirst > 0 {
				node = node.LimitToFirst(limitToFirst)
			}
			if limitToLast > 0 {
				node = node.LimitToLast(limitToLast)
			}
			if shallow {
				node = node.Shallow()
			}
			if export {
				node = node.ExportFormat()
			}

			value, err := node.Get(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(value)
		},
	}

	cmd.Flags().StringVar(&orderBy, "order-by", "", `Key to order results by ("$key", "$value", "$priority", or a child key)`)
	cmd.Flags().StringVar(&startAt, "start-at", "", "Lower bound for the ordered range (JSON value)")
	cmd.Flags().StringVar(&endAt, "end-at", "", "Upper bound for the ordered range (JSON value)")
	cmd.Flags().StringVar(&equalTo, "equal-to", "", "Exact match for the ordered value (JSON value)")
	cmd.Flags().IntVar(&limitToFirst, "limit-to-first", 0, "Keep only the first N results")
	cmd.Flags().IntVar(&limitToLast, "limit-to-last", 0, "Keep only the last N results")
	cmd.Flags().BoolVar(&shallow, "shallow", false, "Truncate children to true instead of returning them")
	cmd.Flags().BoolVar(&export, "export", false, "Include priority metadata in the result")

	return cmd
}
