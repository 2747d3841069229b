// Package configcmder provides the config command for managing persistent
// lantern configuration stored in the .lantern/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent lantern configuration.

Configuration is stored as config.toml in the .lantern/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  database.url, database.token,
  auth.url, auth.api_key, auth.emulator,
  recorder.driver, recorder.sqlite_path, recorder.postgres_dsn,
  bridge.kafka_brokers, bridge.kafka_topic,
  client.timeout_seconds

Use subcommands to get, set, or list configuration values:
  lantern config set <key> <value>    Set a configuration value
  lantern config get <key>            Get a configuration value
  lantern config list                 List all configuration values

Examples:
  lantern config set database.url https://demo.firebaseio.com
  lantern config set auth.api_key AIzaSyExample
  lantern config get database.url
  lantern config list`

const configShortDesc string = "Manage persistent lantern configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
