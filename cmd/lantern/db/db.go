// Package dbcmder provides commands for reading and writing Realtime
// Database paths.
package dbcmder

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/config"
	"github.com/lanternhq/lantern/pkg/logger"
	"github.com/lanternhq/lantern/pkg/rtdb"
)

const dbLongDesc string = `Read and write Realtime Database paths.

All subcommands address data by a slash-separated path relative to the
database root. Values are given as JSON.

The database URL and auth token come from flags, the LANTERN_ environment,
or the .lantern/config.toml file, in that order. When
FIREBASE_DATABASE_EMULATOR_HOST is set it overrides the database URL.

Examples:
  lantern db get /users/alice
  lantern db get /scores --order-by '$value' --limit-to-last 3
  lantern db set /users/alice '{"name": "Alice"}'
  lantern db push /messages '{"text": "hello"}'
  lantern db update /users/alice '{"age": 30}'
  lantern db delete /users/alice`

const dbShortDesc string = "Read and write Realtime Database paths"

// dbCommander carries the connection settings shared by every db
// subcommand.
type dbCommander struct {
	databaseURL string
	token       string
	timeout     uint
	debug       bool

	logger *slog.Logger
}

func NewDbCmd() *cobra.Command {
	cmder := &dbCommander{}

	cmd := &cobra.Command{
		Use:   "db",
		Short: dbShortDesc,
		Long:  dbLongDesc,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.loadConfig(cmd)
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.PersistentFlags().StringVarP(&cmder.databaseURL, "database-url", "u", defaults.Database.URL, "Realtime Database URL")
	cmd.PersistentFlags().StringVarP(&cmder.token, "token", "t", "", "Identity Toolkit ID token for authenticated access")
	cmd.PersistentFlags().UintVar(&cmder.timeout, "timeout", defaults.Client.TimeoutSeconds, "Request timeout in seconds")

	cmd.AddCommand(newGetCmd(cmder))
	cmd.AddCommand(newSetCmd(cmder))
	cmd.AddCommand(newPushCmd(cmder))
	cmd.AddCommand(newUpdateCmd(cmder))
	cmd.AddCommand(newDeleteCmd(cmder))

	return cmd
}

// loadConfig merges file-backed config into any flag the user did not set.
func (c *dbCommander) loadConfig(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cmd.Flags().Changed("database-url") && cfg.Database.URL != "" {
		c.databaseURL = cfg.Database.URL
	}
	if !cmd.Flags().Changed("token") && cfg.Database.Token != "" {
		c.token = cfg.Database.Token
	}
	if !cmd.Flags().Changed("timeout") {
		c.timeout = cfg.Client.TimeoutSeconds
	}

	c.debug, err = cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("could not get debug flag: %w", err)
	}

	if c.debug {
		c.logger = logger.New(logger.WithDebug(true), logger.WithPretty(true))
	} else {
		c.logger = logger.Nop()
	}

	return nil
}

// node resolves the database connection and addresses path on it.
func (c *dbCommander) node(path string) (rtdb.Node, error) {
	databaseURL := c.databaseURL
	if host := os.Getenv("FIREBASE_DATABASE_EMULATOR_HOST"); host != "" {
		databaseURL = "http://" + host
	}
	if databaseURL == "" {
		return rtdb.Node{}, errors.New("no database URL configured; pass --database-url or set database.url")
	}

	opts := []rtdb.Option{rtdb.WithLogger(c.logger)}
	if c.token != "" {
		opts = append(opts, rtdb.WithIDToken(c.token))
	}

	db := rtdb.New(databaseURL, opts...)

	node := db.Root()
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment != "" {
			node = node.Child(segment)
		}
	}

	if c.timeout > 0 {
		node = node.Timeout(time.Duration(c.timeout) * time.Second)
	}

	return node, nil
}

// parseJSONValue decodes arg as JSON; anything that does not parse is
// taken as a plain string, so bare words work without quoting.
func parseJSONValue(arg string) any {
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return arg
	}
	return v
}

// printJSON renders a value as indented JSON on stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
