// Package lanterncmder
package lanterncmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/lanternhq/lantern/cmd/lantern/auth"
	configcmder "github.com/lanternhq/lantern/cmd/lantern/config"
	dbcmder "github.com/lanternhq/lantern/cmd/lantern/db"
	initcmder "github.com/lanternhq/lantern/cmd/lantern/init"
	watchcmder "github.com/lanternhq/lantern/cmd/lantern/watch"
	versioncmder "github.com/lanternhq/lantern/cmd/version"
)

const lanternLongDesc string = `Lantern is a Firebase Realtime Database client for your terminal.

Read and write database paths:
  lantern db get|set|push|update|delete

Stream live changes:
  lantern watch <path>

Manage Identity Toolkit accounts:
  lantern auth signup|signin|refresh`

const lanternShortDesc string = "Lantern - Firebase Realtime Database client"

func NewLanternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lantern",
		Short: lanternShortDesc,
		Long:  lanternLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .lantern/ config directory")

	// Add subcommands
	cmd.AddCommand(dbcmder.NewDbCmd())
	cmd.AddCommand(watchcmder.NewWatchCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
