// Package initcmder provides the init command for initializing a local
// .lantern directory in the current working directory.
package initcmder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/config"
)

const (
	dirName = ".lantern"
)

const initLongDesc string = `Initialize a new .lantern/ directory in the current working directory.

Creates a local .lantern/ directory that takes precedence over the default
~/.lantern/ directory for configuration and recorded sessions.

This is useful for maintaining separate lantern state per project or directory.

Optionally seed the configuration from a preset:
  production    Empty database and auth endpoints, ready for a real project
  emulator      Local Firebase emulator suite endpoints

Examples:
  lantern init
  lantern init --preset emulator`

const initShortDesc string = "Initialize a local .lantern/ directory"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(preset)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Seed config.toml from a preset (production, emulator)")

	return cmd
}

func runInit(preset string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	if err == nil && info.IsDir() && preset == "" {
		fmt.Printf("Already initialized: %s\n", dir)
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .lantern directory: %w", err)
	}

	if preset != "" {
		cfg, err := config.PresetConfig(preset)
		if err != nil {
			return fmt.Errorf("unknown preset: %q\n\nValid presets: %s",
				preset, strings.Join(config.ValidPresetNames(), ", "))
		}

		cfger, err := config.NewConfiger(dir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if err := cfger.SaveConfig(cfg); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Initialized .lantern directory with %s preset: %s\n", preset, dir)
		return nil
	}

	fmt.Printf("Initialized .lantern directory: %s\n", dir)
	return nil
}
