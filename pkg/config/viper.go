package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lanternhq/lantern/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the LANTERN_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (LANTERN_DATABASE_URL, LANTERN_AUTH_API_KEY, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: LANTERN_DATABASE_URL, LANTERN_BRIDGE_KAFKA_TOPIC, etc.
	v.SetEnvPrefix("LANTERN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Database
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.token", d.Database.Token)

	// Auth
	v.SetDefault("auth.url", d.Auth.URL)
	v.SetDefault("auth.api_key", d.Auth.APIKey)
	v.SetDefault("auth.emulator", d.Auth.Emulator)

	// Recorder
	v.SetDefault("recorder.driver", d.Recorder.Driver)
	v.SetDefault("recorder.sqlite_path", d.Recorder.SQLitePath)
	v.SetDefault("recorder.postgres_dsn", d.Recorder.PostgresDSN)

	// Bridge
	v.SetDefault("bridge.kafka_brokers", d.Bridge.KafkaBrokers)
	v.SetDefault("bridge.kafka_topic", d.Bridge.KafkaTopic)

	// Client
	v.SetDefault("client.timeout_seconds", d.Client.TimeoutSeconds)
}
