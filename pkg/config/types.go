package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent lantern configuration stored as
// config.toml in the .lantern/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Recorder RecorderConfig `toml:"recorder"`
	Bridge   BridgeConfig   `toml:"bridge"`
	Client   ClientConfig   `toml:"client"`
}

// DatabaseConfig holds Realtime Database connection settings.
type DatabaseConfig struct {
	URL   string `toml:"url,omitempty"`
	Token string `toml:"token,omitempty"`
}

// AuthConfig holds Identity Toolkit settings.
type AuthConfig struct {
	URL      string `toml:"url,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
	Emulator bool   `toml:"emulator,omitempty"`
}

// RecorderConfig holds settings for persisting watched events.
type RecorderConfig struct {
	Driver      string `toml:"driver,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// BridgeConfig holds settings for the Kafka change-event bridge. Brokers is
// a comma-separated host:port list.
type BridgeConfig struct {
	KafkaBrokers string `toml:"kafka_brokers,omitempty"`
	KafkaTopic   string `toml:"kafka_topic,omitempty"`
}

// ClientConfig holds HTTP client settings shared by the database and auth
// clients.
type ClientConfig struct {
	TimeoutSeconds uint `toml:"timeout_seconds,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"database.url": {
		get: func(c *Config) string { return c.Database.URL },
		set: func(c *Config, v string) error { c.Database.URL = v; return nil },
	},
	"database.token": {
		get: func(c *Config) string { return c.Database.Token },
		set: func(c *Config, v string) error { c.Database.Token = v; return nil },
	},
	"auth.url": {
		get: func(c *Config) string { return c.Auth.URL },
		set: func(c *Config, v string) error { c.Auth.URL = v; return nil },
	},
	"auth.api_key": {
		get: func(c *Config) string { return c.Auth.APIKey },
		set: func(c *Config, v string) error { c.Auth.APIKey = v; return nil },
	},
	"auth.emulator": {
		get: func(c *Config) string { return strconv.FormatBool(c.Auth.Emulator) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for auth.emulator: %w", err)
			}
			c.Auth.Emulator = b
			return nil
		},
	},
	"recorder.driver": {
		get: func(c *Config) string { return c.Recorder.Driver },
		set: func(c *Config, v string) error { c.Recorder.Driver = v; return nil },
	},
	"recorder.sqlite_path": {
		get: func(c *Config) string { return c.Recorder.SQLitePath },
		set: func(c *Config, v string) error { c.Recorder.SQLitePath = v; return nil },
	},
	"recorder.postgres_dsn": {
		get: func(c *Config) string { return c.Recorder.PostgresDSN },
		set: func(c *Config, v string) error { c.Recorder.PostgresDSN = v; return nil },
	},
	"bridge.kafka_brokers": {
		get: func(c *Config) string { return c.Bridge.KafkaBrokers },
		set: func(c *Config, v string) error { c.Bridge.KafkaBrokers = v; return nil },
	},
	"bridge.kafka_topic": {
		get: func(c *Config) string { return c.Bridge.KafkaTopic },
		set: func(c *Config, v string) error { c.Bridge.KafkaTopic = v; return nil },
	},
	"client.timeout_seconds": {
		get: func(c *Config) string {
			if c.Client.TimeoutSeconds == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Client.TimeoutSeconds), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for client.timeout_seconds: %w", err)
			}
			c.Client.TimeoutSeconds = uint(n)
			return nil
		},
	},
}
