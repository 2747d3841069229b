package config

const (
	defaultRecorderDriver = "sqlite"
	defaultSQLitePath     = "lantern.db"

	defaultKafkaBrokers = "localhost:9092"
	defaultKafkaTopic   = "lantern-events"

	defaultTimeoutSeconds = 30
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values. Database and auth
// targets have no usable default and stay empty until configured.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Recorder: RecorderConfig{
			Driver:     defaultRecorderDriver,
			SQLitePath: defaultSQLitePath,
		},
		Bridge: BridgeConfig{
			KafkaBrokers: defaultKafkaBrokers,
			KafkaTopic:   defaultKafkaTopic,
		},
		Client: ClientConfig{
			TimeoutSeconds: defaultTimeoutSeconds,
		},
	}
}
