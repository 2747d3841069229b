// Package watchcmder provides the watch command for streaming live
// database changes to the terminal, optionally recording them or
// bridging them onto a Kafka topic.
package watchcmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lanternhq/lantern/pkg/cliui"
	"github.com/lanternhq/lantern/pkg/config"
	"github.com/lanternhq/lantern/pkg/eventstream"
	eskafka "github.com/lanternhq/lantern/pkg/eventstream/kafka"
	"github.com/lanternhq/lantern/pkg/logger"
	"github.com/lanternhq/lantern/pkg/recorder"
	"github.com/lanternhq/lantern/pkg/recorder/postgres"
	"github.com/lanternhq/lantern/pkg/recorder/sqlite"
	"github.com/lanternhq/lantern/pkg/rtdb"
)

const watchLongDesc string = `Stream live changes at a database path.

Opens an event stream on the path and prints every change until
interrupted. The stream carries an initial put with the current value,
then a put or patch per change, plus periodic keep-alive heartbeats.

With --record, events are persisted under a fresh session ID using the
configured recorder backend (sqlite or postgres). With --publish, each
event is also bridged onto a Kafka topic as a versioned change envelope.
With --log-file, JSON diagnostics are appended to the given file.

Examples:
  lantern watch /rooms/lobby
  lantern watch /scores --order-by '$value' --limit-to-last 3
  lantern watch /rooms --record
  lantern watch /rooms --record --recorder-driver postgres
  lantern watch /rooms --publish --kafka-topic room-events`

const watchShortDesc string = "Stream live changes at a database path"

type watchCommander struct {
	databaseURL string
	token       string
	orderBy     string
	limitToLast int
	debug       bool

	record         bool
	recorderDriver string
	sqlitePath     string
	postgresDSN    string

	publish      bool
	kafkaBrokers string
	kafkaTopic   string

	logFile string
	logger  *slog.Logger
}

func NewWatchCmd() *cobra.Command {
	cmder := &watchCommander{}

	cmd := &cobra.Command{
		Use:   "watch <path>",
		Short: watchShortDesc,
		Long:  watchLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), args[0])
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.databaseURL, "database-url", "u", defaults.Database.URL, "Realtime Database URL")
	cmd.Flags().StringVarP(&cmder.token, "token", "t", "", "Identity Toolkit ID token for authenticated access")
	cmd.Flags().StringVar(&cmder.orderBy, "order-by", "", `Key to order the watched range by`)
	cmd.Flags().IntVar(&cmder.limitToLast, "limit-to-last", 0, "Watch only the last N children")
	cmd.Flags().BoolVar(&cmder.record, "record", false, "Persist events with the configured recorder backend")
	cmd.Flags().StringVar(&cmder.recorderDriver, "recorder-driver", defaults.Recorder.Driver, "Recorder backend (sqlite, postgres)")
	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", defaults.Recorder.SQLitePath, "Path to the recorder SQLite database")
	cmd.Flags().StringVar(&cmder.postgresDSN, "postgres-dsn", "", "Recorder PostgreSQL connection string")
	cmd.Flags().BoolVar(&cmder.publish, "publish", false, "Bridge events onto a Kafka topic")
	cmd.Flags().StringVar(&cmder.kafkaBrokers, "kafka-brokers", defaults.Bridge.KafkaBrokers, "Comma-separated Kafka broker addresses")
	cmd.Flags().StringVar(&cmder.kafkaTopic, "kafka-topic", defaults.Bridge.KafkaTopic, "Kafka topic for change events")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

// loadConfig merges file-backed config into any flag the user did not set.
func (c *watchCommander) loadConfig(cmd *cobra.Command) error {
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
	if !cmd.Flags().Changed("recorder-driver") {
		c.recorderDriver = cfg.Recorder.Driver
	}
	if !cmd.Flags().Changed("sqlite") {
		c.sqlitePath = cfg.Recorder.SQLitePath
	}
	if !cmd.Flags().Changed("postgres-dsn") {
		c.postgresDSN = cfg.Recorder.PostgresDSN
	}
	if !cmd.Flags().Changed("kafka-brokers") {
		c.kafkaBrokers = cfg.Bridge.KafkaBrokers
	}
	if !cmd.Flags().Changed("kafka-topic") {
		c.kafkaTopic = cfg.Bridge.KafkaTopic
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

func (c *watchCommander) run(ctx context.Context, path string) error {
	if c.logFile != "" {
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		c.logger = logger.Multi(c.logger,
			logger.New(logger.WithJSON(true), logger.WithWriter(f), logger.WithDebug(c.debug)))
	}

	databaseURL := c.databaseURL
	if host := os.Getenv("FIREBASE_DATABASE_EMULATOR_HOST"); host != "" {
		databaseURL = "http://" + host
	}
	if databaseURL == "" {
		return errors.New("no database URL configured; pass --database-url or set database.url")
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
	if c.orderBy != "" {
		node = node.OrderBy(c.orderBy)
	}
	if c.limitToLast > 0 {
		node = node.LimitToLast(c.limitToLast)
	}

	var pool *recorder.Pool
	sessionID := recorder.NewSessionID()
	if c.record {
		store, err := c.newStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		pool, err = recorder.NewPool(&recorder.Config{
			Store:  store,
			Logger: c.logger,
		})
		if err != nil {
			return fmt.Errorf("creating recorder pool: %w", err)
		}
		defer pool.Close()

		fmt.Printf("%s Recording session %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(sessionID))
	}

	var publisher eventstream.Publisher
	if c.publish {
		var err error
		publisher, err = eskafka.NewPublisher(&eskafka.Config{
			Brokers: strings.Split(c.kafkaBrokers, ","),
			Topic:   c.kafkaTopic,
			Logger:  c.logger,
		})
		if err != nil {
			return fmt.Errorf("creating kafka publisher: %w", err)
		}
		defer publisher.Close()
	}

	sub, err := node.Watch(ctx)
	if err != nil {
		return fmt.Errorf("opening event stream: %w", err)
	}
	defer sub.Close()

	fmt.Printf("%s Watching %s\n", cliui.SuccessMark, cliui.KeyStyle.Render("/"+node.Path()))

	source := eventstream.EventSource{
		DatabaseURL: databaseURL,
		WatchPath:   "/" + node.Path(),
		SessionID:   sessionID,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				if err := sub.Err(); err != nil {
					return fmt.Errorf("event stream ended: %w", err)
				}
				return nil
			}

			fmt.Println(cliui.RenderEvent(ev))

			if pool != nil && ev.Type != rtdb.EventTypeKeepAlive {
				rec, err := recorder.NewRecord(sessionID, ev)
				if err != nil {
					c.logger.Error("encoding event record failed", "error", err)
				} else {
					pool.Enqueue(rec)
				}
			}

			if publisher != nil && ev.Type != rtdb.EventTypeKeepAlive {
				event := eventstream.NewChangeEvent(source, ev)
				if err := publisher.PublishChange(ctx, event); err != nil {
					c.logger.Error("publishing change event failed", "error", err)
				}
			}

		case <-sigChan:
			return nil
		}
	}
}

// newStore builds the recorder backend selected by --recorder-driver.
func (c *watchCommander) newStore(ctx context.Context) (recorder.Store, error) {
	switch c.recorderDriver {
	case "sqlite":
		store, err := sqlite.NewStore(c.sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite recorder: %w", err)
		}
		c.logger.Info("recording to sqlite", "path", c.sqlitePath)
		return store, nil

	case "postgres":
		if c.postgresDSN == "" {
			return nil, errors.New("recorder.postgres_dsn is required for the postgres recorder")
		}
		store, err := postgres.NewStore(ctx, c.postgresDSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres recorder: %w", err)
		}
		c.logger.Info("recording to postgres")
		return store, nil

	default:
		return nil, fmt.Errorf("unknown recorder driver: %q (sqlite, postgres)", c.recorderDriver)
	}
}
