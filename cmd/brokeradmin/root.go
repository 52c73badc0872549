package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ottermq/brokeradmin/config"
	"github.com/ottermq/brokeradmin/internal/output"
	"github.com/ottermq/brokeradmin/pkg/admin"
	"github.com/ottermq/brokeradmin/pkg/logger"
	"github.com/ottermq/brokeradmin/pkg/metrics"
	"github.com/ottermq/brokeradmin/pkg/persistence"
	jsonstore "github.com/ottermq/brokeradmin/pkg/persistence/implementations/json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// cli carries the state shared by every command of one invocation.
type cli struct {
	cfg       *config.Config
	collector *metrics.Collector
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	c := &cli{
		cfg:       cfg,
		collector: metrics.NewCollector(),
	}

	root := &cobra.Command{
		Use:           "brokeradmin",
		Short:         "Manage definitions, queues and shovels through the RabbitMQ management API",
		Version:       cfg.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			logger.InitWithWriter(c.cfg.LogLevel, cmd.ErrOrStderr())
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Host, "host", cfg.Host, "management API host of the target broker")
	flags.StringVar(&cfg.Port, "port", cfg.Port, "management API port of the target broker")
	flags.StringVarP(&cfg.Username, "user", "u", cfg.Username, "management API user")
	flags.StringVarP(&cfg.Password, "password", "p", cfg.Password, "management API password")
	flags.StringVar(&cfg.AMQPPort, "amqp-port", cfg.AMQPPort, "AMQP port of the target broker")
	flags.StringVar(&cfg.SourceHost, "source-host", cfg.SourceHost, "management API host of the source broker")
	flags.StringVar(&cfg.SourcePort, "source-port", cfg.SourcePort, "management API port of the source broker")
	flags.StringVar(&cfg.SourceUsername, "source-user", cfg.SourceUsername, "management API user of the source broker")
	flags.StringVar(&cfg.SourcePassword, "source-password", cfg.SourcePassword, "management API password of the source broker")
	flags.StringVar(&cfg.SourceAMQPPort, "source-amqp-port", cfg.SourceAMQPPort, "AMQP port of the source broker")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per request timeout (0 disables)")
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for definitions snapshots")
	flags.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics to this textfile after the command")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output format: table, json or yaml")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	root.AddCommand(
		newDefinitionsCmd(c),
		newQueuesCmd(c),
		newShovelsCmd(c),
		newPingCmd(c),
		newVersionCmd(c),
	)
	c.flushOnExit(root)
	return root
}

// flushOnExit makes every command write the metrics file when it returns,
// failed runs included.
func (c *cli) flushOnExit(cmd *cobra.Command) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if ferr := c.flushMetrics(); ferr != nil && err == nil {
					err = ferr
				}
			}()
			return run(cmd, args)
		}
	}
	for _, sub := range cmd.Commands() {
		c.flushOnExit(sub)
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func (c *cli) signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func (c *cli) target() *admin.Client {
	return admin.New(c.cfg.Host, c.cfg.Port, c.cfg.Username, c.cfg.Password,
		admin.WithTimeout(c.cfg.Timeout),
		admin.WithMetrics(c.collector),
	)
}

func (c *cli) source() (*admin.Client, error) {
	if !c.cfg.HasSource() {
		return nil, fmt.Errorf("no source broker configured (set BROKERADMIN_SOURCE_HOST or --source-host)")
	}
	return admin.New(c.cfg.SourceHost, c.cfg.SourcePort, c.cfg.SourceUsername, c.cfg.SourcePassword,
		admin.WithTimeout(c.cfg.Timeout),
		admin.WithMetrics(c.collector),
	), nil
}

func (c *cli) store() (persistence.Persistence, error) {
	store, err := jsonstore.NewJsonPersistence(&persistence.Config{
		Type:    "json",
		DataDir: c.cfg.DataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return store, nil
}

func (c *cli) printer(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), c.cfg.Output)
}

func (c *cli) flushMetrics() error {
	if c.cfg.MetricsFile == "" {
		return nil
	}
	if err := c.collector.WriteTextfile(c.cfg.MetricsFile); err != nil {
		return err
	}
	log.Debug().Str("file", c.cfg.MetricsFile).Msg("Metrics written")
	return nil
}
