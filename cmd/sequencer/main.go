package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	_ "go.uber.org/automaxprocs"

	"github.com/bluesky-social/pds-sequencer/bgqueue"
	"github.com/bluesky-social/pds-sequencer/crawlers"
	"github.com/bluesky-social/pds-sequencer/events"
	"github.com/bluesky-social/pds-sequencer/sequencer"
	"github.com/bluesky-social/pds-sequencer/util"
	"github.com/bluesky-social/pds-sequencer/util/cliutil"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
	"gorm.io/plugin/opentelemetry/tracing"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting process", "err", err.Error())
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "sequencer",
		Usage:   "atproto repo event sequencer and firehose",
		Version: versioninfo.Short(),
	}
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			EnvVars: []string{"SEQUENCER_LOG_LEVEL", "GO_LOG_LEVEL", "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "log output format (text or json)",
			Value:   "json",
			EnvVars: []string{"SEQUENCER_LOG_FORMAT"},
		},
	}
	app.Commands = []*cli.Command{
		&cli.Command{
			Name:   "serve",
			Usage:  "run the sequencer daemon",
			Action: runSequencer,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "db-url",
					Usage:   "database connection string for the sequencer log",
					Value:   "sqlite://data/sequencer/sequencer.sqlite",
					EnvVars: []string{"DATABASE_URL", "PDS_SEQUENCER_DB_URL"},
				},
				&cli.IntFlag{
					Name:    "max-db-conn",
					Usage:   "limit on size of database connection pool",
					Value:   20,
					EnvVars: []string{"MAX_DB_CONNECTIONS"},
				},
				&cli.StringFlag{
					Name:    "hostname",
					Usage:   "public hostname of this service, sent to crawlers in requestCrawl",
					EnvVars: []string{"SEQUENCER_HOSTNAME", "PDS_HOSTNAME"},
				},
				&cli.StringSliceFlag{
					Name:    "crawlers",
					Usage:   "relays (eg https://bsky.network) to notify of new events; multiple allowed",
					EnvVars: []string{"SEQUENCER_CRAWLERS", "PDS_CRAWLERS"},
				},
				&cli.StringFlag{
					Name:    "bind",
					Usage:   "IP or address, and port, to listen on for HTTP APIs (including firehose)",
					Value:   ":2582",
					EnvVars: []string{"SEQUENCER_API_BIND"},
				},
				&cli.StringFlag{
					Name:    "metrics-listen",
					Usage:   "IP or address, and port, to listen on for prometheus metrics",
					Value:   ":2583",
					EnvVars: []string{"SEQUENCER_METRICS_LISTEN"},
				},
				&cli.StringFlag{
					Name:    "admin-password",
					Usage:   "secret token for admin endpoints (random is used if not set)",
					EnvVars: []string{"SEQUENCER_ADMIN_PASSWORD", "PDS_ADMIN_PASSWORD"},
				},
				&cli.IntFlag{
					Name:    "subscriber-buffer",
					Usage:   "event batches buffered per firehose consumer before it is dropped as too slow",
					Value:   sequencer.DefaultSubscriberBuffer,
					EnvVars: []string{"SEQUENCER_SUBSCRIBER_BUFFER", "PDS_MAX_SUBSCRIPTION_BUFFER"},
				},
				&cli.DurationFlag{
					Name:    "backfill-limit",
					Usage:   "how far back a firehose cursor may reach; older cursors are moved forward",
					Value:   24 * time.Hour,
					EnvVars: []string{"SEQUENCER_BACKFILL_LIMIT"},
				},
				&cli.IntFlag{
					Name:    "crawl-concurrency",
					Usage:   "number of concurrent requestCrawl calls",
					Value:   4,
					EnvVars: []string{"SEQUENCER_CRAWL_CONCURRENCY"},
				},
				&cli.StringFlag{
					Name:    "env",
					Value:   "dev",
					EnvVars: []string{"ENVIRONMENT"},
					Usage:   "declared hosting environment (prod, qa, etc); used in traces",
				},
				&cli.BoolFlag{
					Name:    "enable-db-tracing",
					EnvVars: []string{"SEQUENCER_ENABLE_DB_TRACING"},
				},
				&cli.StringFlag{
					Name:    "otel-exporter-otlp-endpoint",
					EnvVars: []string{"OTEL_EXPORTER_OTLP_ENDPOINT"},
				},
			},
		},
		cmdTail,
	}
	return app.Run(args)
}

func configLogger(cctx *cli.Context) (*slog.Logger, error) {
	return cliutil.SetupSlog(cliutil.LogOptions{
		LogLevel:  cctx.String("log-level"),
		LogFormat: cctx.String("log-format"),
	})
}

func runSequencer(cctx *cli.Context) error {
	ctx := cctx.Context
	logger, err := configLogger(cctx)
	if err != nil {
		return err
	}

	// Trap SIGINT to trigger a shutdown.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if cctx.String("otel-exporter-otlp-endpoint") != "" {
		shutdownTracing, err := cliutil.SetupTracing(ctx, "sequencer", cctx.String("env"))
		if err != nil {
			return fmt.Errorf("setting up tracing: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				logger.Error("failed to shutdown trace exporter", "err", err)
			}
		}()
	}

	dburl := cctx.String("db-url")
	maxConn := cctx.Int("max-db-conn")
	logger.Info("configuring database", "maxConn", maxConn)
	db, err := cliutil.SetupDatabase(dburl, maxConn)
	if err != nil {
		return err
	}
	if cctx.Bool("enable-db-tracing") {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return err
		}
	}

	persistOpts := events.DefaultDbPersistenceOptions()
	persistOpts.Logger = logger.With("system", "dbpersist")
	persister := events.NewDbPersistence(db, persistOpts)

	var hostname string
	crawlerHosts := cctx.StringSlice("crawlers")
	if len(crawlerHosts) > 0 {
		hostname, err = util.NormalizeHostname(cctx.String("hostname"))
		if err != nil {
			return fmt.Errorf("--hostname is required when crawlers are configured: %w", err)
		}
	}
	queue := bgqueue.New(cctx.Int("crawl-concurrency"), 100, "crawlers")
	crawlOpts := crawlers.DefaultOptions()
	crawlOpts.HTTPClient = cliutil.NewHttpClient(crawlOpts.RequestTimeout)
	crawlOpts.Logger = logger.With("system", "crawlers")
	crawl := crawlers.NewCrawlers(hostname, crawlerHosts, queue, crawlOpts)
	if len(crawl.Crawlers()) > 0 {
		logger.Info("crawlers configured", "crawlers", crawl.Crawlers(), "hostname", hostname)
	}

	seqOpts := sequencer.DefaultOptions()
	seqOpts.SubscriberBuffer = cctx.Int("subscriber-buffer")
	seqOpts.Logger = logger.With("system", "sequencer")
	seq, err := sequencer.NewSequencer(persister, crawl, seqOpts)
	if err != nil {
		return err
	}
	if err := seq.Start(ctx); err != nil {
		return err
	}

	svcConfig := DefaultServiceConfig()
	svcConfig.Outbox.MaxBufferSize = cctx.Int("subscriber-buffer")
	svcConfig.Outbox.BackfillLimit = cctx.Duration("backfill-limit")
	if cctx.IsSet("admin-password") {
		svcConfig.AdminToken = cctx.String("admin-password")
	} else {
		var rblob [10]byte
		_, _ = rand.Read(rblob[:])
		svcConfig.AdminToken = base64.URLEncoding.EncodeToString(rblob[:])
		logger.Info("generated random admin password", "password", svcConfig.AdminToken)
	}

	svc := NewService(db, seq, queue, svcConfig, logger)

	// start metrics endpoint
	go func() {
		if err := svc.StartMetrics(cctx.String("metrics-listen")); err != nil {
			logger.Error("failed to start metrics endpoint", "err", err)
			os.Exit(1)
		}
	}()

	svcErr := make(chan error, 1)
	go func() {
		err := svc.Start(cctx.String("bind"))
		svcErr <- err
	}()

	logger.Info("startup complete", "bind", cctx.String("bind"), "last_seen", seq.LastSeen())
	select {
	case <-signals:
		logger.Info("received shutdown signal")
	case err := <-svcErr:
		if err != nil {
			logger.Error("error during startup", "err", err)
		}
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "err", err)
	}
	logger.Info("shutdown complete")

	return nil
}
