// mimic is a bot that learns word-transition statistics from prior posts and
// periodically publishes short generated posts to Bluesky and/or Mastodon.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skywrite/mimic/bot"
	"github.com/skywrite/mimic/corpus"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    "mimic",
		Usage:   "markov-chain posting bot",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "enable debug logging",
			EnvVars: []string{"MIMIC_DEBUG"},
		},
		&cli.IntFlag{
			Name:    "state-size",
			Usage:   "width of the word window used as a model key",
			Value:   2,
			EnvVars: []string{"MIMIC_STATE_SIZE"},
		},
		&cli.IntFlag{
			Name:    "min-chars",
			Usage:   "lower bound for an accepted post length",
			Value:   100,
			EnvVars: []string{"MIMIC_MIN_CHARS"},
		},
		&cli.IntFlag{
			Name:    "max-chars",
			Usage:   "upper bound for an accepted post length",
			Value:   280,
			EnvVars: []string{"MIMIC_MAX_CHARS"},
		},
		&cli.IntFlag{
			Name:    "max-tries",
			Usage:   "generation attempt budget before giving up",
			Value:   100,
			EnvVars: []string{"MIMIC_MAX_TRIES"},
		},
		&cli.StringSliceFlag{
			Name:    "excluded-words",
			Usage:   "words stripped from training text (whole-word, case-insensitive)",
			EnvVars: []string{"MIMIC_EXCLUDED_WORDS"},
		},
		&cli.IntFlag{
			Name:    "fetch-page-size",
			Usage:   "how many source posts to pull per training pass",
			Value:   100,
			EnvVars: []string{"MIMIC_FETCH_PAGE_SIZE"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL for corpus storage (eg: redis://localhost:6379/0)",
			EnvVars: []string{"MIMIC_REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "database URL for corpus storage (eg: sqlite://data/mimic.sqlite)",
			EnvVars: []string{"MIMIC_DATABASE_URL", "DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "bsky-host",
			Usage:   "hostname and port of Bluesky PDS instance",
			Value:   "https://bsky.social",
			EnvVars: []string{"MIMIC_BSKY_HOST", "ATP_PDS_HOST"},
		},
		&cli.StringFlag{
			Name:    "bsky-identifier",
			Usage:   "Bluesky account handle or DID (empty disables Bluesky)",
			EnvVars: []string{"MIMIC_BSKY_IDENTIFIER"},
		},
		&cli.StringFlag{
			Name:    "bsky-password",
			Usage:   "Bluesky app password",
			EnvVars: []string{"MIMIC_BSKY_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "bsky-source-repo",
			Usage:   "account whose posts feed the corpus (defaults to the bot account)",
			EnvVars: []string{"MIMIC_BSKY_SOURCE_REPO"},
		},
		&cli.StringFlag{
			Name:    "mastodon-host",
			Usage:   "base URL of Mastodon instance (empty disables Mastodon)",
			EnvVars: []string{"MIMIC_MASTODON_HOST"},
		},
		&cli.StringFlag{
			Name:    "mastodon-token",
			Usage:   "Mastodon access token",
			EnvVars: []string{"MIMIC_MASTODON_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "mastodon-source-account",
			Usage:   "account ID whose statuses feed the corpus (defaults to the bot account)",
			EnvVars: []string{"MIMIC_MASTODON_SOURCE_ACCOUNT"},
		},
		&cli.StringFlag{
			Name:    "mastodon-visibility",
			Usage:   "visibility for published statuses",
			Value:   "public",
			EnvVars: []string{"MIMIC_MASTODON_VISIBILITY"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
		trainCmd,
		composeCmd,
		postCmd,
	}

	return app.Run(args)
}

func setupLogger(cctx *cli.Context, json bool) *slog.Logger {
	level := slog.LevelInfo
	if cctx.Bool("debug") {
		level = slog.LevelDebug
	}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func setupStore(cctx *cli.Context, logger *slog.Logger) (corpus.Store, error) {
	if redisURL := cctx.String("redis-url"); redisURL != "" {
		return corpus.NewRedisStore(redisURL)
	}
	if dbURL := cctx.String("database-url"); dbURL != "" {
		db, err := corpus.OpenDatabase(dbURL, 40)
		if err != nil {
			return nil, err
		}
		return corpus.NewDBStore(db)
	}
	logger.Warn("no redis or database URL configured, corpus will not survive restarts")
	return corpus.NewMemStore(), nil
}

func configFromFlags(cctx *cli.Context, logger *slog.Logger) bot.Config {
	cfg := bot.DefaultConfig()
	cfg.StateSize = cctx.Int("state-size")
	cfg.MinChars = cctx.Int("min-chars")
	cfg.MaxChars = cctx.Int("max-chars")
	cfg.MaxTries = cctx.Int("max-tries")
	cfg.ExcludedWords = cctx.StringSlice("excluded-words")
	cfg.FetchPageSize = cctx.Int("fetch-page-size")
	cfg.BskyHost = cctx.String("bsky-host")
	cfg.BskyIdentifier = cctx.String("bsky-identifier")
	cfg.BskyPassword = cctx.String("bsky-password")
	cfg.BskySourceRepo = cctx.String("bsky-source-repo")
	cfg.MastodonHost = cctx.String("mastodon-host")
	cfg.MastodonToken = cctx.String("mastodon-token")
	cfg.MastodonSourceAccount = cctx.String("mastodon-source-account")
	cfg.MastodonVisibility = cctx.String("mastodon-visibility")
	cfg.Logger = logger
	return cfg
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the bot daemon",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for the admin API",
			Value:   ":8200",
			EnvVars: []string{"MIMIC_BIND"},
		},
		&cli.DurationFlag{
			Name:    "poll-period",
			Usage:   "how often to run a full train/compose/publish cycle",
			Value:   time.Hour,
			EnvVars: []string{"MIMIC_POLL_PERIOD"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := setupLogger(cctx, true)
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := setupStore(cctx, logger)
		if err != nil {
			return err
		}
		cfg := configFromFlags(cctx, logger)
		cfg.PollPeriod = cctx.Duration("poll-period")

		srv, err := bot.NewServer(store, cfg)
		if err != nil {
			return err
		}
		if err := srv.ConnectPlatforms(ctx); err != nil {
			return err
		}

		go func() {
			if err := srv.RunAPI(cctx.String("bind")); err != nil {
				logger.Error("admin API failed", "err", err)
			}
		}()

		if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("bot daemon failed: %w", err)
		}
		return nil
	},
}

var trainCmd = &cli.Command{
	Name:  "train",
	Usage: "fetch new source posts into the corpus, then exit",
	Action: func(cctx *cli.Context) error {
		logger := setupLogger(cctx, false)
		ctx := context.Background()

		store, err := setupStore(cctx, logger)
		if err != nil {
			return err
		}
		srv, err := bot.NewServer(store, configFromFlags(cctx, logger))
		if err != nil {
			return err
		}
		if err := srv.ConnectPlatforms(ctx); err != nil {
			return err
		}

		added, err := srv.TrainFromSources(ctx)
		if err != nil {
			return err
		}
		logger.Info("training pass complete", "added", added)
		return nil
	},
}

var composeCmd = &cli.Command{
	Name:  "compose",
	Usage: "generate a post from the stored corpus and print it, without publishing",
	Action: func(cctx *cli.Context) error {
		logger := setupLogger(cctx, false)
		ctx := context.Background()

		store, err := setupStore(cctx, logger)
		if err != nil {
			return err
		}
		srv, err := bot.NewServer(store, configFromFlags(cctx, logger))
		if err != nil {
			return err
		}

		res, err := srv.Preview(ctx)
		if err != nil {
			return err
		}
		fmt.Println(res.Text)
		return nil
	},
}

var postCmd = &cli.Command{
	Name:  "post",
	Usage: "run a single train/compose/publish cycle, then exit",
	Action: func(cctx *cli.Context) error {
		logger := setupLogger(cctx, false)
		ctx := context.Background()

		store, err := setupStore(cctx, logger)
		if err != nil {
			return err
		}
		srv, err := bot.NewServer(store, configFromFlags(cctx, logger))
		if err != nil {
			return err
		}
		if err := srv.ConnectPlatforms(ctx); err != nil {
			return err
		}

		if _, err := srv.TrainFromSources(ctx); err != nil {
			logger.Warn("training pass failed, composing from existing corpus", "err", err)
		}
		text, err := srv.Compose(ctx)
		if err != nil {
			return err
		}
		return srv.PublishAll(ctx, text)
	},
}
