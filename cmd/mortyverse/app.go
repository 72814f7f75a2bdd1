package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sternrassler/mortyverse/internal/config"
	"github.com/Sternrassler/mortyverse/pkg/client"
	"github.com/Sternrassler/mortyverse/pkg/logging"
	"github.com/Sternrassler/mortyverse/pkg/rickmorty"
	"github.com/Sternrassler/mortyverse/pkg/tmdb"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const redisPingTimeout = 2 * time.Second

// app carries the configuration and lazily created clients of one invocation.
type app struct {
	v   *viper.Viper
	cfg *config.Config

	redis   *redis.Client
	http    *client.Client
	logFile *os.File
}

func newApp() *app {
	return &app{v: viper.New()}
}

// run builds the command tree and executes it with args.
func run(ctx context.Context, args []string) error {
	return runWith(ctx, args, os.Stdout, os.Stderr)
}

func runWith(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := newApp()
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mortyverse",
		Short:         "Browse TMDB movies and Rick and Morty characters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/mortyverse/config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	lo.Must0(a.v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level")))

	root.AddCommand(
		a.browseCmd(),
		a.listCmd(),
		a.movieCmd(),
		a.characterCmd(),
		a.serveCmd(),
		versionCmd(),
	)
	return root
}

// load reads the configuration and sets up logging on stderr.
func (a *app) load(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.v, path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.Setup(logging.Config{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// logToFile moves logging into the configured log file.
func (a *app) logToFile() error {
	f, err := logging.OpenFile(a.cfg.Logging.File)
	if err != nil {
		return err
	}
	a.logFile = f
	logging.Setup(logging.Config{
		Level:  logging.ParseLevel(a.cfg.Logging.Level),
		Output: f,
	})
	return nil
}

// transport returns the shared HTTP client, connecting to Redis first when
// redis.addr is set. An unreachable Redis disables caching instead of failing.
func (a *app) transport(ctx context.Context) (*client.Client, error) {
	if a.http != nil {
		return a.http, nil
	}

	clientCfg := client.DefaultConfig(a.cfg.HTTP.UserAgent)
	clientCfg.Timeout = a.cfg.HTTP.Timeout
	clientCfg.RequestsPerSecond = a.cfg.HTTP.RequestsPerSecond
	clientCfg.Burst = a.cfg.HTTP.Burst

	if a.cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		err := rdb.Ping(pingCtx).Err()
		cancel()

		if err != nil {
			log.Warn().Err(err).Str("addr", a.cfg.Redis.Addr).Msg("Redis unavailable, caching disabled")
			_ = rdb.Close()
		} else {
			log.Info().Str("addr", a.cfg.Redis.Addr).Msg("Connected to Redis")
			a.redis = rdb
			clientCfg.Redis = rdb
		}
	}

	httpClient, err := client.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	a.http = httpClient
	return httpClient, nil
}

// movies returns the TMDB repository. It fails without an API key.
func (a *app) movies(ctx context.Context) (*tmdb.Client, error) {
	if err := a.cfg.RequireTMDB(); err != nil {
		return nil, err
	}
	httpClient, err := a.transport(ctx)
	if err != nil {
		return nil, err
	}
	return tmdb.NewClient(httpClient, a.cfg.TMDBConfiguration())
}

func (a *app) characters(ctx context.Context) (*rickmorty.Client, error) {
	httpClient, err := a.transport(ctx)
	if err != nil {
		return nil, err
	}
	return rickmorty.NewClient(httpClient, a.cfg.RickMortyConfiguration())
}

func (a *app) close() {
	if a.http != nil {
		_ = a.http.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
