package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/TxnLab/stakeview/internal/cache"
	"github.com/TxnLab/stakeview/internal/cache/promcache"
	"github.com/TxnLab/stakeview/internal/config"
	"github.com/TxnLab/stakeview/internal/lib/dashboard"
	"github.com/TxnLab/stakeview/internal/lib/misc"
	"github.com/TxnLab/stakeview/internal/lib/ranking"
	"github.com/TxnLab/stakeview/internal/lib/staking"
)

var logLevel = new(slog.LevelVar) // Info by default

// StakeviewApp owns everything with process lifetime: logger, cache registry and the
// services built over them. Commands receive it explicitly.
type StakeviewApp struct {
	cliCmd *cli.Command
	logger *slog.Logger
	cfg    config.Config

	// flag destinations, converted into cfg in initServices
	cacheTTLMillis   uint64
	cacheMaxEntries  uint64
	blockTimeSeconds uint64
	commissionBP     uint64

	registerer prometheus.Registerer
	source     *staking.FileSource
	registry   *cache.Registry
	staking    *staking.Service
	ranking    *ranking.Engine
	dash       *dashboard.Dashboard
}

func initApp() *StakeviewApp {
	log.SetFlags(0)
	// Are we running on something where output is a tty - so we're being run as CLI vs as a daemon
	logger := misc.NewLogger(os.Stdout, logLevel, term.IsTerminal(int(os.Stdout.Fd())))
	slog.SetDefault(logger)
	if os.Getenv("DEBUG") == "1" {
		logLevel.Set(slog.LevelDebug)
	}

	misc.LoadEnvSettings(logger)

	// We initialize our wrapper instance first, so we can call its methods in the 'Before' lambda func
	// in initialization of cli App instance.
	app := &StakeviewApp{
		logger:     logger,
		cfg:        config.Default(),
		registerer: prometheus.DefaultRegisterer,
	}

	app.cliCmd = &cli.Command{
		Name:    "stakeview",
		Usage:   "Staking dashboard API and reporting tool for validators and delegators",
		Version: misc.GetVersionInfo(),
		Before: func(ctx context.Context, cmd *cli.Command) error {
			// flags and env sources have been applied by now
			return app.initServices(ctx, cmd)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "envfile",
				Usage:   "env file to load",
				Sources: cli.EnvVars("STAKEVIEW_ENVFILE"),
				Aliases: []string{"e"},
			},
			&cli.StringFlag{
				Name:        "snapshot",
				Usage:       "Path of the staking contract snapshot (JSON) to serve",
				Sources:     cli.EnvVars("STAKEVIEW_SNAPSHOT"),
				Aliases:     []string{"s"},
				Destination: &app.cfg.SnapshotPath,
			},
			&cli.UintFlag{
				Name:        "cache-ttl",
				Usage:       "Default cache entry lifetime in milliseconds",
				Sources:     cli.EnvVars("CACHE_TTL_MS"),
				Value:       uint64(config.DefaultCacheTTL / time.Millisecond),
				Destination: &app.cacheTTLMillis,
				OnlyOnce:    true,
			},
			&cli.UintFlag{
				Name:        "cache-max-entries",
				Usage:       "Maximum entries held per cache namespace",
				Sources:     cli.EnvVars("CACHE_MAX_ENTRIES"),
				Value:       config.DefaultCacheMaxEntries,
				Destination: &app.cacheMaxEntries,
				OnlyOnce:    true,
			},
			&cli.DurationFlag{
				Name:        "cache-sweep",
				Usage:       "Interval of the expired entry sweep (0 disables it)",
				Sources:     cli.EnvVars("CACHE_CLEANUP_INTERVAL"),
				Value:       config.DefaultCacheSweep,
				Destination: &app.cfg.CacheSweep,
			},
			&cli.FloatFlag{
				Name:        "inflation-rate",
				Usage:       "Yearly network inflation as a fraction, used when a validator has no reward history",
				Sources:     cli.EnvVars("NETWORK_INFLATION_RATE"),
				Value:       app.cfg.InflationRate,
				Destination: &app.cfg.InflationRate,
			},
			&cli.UintFlag{
				Name:        "block-time",
				Usage:       "Block time in seconds",
				Sources:     cli.EnvVars("BLOCK_TIME_SECONDS"),
				Value:       uint64(config.DefaultBlockTime / time.Second),
				Destination: &app.blockTimeSeconds,
				OnlyOnce:    true,
			},
			&cli.UintFlag{
				Name:        "default-commission",
				Usage:       "Commission (basis points) assumed for validators reporting an invalid rate",
				Sources:     cli.EnvVars("DEFAULT_COMMISSION_BP"),
				Value:       uint64(app.cfg.DefaultCommissionBP),
				Destination: &app.commissionBP,
				OnlyOnce:    true,
			},
		},
		Commands: []*cli.Command{
			app.daemonCommand(),
			app.validatorCommand(),
			app.rankCommand(),
			app.statsCommand(),
			app.exportCommand(),
		},
	}
	return app
}

// initServices validates configuration, loads the snapshot and wires the cache registry and
// services. Runs once, before any command action.
func (app *StakeviewApp) initServices(ctx context.Context, cmd *cli.Command) error {
	if envfile := cmd.String("envfile"); envfile != "" {
		if err := misc.LoadEnvFile(app.logger, envfile); err != nil {
			return err
		}
	}
	app.cfg.CacheTTL = time.Duration(app.cacheTTLMillis) * time.Millisecond
	app.cfg.CacheMaxEntries = int(app.cacheMaxEntries)
	app.cfg.BlockTime = time.Duration(app.blockTimeSeconds) * time.Second
	app.cfg.DefaultCommissionBP = uint32(min(app.commissionBP, 1<<32-1))
	if err := app.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return app.wire(ctx)
}

// wire builds the services from app.cfg and loads the first snapshot.
func (app *StakeviewApp) wire(ctx context.Context) error {
	app.source = staking.NewFileSource(app.logger, app.cfg.SnapshotPath)
	if err := app.source.Load(ctx); err != nil {
		return err
	}
	cacheMetrics := promcache.New(app.registerer, "stakeview", "cache")
	app.registry = cache.NewRegistry(app.cfg.CacheOptions(), cacheMetrics.For)
	app.staking = staking.NewService(app.logger, app.source, app.registry)
	app.ranking = ranking.NewEngine(app.logger, app.staking)
	app.dash = dashboard.New(app.logger, app.registry, app.staking, app.ranking, app.cfg.YieldParams())
	misc.Debugf(app.logger, "services initialized, cache ttl:%v max entries:%d", app.cfg.CacheTTL, app.cfg.CacheMaxEntries)
	return nil
}

// Close tears down the cache registry. Safe when initialization never ran.
func (app *StakeviewApp) Close() {
	if app.registry != nil {
		app.registry.Destroy()
	}
}
