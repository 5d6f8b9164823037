package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/TxnLab/stakeview/internal/config"
	"github.com/TxnLab/stakeview/internal/lib/misc"
)

const shutdownTimeout = 15 * time.Second

func (app *StakeviewApp) daemonCommand() *cli.Command {
	return &cli.Command{
		Name:    "daemon",
		Aliases: []string{"d"},
		Usage:   "Run the API server as a daemon",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "listen",
				Usage:       "Address the API listens on",
				Sources:     cli.EnvVars("STAKEVIEW_LISTEN"),
				Value:       config.DefaultListen,
				Destination: &app.cfg.Listen,
			},
			&cli.DurationFlag{
				Name:        "reload",
				Usage:       "How often to check the snapshot file for changes (0 disables)",
				Sources:     cli.EnvVars("STAKEVIEW_RELOAD_INTERVAL"),
				Value:       config.DefaultReloadInterval,
				Destination: &app.cfg.ReloadInterval,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// daemon flags are only parsed after the root Before hook validated the rest
			if err := app.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return app.runAsDaemon(app.cfg.Listen, app.cfg.ReloadInterval)
		},
	}
}

func (app *StakeviewApp) runAsDaemon(listen string, reloadEvery time.Duration) error {
	var wg sync.WaitGroup

	// Create channel used by both the signal handler and server goroutines
	// to notify the main goroutine when to stop the server.
	errc := make(chan error, 2)

	// Setup interrupt handler. This optional step configures the process so
	// that SIGINT and SIGTERM signals cause the services to stop gracefully.
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	ctx, cancel := context.WithCancel(context.Background())

	daemon := app.newDaemon(listen, reloadEvery)
	daemon.start(ctx, &wg, errc)

	misc.Infof(app.logger, "exiting (%v)", <-errc) // wait for termination signal

	// Stop taking requests first, then the background tasks. The cache registry goes last,
	// in app.Close.
	if err := daemon.stop(shutdownTimeout); err != nil {
		misc.Warnf(app.logger, "api server shutdown: %v", err)
	}
	cancel()
	misc.Infof(app.logger, "waiting on background tasks..")
	wg.Wait()

	misc.Infof(app.logger, "exited")
	return nil
}
