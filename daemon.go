package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/TxnLab/stakeview/internal/api"
	"github.com/TxnLab/stakeview/internal/cache"
	"github.com/TxnLab/stakeview/internal/lib/misc"
	"github.com/TxnLab/stakeview/internal/lib/staking"
)

// snapshotSource is the part of staking.FileSource the daemon drives.
type snapshotSource interface {
	Changed() (bool, error)
	Load(ctx context.Context) error
}

// Daemon serves the API and keeps the snapshot and staking gauges fresh in the background.
type Daemon struct {
	logger   *slog.Logger
	source   snapshotSource
	staking  *staking.Service
	registry *cache.Registry
	server   *http.Server

	reloadEvery time.Duration

	// embed mutex for locking state for members below the mutex
	sync.RWMutex
	lastReload time.Time
}

func (app *StakeviewApp) newDaemon(listen string, reloadEvery time.Duration) *Daemon {
	handler := api.New(api.ServerOptions{
		Logger:    app.logger,
		Dashboard: app.dash,
		Registry:  app.registry,
	})
	return &Daemon{
		logger:   app.logger,
		source:   app.source,
		staking:  app.staking,
		registry: app.registry,
		server: &http.Server{
			Addr:              listen,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		reloadEvery: reloadEvery,
	}
}

func (d *Daemon) start(ctx context.Context, wg *sync.WaitGroup, errc chan<- error) {
	d.logger.Info("Starting stakeview daemon", "listen", d.server.Addr)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("api server: %w", err)
		}
	}()

	if d.reloadEvery > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.SnapshotWatcher(ctx)
		}()
	}
}

// stop shuts the API server down, letting in-flight requests finish within the timeout.
func (d *Daemon) stop(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return d.server.Shutdown(ctx)
}

// SnapshotWatcher reloads the snapshot whenever the file changes, checked on wall-clock
// aligned intervals, and republishes the staking gauges.
func (d *Daemon) SnapshotWatcher(ctx context.Context) {
	defer d.logger.Info("Exiting SnapshotWatcher")
	d.logger.Info("Starting SnapshotWatcher")

	d.refreshGauges(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(durationToNextRefresh(time.Now(), d.reloadEvery)):
			if _, err := d.reloadIfChanged(ctx); err != nil {
				// try later.
				misc.Warnf(d.logger, "snapshot reload failed, keeping current data: %v", err)
			}
			d.refreshGauges(ctx)
		}
	}
}

// reloadIfChanged reloads the snapshot when the file changed and drops every cached value
// derived from the old one.
func (d *Daemon) reloadIfChanged(ctx context.Context) (bool, error) {
	changed, err := d.source.Changed()
	if err != nil || !changed {
		return false, err
	}
	if err := d.source.Load(ctx); err != nil {
		return false, err
	}
	cleared := d.registry.ClearAll()
	d.Lock()
	d.lastReload = time.Now()
	d.Unlock()
	misc.Infof(d.logger, "snapshot reloaded, %d cached entries dropped", cleared)
	return true, nil
}

func (d *Daemon) LastReload() time.Time {
	d.RLock()
	defer d.RUnlock()
	return d.lastReload
}

func (d *Daemon) refreshGauges(ctx context.Context) {
	if err := d.staking.Refresh(ctx); err != nil {
		d.logger.Warn("staking gauges refreshed with upstream failures", "error", err)
	}
}

// durationToNextRefresh returns the time from now until the next multiple of every, counted
// from the zero time. When now is exactly on a boundary the full interval is returned.
func durationToNextRefresh(now time.Time, every time.Duration) time.Duration {
	if every <= 0 {
		return 0
	}
	return every - now.Sub(now.Truncate(every))
}
