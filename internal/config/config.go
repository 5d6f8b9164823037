// Package config holds the runtime settings shared by every command.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/TxnLab/stakeview/internal/cache"
	"github.com/TxnLab/stakeview/internal/lib/yield"
)

const (
	DefaultCacheTTL        = 30 * time.Second
	DefaultCacheMaxEntries = 1000
	DefaultCacheSweep      = 60 * time.Second
	DefaultBlockTime       = 2 * time.Second
	DefaultListen          = ":8080"
	DefaultReloadInterval  = time.Minute
)

type Config struct {
	SnapshotPath string

	CacheTTL        time.Duration
	CacheMaxEntries int
	CacheSweep      time.Duration

	InflationRate       float64
	BlockTime           time.Duration
	DefaultCommissionBP uint32

	Listen         string
	ReloadInterval time.Duration
}

func Default() Config {
	return Config{
		CacheTTL:            DefaultCacheTTL,
		CacheMaxEntries:     DefaultCacheMaxEntries,
		CacheSweep:          DefaultCacheSweep,
		InflationRate:       yield.DefaultInflationRate,
		BlockTime:           DefaultBlockTime,
		DefaultCommissionBP: yield.DefaultCommissionBP,
		Listen:              DefaultListen,
		ReloadInterval:      DefaultReloadInterval,
	}
}

// Validate checks the settings before anything is built from them. All problems are
// reported together.
func (c Config) Validate() error {
	var errs []error
	if c.SnapshotPath == "" {
		errs = append(errs, errors.New("snapshot path must be set (--snapshot or STAKEVIEW_SNAPSHOT)"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache ttl must be positive, got %v", c.CacheTTL))
	}
	if c.CacheMaxEntries < 1 {
		errs = append(errs, fmt.Errorf("cache max entries must be at least 1, got %d", c.CacheMaxEntries))
	}
	if c.CacheSweep < 0 {
		errs = append(errs, fmt.Errorf("cache sweep interval can't be negative, got %v", c.CacheSweep))
	}
	if c.InflationRate < 0 || c.InflationRate > 1 {
		errs = append(errs, fmt.Errorf("inflation rate is a fraction between 0 and 1, got %v", c.InflationRate))
	}
	if c.BlockTime <= 0 {
		errs = append(errs, fmt.Errorf("block time must be positive, got %v", c.BlockTime))
	}
	if c.DefaultCommissionBP > yield.MaxBasisPoints {
		errs = append(errs, fmt.Errorf("default commission can't exceed %d basis points, got %d", yield.MaxBasisPoints, c.DefaultCommissionBP))
	}
	if c.ReloadInterval < 0 {
		errs = append(errs, fmt.Errorf("reload interval can't be negative, got %v", c.ReloadInterval))
	}
	return errors.Join(errs...)
}

// CacheOptions for the registry. A zero sweep interval disables the background sweep.
func (c Config) CacheOptions() cache.Options {
	sweep := c.CacheSweep
	if sweep == 0 {
		sweep = -1
	}
	return cache.Options{
		MaxSize:       c.CacheMaxEntries,
		DefaultTTL:    c.CacheTTL,
		SweepInterval: sweep,
	}
}

func (c Config) YieldParams() yield.Params {
	return yield.Params{
		InflationRate:       c.InflationRate,
		BlocksPerYear:       yield.BlocksPerYear(c.BlockTime),
		DefaultCommissionBP: c.DefaultCommissionBP,
		CompoundingPeriods:  yield.DefaultCompoundingPeriods,
	}
}
