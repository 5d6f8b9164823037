package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TxnLab/stakeview/internal/lib/yield"
)

func validConfig() Config {
	cfg := Default()
	cfg.SnapshotPath = "snapshot.json"
	return cfg
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no snapshot", func(c *Config) { c.SnapshotPath = "" }, "snapshot path"},
		{"zero ttl", func(c *Config) { c.CacheTTL = 0 }, "cache ttl"},
		{"no entries", func(c *Config) { c.CacheMaxEntries = 0 }, "max entries"},
		{"negative sweep", func(c *Config) { c.CacheSweep = -time.Second }, "sweep"},
		{"inflation over 1", func(c *Config) { c.InflationRate = 5 }, "inflation"},
		{"zero block time", func(c *Config) { c.BlockTime = 0 }, "block time"},
		{"commission over 100%", func(c *Config) { c.DefaultCommissionBP = 10_001 }, "basis points"},
		{"negative reload", func(c *Config) { c.ReloadInterval = -time.Minute }, "reload interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}

	cfg := validConfig()
	cfg.SnapshotPath, cfg.CacheTTL = "", 0
	err := cfg.Validate()
	assert.ErrorContains(t, err, "snapshot path")
	assert.ErrorContains(t, err, "cache ttl")
}

func TestDerivedOptions(t *testing.T) {
	cfg := validConfig()
	cfg.BlockTime = time.Second
	cfg.InflationRate = 0.07

	p := cfg.YieldParams()
	assert.Equal(t, float64(yield.FastBlocksPerYear), p.BlocksPerYear)
	assert.Equal(t, 0.07, p.InflationRate)
	assert.Equal(t, uint32(500), p.DefaultCommissionBP)

	opt := cfg.CacheOptions()
	assert.Equal(t, 30*time.Second, opt.DefaultTTL)
	assert.Equal(t, 1000, opt.MaxSize)
	assert.Equal(t, time.Minute, opt.SweepInterval)

	cfg.CacheSweep = 0
	assert.Negative(t, cfg.CacheOptions().SweepInterval)
}
