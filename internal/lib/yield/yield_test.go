package yield

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlocksPerYear(t *testing.T) {
	tests := []struct {
		blockTime time.Duration
		want      float64
	}{
		{time.Second, FastBlocksPerYear},
		{2 * time.Second, SlowBlocksPerYear},
		{3 * time.Second, 10_512_000},
		{0, SlowBlocksPerYear},
		{-time.Second, SlowBlocksPerYear},
	}
	for _, tt := range tests {
		t.Run(tt.blockTime.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, BlocksPerYear(tt.blockTime), 1e-6)
		})
	}
}

func TestSanitizeCommission(t *testing.T) {
	tests := []struct {
		bp            uint32
		want          uint32
		wantSanitized bool
	}{
		{0, 0, false},
		{500, 500, false},
		{10_000, 10_000, false},
		{10_001, DefaultCommissionBP, true},
		{15_000, DefaultCommissionBP, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.bp), func(t *testing.T) {
			got, sanitized := SanitizeCommission(tt.bp, DefaultCommissionBP)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSanitized, sanitized)
		})
	}
}

func TestDailyReward(t *testing.T) {
	p := DefaultParams()

	daily, perBlock, method := DailyReward(100_000, 0, p)
	assert.Equal(t, MethodEstimated, method)
	assert.InDelta(t, 100_000*0.05/365, daily, 1e-9)
	assert.InDelta(t, 100_000*0.05/SlowBlocksPerYear, perBlock, 1e-12)

	daily, perBlock, method = DailyReward(100_000, 12, p)
	assert.Equal(t, MethodHistorical, method)
	assert.Equal(t, 12.0, daily)
	assert.InDelta(t, 12*365/SlowBlocksPerYear, perBlock, 1e-12)

	// no stake and no history models to nothing
	daily, _, method = DailyReward(0, 0, p)
	assert.Equal(t, MethodEstimated, method)
	assert.Zero(t, daily)
}

func TestAPRAndAPY(t *testing.T) {
	daily := 100_000 * 0.05 / 365
	assert.Equal(t, 5.0, APR(daily, 100_000))
	assert.Equal(t, 5.13, APY(daily, 100_000, 365))
	// a single compounding period is simple interest
	assert.Equal(t, 5.0, APY(daily, 100_000, 1))
	// n <= 0 falls back to daily compounding
	assert.Equal(t, 5.13, APY(daily, 100_000, 0))

	for _, staked := range []float64{0, -10} {
		assert.Zero(t, APR(daily, staked))
		assert.Zero(t, APY(daily, staked, 365))
	}

	// compounding past float range reports no yield rather than +Inf
	assert.Zero(t, APY(1, 1e-18, 365))
	assert.InEpsilon(t, 3.65e22, APR(1, 1e-18), 1e-9)
}

func TestAPYDominatesAPR(t *testing.T) {
	const staked = 250_000.0
	for _, r := range []float64{0.01, 0.05, 0.08, 0.12, 0.2, 0.5} {
		t.Run(fmt.Sprint(r), func(t *testing.T) {
			daily := staked * r / 365
			apr := APR(daily, staked)
			apy := APY(daily, staked, DefaultCompoundingPeriods)
			assert.InDelta(t, r*100, apr, 0.01)
			assert.Greater(t, apy, apr)
		})
	}
	assert.Zero(t, APR(0, staked))
	assert.Zero(t, APY(0, staked, DefaultCompoundingPeriods))
}

func TestSplit(t *testing.T) {
	daily := 100_000 * 0.05 / 365
	delegator, operator := Split(daily, 100_000, 500, 365)
	assert.Equal(t, Yield{APRPercent: 4.75, APYPercent: 4.86}, delegator)
	assert.Equal(t, Yield{APRPercent: 0.25, APYPercent: 0.25}, operator)

	delegator, operator = Split(daily, 100_000, 0, 365)
	assert.Equal(t, Yield{APRPercent: 5, APYPercent: 5.13}, delegator)
	assert.Equal(t, Yield{}, operator)
}
