package yield

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TxnLab/stakeview/internal/lib/staking"
)

func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(staking.WeiPerUnit))
}

func stakers(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "staker"
	}
	return out
}

func TestEstimateInflationFallback(t *testing.T) {
	v := &staking.ValidatorSnapshot{
		Address:                   "0x1111111111111111111111111111111111111111",
		StakingAmount:             units(100_000),
		CommissionRateBasisPoints: 500,
		RewardAmount:              new(big.Int),
		SlashAmount:               big.NewInt(1),
		StakerAddresses:           stakers(12),
		Status:                    staking.StatusInactive,
	}
	rep := Estimate(v, DefaultParams())

	assert.Equal(t, MethodEstimated, rep.CalculationMethod)
	assert.Equal(t, 5.0, rep.APRPercent)
	assert.Equal(t, 5.13, rep.APYPercent)
	assert.Equal(t, uint32(500), rep.CommissionBasisPoints)
	assert.False(t, rep.CommissionSanitized)
	// 50 base, +20 for exactly 5% commission, +15 for 100,000 stake (not above 100,000)
	assert.Equal(t, 85, rep.PerformanceScore)
	assert.Equal(t, RiskMedium, rep.RiskLevel)
	assert.Equal(t, []string{"Validator has been slashed"}, rep.RiskFactors)
	assert.Equal(t, "10+ years", rep.BreakEven.Label)

	// flagging active adds its bonus
	v.Status = staking.StatusActive
	assert.Equal(t, 100, Estimate(v, DefaultParams()).PerformanceScore)

	// one basis point under 5% moves up a commission tier
	v.Status = staking.StatusInactive
	v.CommissionRateBasisPoints = 499
	assert.Equal(t, 90, Estimate(v, DefaultParams()).PerformanceScore)
}

func TestEstimateHistorical(t *testing.T) {
	v := &staking.ValidatorSnapshot{
		Address:                   "0x2222222222222222222222222222222222222222",
		StakingAmount:             units(36_500),
		CommissionRateBasisPoints: 1000,
		RewardAmount:              units(10),
		SlashAmount:               new(big.Int),
		StakerAddresses:           stakers(3),
		Status:                    staking.StatusActive,
	}
	rep := Estimate(v, DefaultParams())

	assert.Equal(t, MethodHistorical, rep.CalculationMethod)
	assert.Equal(t, 10.0, rep.APRPercent)
	assert.Equal(t, 10.52, rep.APYPercent)
	assert.Equal(t, 9.0, rep.Delegator.APRPercent)
	assert.Equal(t, 1.0, rep.Validator.APRPercent)
	assert.Equal(t, 10.0, rep.DailyRewards)
	assert.Equal(t, RiskLow, rep.RiskLevel)
	assert.Equal(t, []string{"Low delegator count (3)"}, rep.RiskFactors)
	assert.Equal(t, uint64(3470), rep.BreakEven.Days)
}

func TestEstimateSanitizesCommission(t *testing.T) {
	v := &staking.ValidatorSnapshot{
		StakingAmount:             units(1_000),
		CommissionRateBasisPoints: 15_000,
		Status:                    staking.StatusActive,
	}
	rep := Estimate(v, DefaultParams())
	assert.Equal(t, uint32(DefaultCommissionBP), rep.CommissionBasisPoints)
	assert.True(t, rep.CommissionSanitized)
	assert.Greater(t, rep.Delegator.APRPercent, rep.Validator.APRPercent)
}

func TestEstimateOverflowingReward(t *testing.T) {
	// a whole unit of reward on a single wei of stake compounds past float range
	v := &staking.ValidatorSnapshot{
		Address:                   "0x3333333333333333333333333333333333333333",
		StakingAmount:             big.NewInt(1),
		CommissionRateBasisPoints: 500,
		RewardAmount:              units(1),
		StakerAddresses:           stakers(1),
		Status:                    staking.StatusActive,
	}
	rep := Estimate(v, DefaultParams())

	assert.Equal(t, MethodHistorical, rep.CalculationMethod)
	assert.Zero(t, rep.APYPercent)
	assert.Zero(t, rep.Delegator.APYPercent)
	assert.Zero(t, rep.Validator.APYPercent)
	assert.Equal(t, "N/A", rep.BreakEven.Label)
	assert.Zero(t, rep.BreakEven.Days)

	_, err := json.Marshal(rep)
	require.NoError(t, err)
	_, err = json.Marshal(ProjectRewards(1000, rep.Delegator))
	require.NoError(t, err)
}

func TestEstimateEmptyValidator(t *testing.T) {
	rep := Estimate(&staking.ValidatorSnapshot{}, DefaultParams())
	assert.Zero(t, rep.APRPercent)
	assert.Zero(t, rep.APYPercent)
	assert.Equal(t, "N/A", rep.BreakEven.Label)
	assert.Equal(t, RiskMedium, rep.RiskLevel)
}

func TestProjectRewards(t *testing.T) {
	got := ProjectRewards(1_000, Yield{APRPercent: 10, APYPercent: 10.52})
	assert.Len(t, got, len(ProjectionDays))
	assert.Equal(t, Projection{Days: 1, Simple: 0.27, Compound: 0.27}, got[0])
	assert.Equal(t, Projection{Days: 365, Simple: 100, Compound: 105.2}, got[3])
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].Simple, got[i-1].Simple)
	}

	for _, p := range ProjectRewards(0, Yield{APRPercent: 10, APYPercent: 10.52}) {
		assert.Zero(t, p.Simple)
		assert.Zero(t, p.Compound)
	}
}
