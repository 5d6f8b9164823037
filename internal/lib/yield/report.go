package yield

import (
	"math"

	"github.com/TxnLab/stakeview/internal/lib/staking"
)

// Report is the full yield picture of one validator.
type Report struct {
	ValidatorAddress string         `json:"validatorAddress"`
	Status           staking.Status `json:"status"`
	StakingAmount    float64        `json:"stakingAmount"`

	// CommissionBasisPoints is after sanitization; CommissionSanitized is set when the
	// upstream value was out of range and the default was used.
	CommissionBasisPoints uint32 `json:"commissionBasisPoints"`
	CommissionSanitized   bool   `json:"commissionSanitized"`

	APRPercent float64 `json:"aprPercent"`
	APYPercent float64 `json:"apyPercent"`
	Delegator  Yield   `json:"delegator"`
	Validator  Yield   `json:"validator"`

	DailyRewards      float64 `json:"dailyRewards"`
	PerBlockReward    float64 `json:"perBlockReward"`
	CalculationMethod Method  `json:"calculationMethod"`

	PerformanceScore int       `json:"performanceScore"`
	RiskLevel        RiskLevel `json:"riskLevel"`
	RiskFactors      []string  `json:"riskFactors"`
	BreakEven        BreakEven `json:"breakEven"`
}

// Estimate builds the Report for v. The snapshot's RewardAmount is taken as the last day's
// reward; zero triggers the inflation model.
func Estimate(v *staking.ValidatorSnapshot, p Params) Report {
	staked := staking.WeiToUnits(v.StakingAmount)
	commission, sanitized := SanitizeCommission(v.CommissionRateBasisPoints, p.DefaultCommissionBP)
	daily, perBlock, method := DailyReward(staked, staking.WeiToUnits(v.RewardAmount), p)

	rep := Report{
		ValidatorAddress:      v.Address,
		Status:                v.Status,
		StakingAmount:         staked,
		CommissionBasisPoints: commission,
		CommissionSanitized:   sanitized,
		APRPercent:            APR(daily, staked),
		APYPercent:            APY(daily, staked, p.CompoundingPeriods),
		DailyRewards:          daily,
		PerBlockReward:        perBlock,
		CalculationMethod:     method,
	}
	rep.Delegator, rep.Validator = Split(daily, staked, commission, p.CompoundingPeriods)

	in := ScoreInput{
		APYPercent:        rep.APYPercent,
		CommissionPercent: float64(commission) / 100,
		Staked:            staked,
		DelegatorCount:    len(v.StakerAddresses),
		Active:            v.IsActive(),
		Slashed:           v.WasSlashed(),
	}
	rep.PerformanceScore = PerformanceScore(in)
	risk := AssessRisk(in)
	rep.RiskLevel, rep.RiskFactors = risk.Level, risk.Factors
	rep.BreakEven = BreakEvenTime(rep.APYPercent)
	return rep
}

// Projection is the expected reward on an amount over a number of days.
type Projection struct {
	Days     int     `json:"days"`
	Simple   float64 `json:"simple"`
	Compound float64 `json:"compound"`
}

// ProjectionDays are the horizons ProjectRewards reports on.
var ProjectionDays = []int{1, 7, 30, 365}

// ProjectRewards projects rewards on amount at the given delegator yield: simple interest
// from the APR and compounded growth from the APY. Non-positive amounts project nothing.
func ProjectRewards(amount float64, y Yield) []Projection {
	out := make([]Projection, 0, len(ProjectionDays))
	for _, days := range ProjectionDays {
		p := Projection{Days: days}
		if amount > 0 {
			years := float64(days) / 365
			p.Simple = round2(amount * y.APRPercent / 100 * years)
			p.Compound = round2(amount * (math.Pow(1+y.APYPercent/100, years) - 1))
		}
		out = append(out, p)
	}
	return out
}
