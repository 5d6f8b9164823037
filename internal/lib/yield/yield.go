// Package yield estimates staking returns for a validator: APR, compounded APY, the
// delegator/operator split of those, a performance score, a risk tier and break-even time.
//
// Every function here is pure. Degenerate inputs (zero stake, zero reward) produce zero
// results, never errors.
package yield

import (
	"math"
)

// Method tells whether a reward figure came from observed data or the inflation model.
type Method string

const (
	MethodHistorical Method = "historical"
	MethodEstimated  Method = "estimated"
)

// Yield is an APR/APY pair in percent.
type Yield struct {
	APRPercent float64 `json:"aprPercent"`
	APYPercent float64 `json:"apyPercent"`
}

// SanitizeCommission returns bp, or def when bp is above 100%. The bool reports a substitution.
func SanitizeCommission(bp, def uint32) (uint32, bool) {
	if bp > MaxBasisPoints {
		return def, true
	}
	return bp, false
}

// DailyReward is the validator's daily reward in token units. An observed reward of exactly
// zero means no history yet, so the reward is modelled from network inflation instead:
// stake * inflation spread over the year's blocks.
func DailyReward(staked, observed float64, p Params) (daily, perBlock float64, method Method) {
	blocks := p.BlocksPerYear
	if blocks <= 0 {
		blocks = SlowBlocksPerYear
	}
	if observed != 0 {
		return observed, observed * 365 / blocks, MethodHistorical
	}
	annual := staked * p.InflationRate
	perBlock = annual / blocks
	return perBlock * (blocks / 365), perBlock, MethodEstimated
}

// APR is the simple annualised return in percent, 2dp.
func APR(daily, staked float64) float64 {
	if staked <= 0 {
		return 0
	}
	return finite(round2(daily / staked * 365 * 100))
}

// APY is the return in percent, 2dp, with the daily rate compounded n times a year.
func APY(daily, staked float64, n int) float64 {
	if staked <= 0 {
		return 0
	}
	if n <= 0 {
		n = DefaultCompoundingPeriods
	}
	periodic := (daily / staked) / (float64(n) / 365)
	return finite(round2((math.Pow(1+periodic, float64(n)) - 1) * 100))
}

// Split divides the daily reward by commission and computes the yield of each share against
// the full stake. commissionBP must already be sanitized.
func Split(daily, staked float64, commissionBP uint32, n int) (delegator, operator Yield) {
	rate := float64(commissionBP) / MaxBasisPoints
	delegatorDaily := daily * (1 - rate)
	operatorDaily := daily * rate
	delegator = Yield{APRPercent: APR(delegatorDaily, staked), APYPercent: APY(delegatorDaily, staked, n)}
	operator = Yield{APRPercent: APR(operatorDaily, staked), APYPercent: APY(operatorDaily, staked, n)}
	return delegator, operator
}

// finite maps rates that overflowed on implausible upstream figures (a reward dwarfing its
// stake) to 0, the same value a validator without a usable stake reports.
func finite(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
