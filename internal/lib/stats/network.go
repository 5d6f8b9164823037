package stats

// ValidatorFigures are the per-validator numbers network statistics are built from.
type ValidatorFigures struct {
	Stake             float64
	CommissionPercent float64
	APRPercent        float64
	Active            bool
}

type NetworkStats struct {
	ValidatorCount int     `json:"validatorCount"`
	ActiveCount    int     `json:"activeCount"`
	TotalStake     float64 `json:"totalStake"`
	StakeGini      float64 `json:"stakeGini"`
	Concentration  string  `json:"concentration"`

	Stake      Distribution `json:"stakeDistribution"`
	Commission Distribution `json:"commissionDistribution"`
	APR        Distribution `json:"aprDistribution"`
}

func Summarize(validators []ValidatorFigures) NetworkStats {
	var (
		stakes      = make([]float64, 0, len(validators))
		commissions = make([]float64, 0, len(validators))
		aprs        = make([]float64, 0, len(validators))
		ns          = NetworkStats{ValidatorCount: len(validators)}
	)
	for _, v := range validators {
		if v.Active {
			ns.ActiveCount++
		}
		ns.TotalStake += v.Stake
		stakes = append(stakes, v.Stake)
		commissions = append(commissions, v.CommissionPercent)
		aprs = append(aprs, v.APRPercent)
	}
	ns.StakeGini = Gini(stakes)
	ns.Concentration = GiniLabel(ns.StakeGini)
	ns.Stake = Histogram("stake", stakes)
	ns.Commission = Histogram("commission", commissions)
	ns.APR = Histogram("apr", aprs)
	return ns
}
