package dashboard

import (
	"context"
	"errors"

	"github.com/TxnLab/stakeview/internal/lib/ranking"
	"github.com/TxnLab/stakeview/internal/lib/staking"
	"github.com/TxnLab/stakeview/internal/lib/stats"
	"github.com/TxnLab/stakeview/internal/lib/yield"
)

type ValidatorSummary struct {
	Address               string         `json:"address"`
	Status                staking.Status `json:"status"`
	StakingAmount         float64        `json:"stakingAmount"`
	StakingAmountWei      string         `json:"stakingAmountWei"`
	CommissionBasisPoints uint32         `json:"commissionBasisPoints"`
	DelegatorCount        int            `json:"delegatorCount"`
	Slashed               bool           `json:"slashed"`
}

func summarizeValidator(v *staking.ValidatorSnapshot) ValidatorSummary {
	wei := "0"
	if v.StakingAmount != nil {
		wei = v.StakingAmount.String()
	}
	return ValidatorSummary{
		Address:               v.Address,
		Status:                v.Status,
		StakingAmount:         staking.WeiToUnits(v.StakingAmount),
		StakingAmountWei:      wei,
		CommissionBasisPoints: v.CommissionRateBasisPoints,
		DelegatorCount:        len(v.StakerAddresses),
		Slashed:               v.WasSlashed(),
	}
}

type ValidatorList struct {
	Validators  []ValidatorSummary `json:"validators"`
	Total       int                `json:"total"`
	ActiveCount int                `json:"activeCount"`
	BlockNumber uint64             `json:"blockNumber"`
	Degraded    bool               `json:"-"`
}

// Validators lists every registered validator. Validators whose details cannot be read are
// left out and the list is marked degraded.
func (d *Dashboard) Validators(ctx context.Context) (ValidatorList, error) {
	all := d.reader.Validators(ctx)
	block := d.reader.BlockNumber(ctx)
	list := ValidatorList{
		Validators:  []ValidatorSummary{},
		BlockNumber: block.Value,
		Degraded:    all.IsDegraded() || block.IsDegraded(),
	}
	for _, addr := range all.Value {
		info, err := d.reader.ValidatorInfo(ctx, addr)
		if err != nil {
			if ctx.Err() != nil {
				return ValidatorList{}, ctx.Err()
			}
			d.logger.Warn("skipping validator", "address", addr, "error", err)
			list.Degraded = true
			continue
		}
		if info.IsActive() {
			list.ActiveCount++
		}
		list.Validators = append(list.Validators, summarizeValidator(info))
	}
	list.Total = len(list.Validators)
	return list, nil
}

type ValidatorDetail struct {
	ValidatorSummary
	RewardAmountWei string   `json:"rewardAmountWei"`
	SlashAmountWei  string   `json:"slashAmountWei"`
	Stakers         []string `json:"stakers"`
}

// Validator returns one validator. Malformed addresses fail with staking.ErrInvalidAddress.
func (d *Dashboard) Validator(ctx context.Context, address string) (ValidatorDetail, error) {
	addr, err := staking.NormalizeAddress(address)
	if err != nil {
		return ValidatorDetail{}, err
	}
	info, err := d.reader.ValidatorInfo(ctx, addr)
	if err != nil {
		return ValidatorDetail{}, err
	}
	detail := ValidatorDetail{
		ValidatorSummary: summarizeValidator(info),
		RewardAmountWei:  "0",
		SlashAmountWei:   "0",
		Stakers:          append([]string{}, info.StakerAddresses...),
	}
	if info.RewardAmount != nil {
		detail.RewardAmountWei = info.RewardAmount.String()
	}
	if info.SlashAmount != nil {
		detail.SlashAmountWei = info.SlashAmount.String()
	}
	return detail, nil
}

// YieldReport estimates the yield of one validator, memoised in the apy namespace.
func (d *Dashboard) YieldReport(ctx context.Context, address string) (yield.Report, error) {
	addr, err := staking.NormalizeAddress(address)
	if err != nil {
		return yield.Report{}, err
	}
	return memoize(ctx, d.apy, "report_"+addr, func(ctx context.Context) (yield.Report, bool, error) {
		info, err := d.reader.ValidatorInfo(ctx, addr)
		if err != nil {
			return yield.Report{}, false, err
		}
		return yield.Estimate(info, d.params), false, nil
	})
}

type YieldProjection struct {
	Report      yield.Report       `json:"report"`
	Amount      float64            `json:"amount"`
	Projections []yield.Projection `json:"projections"`
}

// ErrInvalidAmount is returned for non-positive projection amounts.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// Project applies a validator's delegator yield to amount.
func (d *Dashboard) Project(ctx context.Context, address string, amount float64) (YieldProjection, error) {
	if !(amount > 0) {
		return YieldProjection{}, ErrInvalidAmount
	}
	rep, err := d.YieldReport(ctx, address)
	if err != nil {
		return YieldProjection{}, err
	}
	return YieldProjection{
		Report:      rep,
		Amount:      amount,
		Projections: yield.ProjectRewards(amount, rep.Delegator),
	}, nil
}

// Ranking is one page of the delegator ranking, memoised per page and limit.
func (d *Dashboard) Ranking(ctx context.Context, page, limit int) (ranking.Page, error) {
	return memoize(ctx, d.ranking, pageKey(page, limit), func(ctx context.Context) (ranking.Page, bool, error) {
		p, err := d.ranker.Rank(ctx, page, limit)
		return p, p.Degraded, err
	})
}

// RankOf is the standing of one delegator, memoised per address.
func (d *Dashboard) RankOf(ctx context.Context, address string) (ranking.Position, error) {
	addr, err := staking.NormalizeAddress(address)
	if err != nil {
		return ranking.Position{}, err
	}
	return memoize(ctx, d.ranking, "position_"+addr, func(ctx context.Context) (ranking.Position, bool, error) {
		pos, err := d.ranker.RankOf(ctx, addr)
		return pos, pos.Degraded, err
	})
}

type NetworkReport struct {
	stats.NetworkStats
	BlockNumber       uint64  `json:"blockNumber"`
	TotalNetworkStake float64 `json:"totalNetworkStake"`
	// Degraded is set when some upstream reads fell back to defaults.
	Degraded bool `json:"-"`
}

// NetworkStats summarises all registered validators: counts, stake concentration and the
// stake, commission and APR distributions.
func (d *Dashboard) NetworkStats(ctx context.Context) (NetworkReport, error) {
	return memoize(ctx, d.stats, "network", func(ctx context.Context) (NetworkReport, bool, error) {
		list, err := d.Validators(ctx)
		if err != nil {
			return NetworkReport{}, false, err
		}
		total := d.reader.TotalNetworkStake(ctx)

		figures := make([]stats.ValidatorFigures, 0, len(list.Validators))
		for _, v := range list.Validators {
			rep, err := d.YieldReport(ctx, v.Address)
			if err != nil {
				if ctx.Err() != nil {
					return NetworkReport{}, false, ctx.Err()
				}
				list.Degraded = true
				continue
			}
			figures = append(figures, stats.ValidatorFigures{
				Stake:             v.StakingAmount,
				CommissionPercent: float64(rep.CommissionBasisPoints) / 100,
				APRPercent:        rep.APRPercent,
				Active:            v.Status == staking.StatusActive,
			})
		}
		rep := NetworkReport{
			NetworkStats:      stats.Summarize(figures),
			BlockNumber:       list.BlockNumber,
			TotalNetworkStake: staking.WeiToUnits(total.Value),
			Degraded:          list.Degraded || total.IsDegraded(),
		}
		return rep, rep.Degraded, nil
	})
}
