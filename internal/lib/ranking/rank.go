package ranking

import (
	"cmp"
	"context"
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/TxnLab/stakeview/internal/lib/staking"
	"github.com/TxnLab/stakeview/internal/lib/stats"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

type Entry struct {
	Rank             int     `json:"rank"`
	DelegatorAddress string  `json:"delegatorAddress"`
	TotalStakeWei    string  `json:"totalStakeWei"`
	TotalStake       float64 `json:"totalStake"`
	// PercentOfTotal has 4 decimals, or is "0.00" when nothing is staked at all.
	PercentOfTotal string `json:"percentOfTotal"`
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

type Summary struct {
	TotalDelegators int     `json:"totalDelegators"`
	TotalStakeWei   string  `json:"totalStakeWei"`
	TotalStake      float64 `json:"totalStake"`
	AverageStake    float64 `json:"averageStake"`
	MedianStake     float64 `json:"medianStake"`
	LargestStake    float64 `json:"largestStake"`
	// Top10Share is the percent of all stake held by the ten largest delegators.
	Top10Share    float64 `json:"top10Share"`
	Gini          float64 `json:"gini"`
	Concentration string  `json:"concentration"`
}

type Page struct {
	Entries    []Entry    `json:"entries"`
	Pagination Pagination `json:"pagination"`
	Summary    Summary    `json:"summary"`
	Degraded   bool       `json:"degraded"`
}

type ValidatorStake struct {
	Validator string  `json:"validator"`
	StakeWei  string  `json:"stakeWei"`
	Stake     float64 `json:"stake"`
}

// Position is one delegator's standing. Found is false (and Rank nil) for delegators with no
// stake, which is distinct from being ranked last.
type Position struct {
	DelegatorAddress string           `json:"delegatorAddress"`
	Found            bool             `json:"found"`
	Rank             *int             `json:"rank"`
	TotalDelegators  int              `json:"totalDelegators"`
	TotalStakeWei    string           `json:"totalStakeWei"`
	TotalStake       float64          `json:"totalStake"`
	Percentile       float64          `json:"percentile"`
	Breakdown        []ValidatorStake `json:"validatorBreakdown"`
	Degraded         bool             `json:"degraded"`
}

type ranked struct {
	address string
	stake   *big.Int
}

// sortedTotals orders delegators by stake, largest first. Equal stakes are ordered by address
// so the full list is deterministic.
func sortedTotals(totals map[string]*big.Int) []ranked {
	list := make([]ranked, 0, len(totals))
	for addr, stake := range totals {
		list = append(list, ranked{address: addr, stake: stake})
	}
	slices.SortFunc(list, func(a, b ranked) int {
		if c := b.stake.Cmp(a.stake); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(a.address), strings.ToLower(b.address))
	})
	return list
}

// Rank returns one page of the full ranking. Ranks are positional (1-based) over the sorted
// list, summaries cover every delegator. page < 1 is the first page; limit falls back to
// DefaultLimit and is capped at MaxLimit.
func (e *Engine) Rank(ctx context.Context, page, limit int) (Page, error) {
	totals, err := e.ComputeAllTotals(ctx)
	if err != nil {
		return Page{}, err
	}
	page = max(page, 1)
	if limit < 1 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	list := sortedTotals(totals.ByDelegator)
	sum := new(big.Int)
	for _, r := range list {
		sum.Add(sum, r.stake)
	}

	out := Page{
		Entries:  []Entry{},
		Summary:  summarize(list, sum),
		Degraded: totals.Degraded != nil,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      len(list),
			TotalPages: (len(list) + limit - 1) / limit,
		},
	}
	out.Pagination.HasNext = page < out.Pagination.TotalPages

	start := min((page-1)*limit, len(list))
	end := min(start+limit, len(list))
	for i := start; i < end; i++ {
		out.Entries = append(out.Entries, Entry{
			Rank:             i + 1,
			DelegatorAddress: list[i].address,
			TotalStakeWei:    list[i].stake.String(),
			TotalStake:       staking.WeiToUnits(list[i].stake),
			PercentOfTotal:   percentOf(list[i].stake, sum),
		})
	}
	return out, nil
}

// RankOf finds the standing of one delegator. Ties share a rank: rank is one more than the
// number of delegators with strictly more stake.
func (e *Engine) RankOf(ctx context.Context, delegator string) (Position, error) {
	totals, err := e.ComputeAllTotals(ctx)
	if err != nil {
		return Position{}, err
	}
	pos := Position{
		DelegatorAddress: delegator,
		TotalDelegators:  len(totals.ByDelegator),
		TotalStakeWei:    "0",
		Breakdown:        []ValidatorStake{},
		Degraded:         totals.Degraded != nil,
	}
	stake, ok := totals.ByDelegator[delegator]
	if !ok || stake.Sign() == 0 {
		return pos, nil
	}

	rank := 1
	for addr, other := range totals.ByDelegator {
		if addr != delegator && other.Cmp(stake) > 0 {
			rank++
		}
	}
	n := len(totals.ByDelegator)
	pos.Found = true
	pos.Rank = &rank
	pos.TotalStakeWei = stake.String()
	pos.TotalStake = staking.WeiToUnits(stake)
	pos.Percentile = round2(float64(n-rank+1) / float64(n) * 100)
	pos.Breakdown = breakdown(totals.Breakdown[delegator])
	return pos, nil
}

// breakdown lists the validators holding stake for one delegator, largest first.
func breakdown(byValidator map[string]*big.Int) []ValidatorStake {
	list := make([]ranked, 0, len(byValidator))
	for validator, stake := range byValidator {
		if stake.Sign() > 0 {
			list = append(list, ranked{address: validator, stake: stake})
		}
	}
	slices.SortFunc(list, func(a, b ranked) int {
		if c := b.stake.Cmp(a.stake); c != 0 {
			return c
		}
		return cmp.Compare(a.address, b.address)
	})
	out := make([]ValidatorStake, 0, len(list))
	for _, r := range list {
		out = append(out, ValidatorStake{
			Validator: r.address,
			StakeWei:  r.stake.String(),
			Stake:     staking.WeiToUnits(r.stake),
		})
	}
	return out
}

func summarize(list []ranked, sum *big.Int) Summary {
	s := Summary{
		TotalDelegators: len(list),
		TotalStakeWei:   sum.String(),
		TotalStake:      staking.WeiToUnits(sum),
		Concentration:   stats.GiniLabel(0),
	}
	if len(list) == 0 {
		return s
	}
	amounts := make([]float64, len(list))
	for i, r := range list {
		amounts[i] = staking.WeiToUnits(r.stake)
	}
	s.AverageStake = s.TotalStake / float64(len(list))
	// list is descending, the median is taken over ascending order
	s.MedianStake = amounts[len(amounts)-1-len(amounts)/2]
	s.LargestStake = amounts[0]

	top := new(big.Int)
	for _, r := range list[:min(10, len(list))] {
		top.Add(top, r.stake)
	}
	if sum.Sign() > 0 {
		share, _ := new(big.Float).Quo(new(big.Float).SetInt(top), new(big.Float).SetInt(sum)).Float64()
		s.Top10Share = round2(share * 100)
	}
	s.Gini = stats.Gini(amounts)
	s.Concentration = stats.GiniLabel(s.Gini)
	return s
}

// percentOf formats part/whole as a percentage with 4 decimals.
func percentOf(part, whole *big.Int) string {
	if whole.Sign() == 0 {
		return "0.00"
	}
	pct := new(big.Float).SetPrec(128).SetInt(part)
	pct.Mul(pct, big.NewFloat(100))
	pct.Quo(pct, new(big.Float).SetPrec(128).SetInt(whole))
	return pct.Text('f', 4)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
