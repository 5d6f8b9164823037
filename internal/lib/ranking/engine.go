// Package ranking orders delegators by their total stake across every active validator.
//
// Totals are recomputed from scratch on every call: an O(validators x stakers) scan over
// reads that are themselves cached. Callers that serve rankings repeatedly memoise the
// results (the dashboard keeps them in the "ranking" cache namespace).
package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/mailgun/holster/v4/syncutil"

	"github.com/TxnLab/stakeview/internal/lib/misc"
	"github.com/TxnLab/stakeview/internal/lib/staking"
)

// StakeReader is the slice of staking.Service the engine needs.
type StakeReader interface {
	ActiveValidators(ctx context.Context) staking.Result[[]string]
	ValidatorInfo(ctx context.Context, address string) (*staking.ValidatorSnapshot, error)
	Stake(ctx context.Context, validator, delegator string) staking.Result[*big.Int]
}

const defaultConcurrency = 20

type Engine struct {
	reader StakeReader
	logger *slog.Logger

	// Concurrency bounds the number of validators scanned at once.
	Concurrency int
}

func NewEngine(logger *slog.Logger, reader StakeReader) *Engine {
	return &Engine{reader: reader, logger: logger, Concurrency: defaultConcurrency}
}

// Totals is the result of a full scan.
type Totals struct {
	// ByDelegator is the summed stake of every delegator with a nonzero total.
	ByDelegator map[string]*big.Int
	// Breakdown is delegator -> validator -> stake, nonzero stakes only.
	Breakdown map[string]map[string]*big.Int
	// Degraded holds the upstream failures that left holes in the totals, if any.
	Degraded error
}

type validatorStakes struct {
	validator string
	stakes    map[string]*big.Int
	errs      []error
}

// ComputeAllTotals sums, per delegator, the stake held with each active validator. Validators
// are read concurrently; results are merged on the calling goroutine as they arrive.
func (e *Engine) ComputeAllTotals(ctx context.Context) (Totals, error) {
	active := e.reader.ActiveValidators(ctx)
	var degraded []error
	if active.IsDegraded() {
		degraded = append(degraded, active.Degraded)
	}

	var (
		fanOut   = syncutil.NewFanOut(max(1, e.Concurrency))
		resultCh = make(chan validatorStakes, 2)
	)
	// Run blocks while every slot is busy, so dispatch runs beside the merge loop below.
	go func() {
		for _, validator := range active.Value {
			fanOut.Run(func(val any) error {
				resultCh <- e.scanValidator(ctx, val.(string))
				return nil
			}, validator)
		}
		fanOut.Wait()
		close(resultCh)
	}()

	totals := Totals{
		ByDelegator: map[string]*big.Int{},
		Breakdown:   map[string]map[string]*big.Int{},
	}
	for vs := range resultCh {
		degraded = append(degraded, vs.errs...)
		for delegator, stake := range vs.stakes {
			sum, ok := totals.ByDelegator[delegator]
			if !ok {
				sum = new(big.Int)
				totals.ByDelegator[delegator] = sum
				totals.Breakdown[delegator] = map[string]*big.Int{}
			}
			sum.Add(sum, stake)
			totals.Breakdown[delegator][vs.validator] = stake
		}
	}
	if err := ctx.Err(); err != nil {
		return Totals{}, err
	}
	if len(degraded) > 0 {
		totals.Degraded = errors.Join(degraded...)
		misc.Warnf(e.logger, "delegator totals computed with %d upstream failures", len(degraded))
	}
	return totals, nil
}

func (e *Engine) scanValidator(ctx context.Context, validator string) validatorStakes {
	vs := validatorStakes{validator: validator, stakes: map[string]*big.Int{}}
	info, err := e.reader.ValidatorInfo(ctx, validator)
	if err != nil {
		vs.errs = append(vs.errs, fmt.Errorf("validator %s: %w", validator, err))
		return vs
	}
	for _, delegator := range info.StakerAddresses {
		if ctx.Err() != nil {
			return vs
		}
		stake := e.reader.Stake(ctx, validator, delegator)
		if stake.IsDegraded() {
			vs.errs = append(vs.errs, stake.Degraded)
		}
		if stake.Value != nil && stake.Value.Sign() > 0 {
			vs.stakes[delegator] = stake.Value
		}
	}
	return vs
}
