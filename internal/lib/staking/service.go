package staking

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"time"

	"github.com/TxnLab/stakeview/internal/cache"
	"github.com/TxnLab/stakeview/internal/lib/misc"
)

// Service is the read-through cached view of a Source. Reads that can fall back to a neutral
// value (zero stake, empty validator set) do so on upstream failure and report the failure in
// Result.Degraded rather than failing the request.
type Service struct {
	src    Source
	logger *slog.Logger

	validators *cache.Store
	delegators *cache.Store
	network    *cache.Store
}

func NewService(logger *slog.Logger, src Source, registry *cache.Registry) *Service {
	return &Service{
		src:        src,
		logger:     logger,
		validators: registry.Store(NamespaceValidators),
		delegators: registry.Store(NamespaceDelegators),
		network:    registry.Store(NamespaceNetwork),
	}
}

// ValidatorInfo returns the snapshot for a (normalized) validator address. There is no
// sensible fallback for a single validator, so upstream errors are returned as-is.
func (s *Service) ValidatorInfo(ctx context.Context, address string) (*ValidatorSnapshot, error) {
	return cache.Fetch(ctx, s.validators, validatorInfoKey(address), 0, func(ctx context.Context) (*ValidatorSnapshot, error) {
		return s.src.Validator(ctx, address)
	})
}

// Validators is every registered validator address.
func (s *Service) Validators(ctx context.Context) Result[[]string] {
	list, err := cache.Fetch(ctx, s.validators, allValidatorsKey, ConstantsTTL, s.src.Validators)
	if err != nil {
		s.degraded("validator list", err)
		return Result[[]string]{Value: []string{}, Degraded: err}
	}
	return Result[[]string]{Value: list}
}

// ActiveValidators is the activated validator set.
func (s *Service) ActiveValidators(ctx context.Context) Result[[]string] {
	list, err := cache.Fetch(ctx, s.validators, activeValidatorsKey, ConstantsTTL, s.src.ActiveValidators)
	if err != nil {
		s.degraded("active validators", err)
		return Result[[]string]{Value: []string{}, Degraded: err}
	}
	return Result[[]string]{Value: list}
}

// Stake is what delegator has staked with validator, zero when unknown.
func (s *Service) Stake(ctx context.Context, validator, delegator string) Result[*big.Int] {
	amt, err := cache.Fetch(ctx, s.delegators, stakeKey(validator, delegator), 0, func(ctx context.Context) (*big.Int, error) {
		return s.src.Stake(ctx, validator, delegator)
	})
	if err != nil {
		s.degraded("stake "+validator+"/"+delegator, err)
		return Result[*big.Int]{Value: new(big.Int), Degraded: err}
	}
	return Result[*big.Int]{Value: amt}
}

func (s *Service) TotalNetworkStake(ctx context.Context) Result[*big.Int] {
	amt, err := cache.Fetch(ctx, s.network, totalStakingKey, 0, s.src.TotalNetworkStake)
	if err != nil {
		s.degraded("total network stake", err)
		return Result[*big.Int]{Value: new(big.Int), Degraded: err}
	}
	return Result[*big.Int]{Value: amt}
}

func (s *Service) BlockNumber(ctx context.Context) Result[uint64] {
	num, err := cache.Fetch(ctx, s.network, blockNumberKey, FastTTL, s.src.BlockNumber)
	if err != nil {
		s.degraded("block number", err)
		return Result[uint64]{Degraded: err}
	}
	return Result[uint64]{Value: num}
}

// Invalidate drops everything this service cached, used after the source reloads.
func (s *Service) Invalidate() int {
	return s.validators.Clear() + s.delegators.Clear() + s.network.Clear()
}

// Refresh reads the current network picture through the cache and publishes it to the
// staking gauges. Returns the first upstream failure, if any.
func (s *Service) Refresh(ctx context.Context) error {
	var errs []error
	active := s.ActiveValidators(ctx)
	errs = append(errs, active.Degraded)

	start := time.Now()
	stakers := map[string]struct{}{}
	var slashed int
	for _, addr := range active.Value {
		info, err := s.ValidatorInfo(ctx, addr)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if info.WasSlashed() {
			slashed++
		}
		for _, staker := range info.StakerAddresses {
			stakers[staker] = struct{}{}
		}
	}
	total := s.TotalNetworkStake(ctx)
	block := s.BlockNumber(ctx)
	errs = append(errs, total.Degraded, block.Degraded)

	promActiveValidators.Set(float64(len(active.Value)))
	promSlashedValidators.Set(float64(slashed))
	promNumDelegators.Set(float64(len(stakers)))
	promTotalStaked.Set(WeiToUnits(total.Value))
	promBlockHeight.Set(float64(block.Value))

	misc.Debugf(s.logger, "refreshed staking gauges, active:%d delegators:%d block:%d in %v",
		len(active.Value), len(stakers), block.Value, time.Since(start))
	return errors.Join(errs...)
}

func (s *Service) degraded(what string, err error) {
	s.logger.Warn("upstream read failed, using fallback", "read", what, "error", err)
}
