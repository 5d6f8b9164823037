package staking

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TxnLab/stakeview/internal/cache"
)

// countingSource wraps a Source, counting upstream reads and optionally failing them.
type countingSource struct {
	Source
	reads atomic.Int32
	fail  error
}

func (c *countingSource) hit() error {
	c.reads.Add(1)
	return c.fail
}

func (c *countingSource) ActiveValidators(ctx context.Context) ([]string, error) {
	if err := c.hit(); err != nil {
		return nil, err
	}
	return c.Source.ActiveValidators(ctx)
}

func (c *countingSource) Validator(ctx context.Context, address string) (*ValidatorSnapshot, error) {
	if err := c.hit(); err != nil {
		return nil, err
	}
	return c.Source.Validator(ctx, address)
}

func (c *countingSource) Stake(ctx context.Context, validator, delegator string) (*big.Int, error) {
	if err := c.hit(); err != nil {
		return nil, err
	}
	return c.Source.Stake(ctx, validator, delegator)
}

func (c *countingSource) TotalNetworkStake(ctx context.Context) (*big.Int, error) {
	if err := c.hit(); err != nil {
		return nil, err
	}
	return c.Source.TotalNetworkStake(ctx)
}

func (c *countingSource) BlockNumber(ctx context.Context) (uint64, error) {
	if err := c.hit(); err != nil {
		return 0, err
	}
	return c.Source.BlockNumber(ctx)
}

func newTestService(t *testing.T) (*Service, *countingSource, *cache.Registry) {
	t.Helper()
	src := &countingSource{Source: loadedSource(t, testSnapshot())}
	reg := cache.NewRegistry(cache.Options{SweepInterval: -1}, nil)
	t.Cleanup(reg.Destroy)
	return NewService(testLogger(), src, reg), src, reg
}

func TestServiceReadThrough(t *testing.T) {
	ctx := context.Background()
	svc, src, reg := newTestService(t)

	for range 3 {
		info, err := svc.ValidatorInfo(ctx, valA)
		require.NoError(t, err)
		assert.Equal(t, valA, info.Address)
	}
	assert.Equal(t, int32(1), src.reads.Load())

	stake := svc.Stake(ctx, valA, delX)
	assert.False(t, stake.IsDegraded())
	assert.Equal(t, "2000000000000000000000", stake.Value.String())
	svc.Stake(ctx, valA, delX)
	assert.Equal(t, int32(2), src.reads.Load())

	assert.Equal(t, []string{"validator_info_" + valA}, reg.Store(NamespaceValidators).Keys())
	assert.Equal(t, []string{"stake_" + valA + "_" + delX}, reg.Store(NamespaceDelegators).Keys())

	assert.Equal(t, 2, svc.Invalidate())
	svc.Stake(ctx, valA, delX)
	assert.Equal(t, int32(3), src.reads.Load())
}

func TestServiceDegraded(t *testing.T) {
	ctx := context.Background()
	svc, src, reg := newTestService(t)
	boom := errors.New("rpc unavailable")
	src.fail = boom

	active := svc.ActiveValidators(ctx)
	assert.ErrorIs(t, active.Degraded, boom)
	assert.Empty(t, active.Value)
	assert.NotNil(t, active.Value)

	stake := svc.Stake(ctx, valA, delX)
	assert.True(t, stake.IsDegraded())
	assert.Equal(t, 0, stake.Value.Sign())

	total := svc.TotalNetworkStake(ctx)
	assert.True(t, total.IsDegraded())
	assert.Equal(t, 0, total.Value.Sign())

	block := svc.BlockNumber(ctx)
	assert.True(t, block.IsDegraded())
	assert.Zero(t, block.Value)

	_, err := svc.ValidatorInfo(ctx, valA)
	assert.ErrorIs(t, err, boom)

	// fallbacks are never cached
	for _, ns := range []string{NamespaceValidators, NamespaceDelegators, NamespaceNetwork} {
		assert.Zero(t, reg.Store(ns).Len(), ns)
	}

	src.fail = nil
	assert.False(t, svc.Stake(ctx, valA, delX).IsDegraded())
}

func TestServiceValidatorNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.ValidatorInfo(context.Background(), delX)
	assert.ErrorIs(t, err, ErrValidatorNotFound)
}

func TestServiceRefresh(t *testing.T) {
	ctx := context.Background()
	svc, src, _ := newTestService(t)
	require.NoError(t, svc.Refresh(ctx))

	src.fail = errors.New("down")
	svc.Invalidate()
	assert.Error(t, svc.Refresh(ctx))
}
