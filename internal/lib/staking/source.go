package staking

import (
	"context"
	"math/big"
)

// Source is the upstream reader of contract state. Implementations return already decoded
// values; returned snapshots and amounts must be treated as read-only by callers.
type Source interface {
	// Validators returns every registered validator address.
	Validators(ctx context.Context) ([]string, error)
	// ActiveValidators returns the activated validator set.
	ActiveValidators(ctx context.Context) ([]string, error)
	// Validator returns ErrValidatorNotFound for unknown addresses.
	Validator(ctx context.Context, address string) (*ValidatorSnapshot, error)
	// Stake is the amount delegator has staked with validator (zero when none).
	Stake(ctx context.Context, validator, delegator string) (*big.Int, error)
	TotalNetworkStake(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}
