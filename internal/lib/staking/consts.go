package staking

import "time"

const (
	// Cache namespaces owned by the staking services
	NamespaceValidators = "validators"
	NamespaceDelegators = "delegators"
	NamespaceNetwork    = "network"
)

const (
	// FastTTL is for data that moves every block (block height, pending rewards).
	FastTTL = 5 * time.Second
	// ConstantsTTL is for data that rarely changes (activated validator set).
	ConstantsTTL = 5 * time.Minute
)

// WeiPerUnit - amounts on chain are 18 decimal fixed point.
const WeiPerUnit = 1e18

func validatorInfoKey(address string) string { return "validator_info_" + address }

func stakeKey(validator, delegator string) string {
	return "stake_" + validator + "_" + delegator
}

const (
	activeValidatorsKey = "active_validators"
	totalStakingKey     = "total_staking"
	blockNumberKey      = "block_number"
)

const allValidatorsKey = "all_validators"
