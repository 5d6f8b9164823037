package staking

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Status of a validator as reported by the staking contract.
type Status uint8

const (
	StatusInactive Status = 0
	StatusActive   Status = 1
	StatusJailed   Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusActive:
		return "active"
	case StatusJailed:
		return "jailed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalJSON accepts the contract's numeric value or the name returned by String.
func (s *Status) UnmarshalJSON(data []byte) error {
	var n uint8
	if err := json.Unmarshal(data, &n); err == nil {
		*s = Status(n)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("invalid validator status %s", data)
	}
	switch strings.ToLower(name) {
	case "inactive":
		*s = StatusInactive
	case "active":
		*s = StatusActive
	case "jailed":
		*s = StatusJailed
	default:
		return fmt.Errorf("unknown validator status %q", name)
	}
	return nil
}

// ValidatorSnapshot is the decoded on-chain state of one validator. It is handed to the
// estimators as an immutable value; nothing downstream mutates it.
type ValidatorSnapshot struct {
	Address string
	// StakingAmount is the total staked to this validator, in wei.
	StakingAmount *big.Int
	// CommissionRateBasisPoints is out of 10,000. Upstream data is untrusted and may exceed it.
	CommissionRateBasisPoints uint32
	// RewardAmount is the reward observed over the last day, in wei. Zero means no history yet.
	RewardAmount    *big.Int
	SlashAmount     *big.Int
	StakerAddresses []string
	Status          Status
}

func (v *ValidatorSnapshot) String() string {
	return fmt.Sprintf("Validator{Address: %s, Staked: %s, Commission: %dbp, Stakers: %d, Status: %s}",
		v.Address, FormattedAmount(v.StakingAmount), v.CommissionRateBasisPoints, len(v.StakerAddresses), v.Status)
}

// IsActive reports whether the validator is in the active set.
func (v *ValidatorSnapshot) IsActive() bool { return v.Status == StatusActive }

// WasSlashed reports whether the validator has ever been slashed.
func (v *ValidatorSnapshot) WasSlashed() bool {
	return v.SlashAmount != nil && v.SlashAmount.Sign() > 0
}

// NormalizeAddress validates a hex address and returns its checksummed form.
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return common.HexToAddress(address).Hex(), nil
}

// ParseWei parses a base-10 integer wei amount. Empty means zero.
func ParseWei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}

// WeiToUnits converts a wei amount to whole token units. nil is zero.
func WeiToUnits(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	units, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(WeiPerUnit)).Float64()
	return units
}

// FormattedAmount renders wei as token units with up to 6 decimals, trailing zeros chopped.
func FormattedAmount(wei *big.Int) string {
	formatted := fmt.Sprintf("%.6f", WeiToUnits(wei))
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")
	return formatted
}

// Result is a value from upstream plus, when the read failed, the error that caused a
// fallback value to be used instead. Callers decide whether to surface the degradation.
type Result[T any] struct {
	Value    T
	Degraded error
}

func (r Result[T]) IsDegraded() bool { return r.Degraded != nil }
