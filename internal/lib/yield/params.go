package yield

import "time"

const (
	secondsPerYear = 365 * 24 * 60 * 60

	// FastBlocksPerYear is for a 1 second block time.
	FastBlocksPerYear = secondsPerYear
	// SlowBlocksPerYear is for a 2 second block time.
	SlowBlocksPerYear = secondsPerYear / 2

	DefaultInflationRate      = 0.05
	DefaultCommissionBP       = 500
	DefaultCompoundingPeriods = 365

	// MaxBasisPoints is 100%.
	MaxBasisPoints = 10_000
)

// Params are the network level inputs of every estimate. Values are taken as given; callers
// validate configuration before building Params.
type Params struct {
	// InflationRate is the yearly network inflation as a fraction (0.05 = 5%).
	InflationRate float64
	BlocksPerYear float64
	// DefaultCommissionBP replaces out of range commission rates.
	DefaultCommissionBP uint32
	// CompoundingPeriods per year for APY.
	CompoundingPeriods int
}

func DefaultParams() Params {
	return Params{
		InflationRate:       DefaultInflationRate,
		BlocksPerYear:       SlowBlocksPerYear,
		DefaultCommissionBP: DefaultCommissionBP,
		CompoundingPeriods:  DefaultCompoundingPeriods,
	}
}

// BlocksPerYear for the given block time. Non-positive block times use the slow (2s) constant.
func BlocksPerYear(blockTime time.Duration) float64 {
	switch {
	case blockTime <= 0:
		return SlowBlocksPerYear
	case blockTime == time.Second:
		return FastBlocksPerYear
	case blockTime == 2*time.Second:
		return SlowBlocksPerYear
	}
	return secondsPerYear / blockTime.Seconds()
}
