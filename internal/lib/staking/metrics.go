package staking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promActiveValidators = promauto.NewGauge(prometheus.GaugeOpts{
		Subsystem: "stakeview",
		Name:      "active_validator_count",
	})
	promSlashedValidators = promauto.NewGauge(prometheus.GaugeOpts{
		Subsystem: "stakeview",
		Name:      "slashed_validator_count",
	})
	promNumDelegators = promauto.NewGauge(prometheus.GaugeOpts{
		Subsystem: "stakeview",
		Name:      "delegator_count",
	})
	promTotalStaked = promauto.NewGauge(prometheus.GaugeOpts{
		Subsystem: "stakeview",
		Name:      "staked_total",
	})
	promBlockHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Subsystem: "stakeview",
		Name:      "block_height",
	})
)
