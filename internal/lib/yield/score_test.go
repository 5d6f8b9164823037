package yield

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerformanceScore(t *testing.T) {
	// neutral: no APY bonus, +20 commission tier, no stake bonus, inactive, slashed
	base := ScoreInput{APYPercent: 5, CommissionPercent: 5, Staked: 500, Slashed: true}
	with := func(f func(*ScoreInput)) ScoreInput {
		in := base
		f(&in)
		return in
	}
	tests := []struct {
		name string
		in   ScoreInput
		want int
	}{
		{"neutral", base, 70},
		{"apy exactly 15 is not above 15", with(func(in *ScoreInput) { in.APYPercent = 15 }), 100},
		{"apy 15.01", with(func(in *ScoreInput) { in.APYPercent = 15.01; in.CommissionPercent = 50 }), 80},
		{"apy 15.00 high commission", with(func(in *ScoreInput) { in.APYPercent = 15; in.CommissionPercent = 50 }), 70},
		{"apy 12.5", with(func(in *ScoreInput) { in.APYPercent = 12.5 }), 100},
		{"apy 10.01", with(func(in *ScoreInput) { in.APYPercent = 10.01 }), 90},
		{"apy 8", with(func(in *ScoreInput) { in.APYPercent = 8 }), 70},
		{"apy 8.5", with(func(in *ScoreInput) { in.APYPercent = 8.5 }), 80},
		{"commission 4.99", with(func(in *ScoreInput) { in.CommissionPercent = 4.99 }), 75},
		{"commission 10", with(func(in *ScoreInput) { in.CommissionPercent = 10 }), 65},
		{"commission 15", with(func(in *ScoreInput) { in.CommissionPercent = 15 }), 60},
		{"commission 20", with(func(in *ScoreInput) { in.CommissionPercent = 20 }), 40},
		{"stake 1000 exactly", with(func(in *ScoreInput) { in.Staked = 1000 }), 70},
		{"stake 1001", with(func(in *ScoreInput) { in.Staked = 1001 }), 75},
		{"stake 10001", with(func(in *ScoreInput) { in.Staked = 10_001 }), 80},
		{"stake 100000 exactly", with(func(in *ScoreInput) { in.Staked = 100_000 }), 85},
		{"stake 100001", with(func(in *ScoreInput) { in.Staked = 100_001 }), 90},
		{"active", with(func(in *ScoreInput) { in.Active = true }), 85},
		{"never slashed", with(func(in *ScoreInput) { in.Slashed = false }), 75},
		{"clamped high", ScoreInput{APYPercent: 20, CommissionPercent: 0, Staked: 1e6, Active: true}, 100},
		{"worst case", ScoreInput{CommissionPercent: 100, Slashed: true}, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PerformanceScore(tt.in))
		})
	}
}

func TestPerformanceScoreAPYBoundary(t *testing.T) {
	in := ScoreInput{CommissionPercent: 50, Slashed: true}
	in.APYPercent = 15.0
	at := PerformanceScore(in)
	in.APYPercent = 15.01
	above := PerformanceScore(in)
	assert.Equal(t, 70, at)
	assert.Equal(t, 80, above)
}

func TestAssessRisk(t *testing.T) {
	tests := []struct {
		name        string
		in          ScoreInput
		wantLevel   RiskLevel
		wantScore   int
		wantFactors int
	}{
		{"healthy", ScoreInput{DelegatorCount: 50, Staked: 1e6, CommissionPercent: 5}, RiskLow, 0, 0},
		{"few delegators", ScoreInput{DelegatorCount: 9, Staked: 1e6}, RiskLow, 20, 1},
		{"low stake only", ScoreInput{DelegatorCount: 10, Staked: 999}, RiskMedium, 25, 1},
		{"few delegators high commission", ScoreInput{DelegatorCount: 3, Staked: 1e6, CommissionPercent: 25}, RiskMedium, 35, 2},
		{"slashed few delegators", ScoreInput{Slashed: true, DelegatorCount: 3, Staked: 1e6}, RiskHigh, 50, 2},
		{"everything", ScoreInput{Slashed: true, DelegatorCount: 0, Staked: 10, CommissionPercent: 30}, RiskHigh, 90, 4},
		{"commission 20 is not high", ScoreInput{DelegatorCount: 10, Staked: 1000, CommissionPercent: 20}, RiskLow, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk := AssessRisk(tt.in)
			assert.Equal(t, tt.wantLevel, risk.Level)
			assert.Equal(t, tt.wantScore, risk.Score)
			assert.Len(t, risk.Factors, tt.wantFactors)
		})
	}
	assert.Equal(t, []string{"Validator has been slashed", "Low delegator count (0)", "Low total stake", "High commission (30.00%)"},
		AssessRisk(ScoreInput{Slashed: true, Staked: 10, CommissionPercent: 30}).Factors)
}

func TestBreakEvenTime(t *testing.T) {
	tests := []struct {
		apy       float64
		wantDays  uint64
		wantLabel string
	}{
		{0, 0, "N/A"},
		{-3, 0, "N/A"},
		{math.Inf(1), 0, "N/A"},
		{math.NaN(), 0, "N/A"},
		{5, 7300, "10+ years"},
		{10, 3650, "10 years"},
		{36, 1014, "2 years"},
		{100, 365, "12 months"},
		{1500, 25, "25 days"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.apy), func(t *testing.T) {
			be := BreakEvenTime(tt.apy)
			assert.Equal(t, tt.wantDays, be.Days)
			assert.Equal(t, tt.wantLabel, be.Label)
		})
	}
}
