package yield

import (
	"fmt"
	"math"
)

// ScoreInput is what the performance score and risk assessment look at.
type ScoreInput struct {
	APYPercent        float64
	CommissionPercent float64
	Staked            float64
	DelegatorCount    int
	Active            bool
	Slashed           bool
}

// PerformanceScore rates a validator 0..100. All thresholds are strict.
func PerformanceScore(in ScoreInput) int {
	score := 50

	switch apy := in.APYPercent; {
	case apy > 15:
		score += 40
	case apy > 12:
		score += 30
	case apy > 10:
		score += 20
	case apy > 8:
		score += 10
	}

	switch c := in.CommissionPercent; {
	case c < 5:
		score += 25
	case c < 10:
		score += 20
	case c < 15:
		score += 15
	case c < 20:
		score += 10
	default:
		score -= 10
	}

	switch s := in.Staked; {
	case s > 100_000:
		score += 20
	case s > 50_000:
		score += 15
	case s > 10_000:
		score += 10
	case s > 1_000:
		score += 5
	}

	if in.Active {
		score += 15
	}
	if !in.Slashed {
		score += 5
	}
	return max(0, min(100, score))
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Risk is the classified risk plus one display string per triggered condition.
type Risk struct {
	Level   RiskLevel `json:"level"`
	Score   int       `json:"score"`
	Factors []string  `json:"factors"`
}

func AssessRisk(in ScoreInput) Risk {
	risk := Risk{Factors: []string{}}
	if in.Slashed {
		risk.Score += 30
		risk.Factors = append(risk.Factors, "Validator has been slashed")
	}
	if in.DelegatorCount < 10 {
		risk.Score += 20
		risk.Factors = append(risk.Factors, fmt.Sprintf("Low delegator count (%d)", in.DelegatorCount))
	}
	if in.Staked < 1_000 {
		risk.Score += 25
		risk.Factors = append(risk.Factors, "Low total stake")
	}
	if in.CommissionPercent > 20 {
		risk.Score += 15
		risk.Factors = append(risk.Factors, fmt.Sprintf("High commission (%.2f%%)", in.CommissionPercent))
	}
	switch {
	case risk.Score >= 50:
		risk.Level = RiskHigh
	case risk.Score >= 25:
		risk.Level = RiskMedium
	default:
		risk.Level = RiskLow
	}
	return risk
}

// BreakEven is the time for simple interest at the given APY to repay the principal.
// Days is zero when Label is "N/A".
type BreakEven struct {
	Days  uint64 `json:"days,omitempty"`
	Label string `json:"label"`
}

func BreakEvenTime(apyPercent float64) BreakEven {
	if apyPercent <= 0 || math.IsNaN(apyPercent) || math.IsInf(apyPercent, 0) {
		return BreakEven{Label: "N/A"}
	}
	days := uint64(math.Ceil(36500 / apyPercent))
	be := BreakEven{Days: days}
	switch {
	case days > 3650:
		be.Label = "10+ years"
	case days > 365:
		be.Label = fmt.Sprintf("%d years", days/365)
	case days > 30:
		be.Label = fmt.Sprintf("%d months", days/30)
	default:
		be.Label = fmt.Sprintf("%d days", days)
	}
	return be
}
