// Package canslim evaluates the seven CANSLIM criteria and combines them
// into a weighted 0-100 composite.
package canslim

import (
	"fmt"

	"golang-canslim-screener/internal/entity"
)

// MidpointScore is the neutral fallback a sub-scorer returns when its
// required input is unavailable.
const MidpointScore = 50.0

// Input carries everything the sub-scorers may need for one symbol.
// Fundamentals and RS may be nil; every scorer degrades gracefully.
type Input struct {
	Symbol       string
	Fundamentals *entity.Fundamentals
	RS           *entity.RSScore

	// ProximityToHigh is the latest close divided by the 52-week high.
	ProximityToHigh float64

	// MarketTrend is the shared read-only benchmark trend for this scan run.
	MarketTrend entity.MarketTrend
}

// Scorer evaluates one CANSLIM criterion. Implementations are pure
// functions of their input.
type Scorer interface {
	Criterion() entity.Criterion
	Score(in *Input) entity.CanslimSubScore
}

// degradedScore builds the neutral fallback sub-score for a criterion whose
// input is missing.
func degradedScore(criterion entity.Criterion, reason string) entity.CanslimSubScore {
	return entity.CanslimSubScore{
		Criterion: criterion,
		Value:     MidpointScore,
		Degraded:  true,
		Detail:    map[string]string{"reason": reason},
	}
}

// scoreFromGrowth maps a growth rate onto 0-100: hitting the target scores
// 50, double the target (or better) scores 100, negative growth bottoms at 0.
func scoreFromGrowth(growth, target float64) float64 {
	return clamp(growth/target, 0, 2) / 2 * 100
}

// scoreFromRatio maps value/cap onto 0-100, saturating at the cap.
func scoreFromRatio(value, cap float64) float64 {
	return clamp(value/cap, 0, 1) * 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
