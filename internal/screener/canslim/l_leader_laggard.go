package canslim

import (
	"fmt"

	"golang-canslim-screener/internal/entity"
)

// LeaderLaggardScorer evaluates L: leader or laggard, from the relative
// strength score against the benchmark. An RS of zero (matching the market)
// maps to the neutral 50; ±25 percentage points of weighted outperformance
// saturates the scale.
type LeaderLaggardScorer struct{}

func (s *LeaderLaggardScorer) Criterion() entity.Criterion {
	return entity.CriterionL
}

func (s *LeaderLaggardScorer) Score(in *Input) entity.CanslimSubScore {
	if in.RS == nil {
		return degradedScore(entity.CriterionL, "relative strength unscored")
	}

	return entity.CanslimSubScore{
		Criterion: entity.CriterionL,
		Value:     clamp(50+2*in.RS.Value, 0, 100),
		Detail: map[string]string{
			"rs_score":  fmt.Sprintf("%.2f", in.RS.Value),
			"benchmark": in.RS.BenchmarkSymbol,
		},
	}
}
