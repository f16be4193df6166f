package canslim

import "golang-canslim-screener/internal/entity"

// CurrentEarningsScorer evaluates C: growth in current quarterly earnings.
// Strong quarterly growth (25%+ by default) marks company momentum.
type CurrentEarningsScorer struct {
	GrowthTarget float64
}

func (s *CurrentEarningsScorer) Criterion() entity.Criterion {
	return entity.CriterionC
}

func (s *CurrentEarningsScorer) Score(in *Input) entity.CanslimSubScore {
	if in.Fundamentals == nil || !in.Fundamentals.QuarterlyEPSGrowth.Valid {
		return degradedScore(entity.CriterionC, "quarterly EPS growth unavailable")
	}

	growth := in.Fundamentals.QuarterlyEPSGrowth.Value
	return entity.CanslimSubScore{
		Criterion: entity.CriterionC,
		Value:     scoreFromGrowth(growth, s.GrowthTarget),
		Detail: map[string]string{
			"quarterly_eps_growth": formatPct(growth),
			"target":               formatPct(s.GrowthTarget),
		},
	}
}
