package canslim

import "golang-canslim-screener/internal/entity"

// AnnualEarningsScorer evaluates A: year-over-year annual earnings growth.
type AnnualEarningsScorer struct {
	GrowthTarget float64
}

func (s *AnnualEarningsScorer) Criterion() entity.Criterion {
	return entity.CriterionA
}

func (s *AnnualEarningsScorer) Score(in *Input) entity.CanslimSubScore {
	if in.Fundamentals == nil || !in.Fundamentals.AnnualEPSGrowth.Valid {
		return degradedScore(entity.CriterionA, "annual EPS growth unavailable")
	}

	growth := in.Fundamentals.AnnualEPSGrowth.Value
	return entity.CanslimSubScore{
		Criterion: entity.CriterionA,
		Value:     scoreFromGrowth(growth, s.GrowthTarget),
		Detail: map[string]string{
			"annual_eps_growth": formatPct(growth),
			"target":            formatPct(s.GrowthTarget),
		},
	}
}
