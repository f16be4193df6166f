package canslim

import (
	"fmt"

	"golang-canslim-screener/internal/entity"
)

// InstitutionalScorer evaluates I: institutional sponsorship, from the
// fraction of shares held by institutions. When ownership data is missing
// the annualized turnover ratio serves as a demand proxy.
type InstitutionalScorer struct {
	InstitutionalCap float64
	TurnoverCap      float64
}

func (s *InstitutionalScorer) Criterion() entity.Criterion {
	return entity.CriterionI
}

func (s *InstitutionalScorer) Score(in *Input) entity.CanslimSubScore {
	if in.Fundamentals != nil && in.Fundamentals.InstitutionalOwnershipPct.Valid {
		pct := in.Fundamentals.InstitutionalOwnershipPct.Value
		return entity.CanslimSubScore{
			Criterion: entity.CriterionI,
			Value:     scoreFromRatio(pct, s.InstitutionalCap),
			Detail: map[string]string{
				"institutional_ownership": formatPct(pct),
			},
		}
	}

	if turnover, ok := annualizedTurnover(in.Fundamentals); ok {
		return entity.CanslimSubScore{
			Criterion: entity.CriterionI,
			Value:     scoreFromRatio(turnover, s.TurnoverCap),
			Detail: map[string]string{
				"proxy":               "annualized turnover",
				"annualized_turnover": fmt.Sprintf("%.2f", turnover),
			},
			Degraded: true,
		}
	}

	return degradedScore(entity.CriterionI, "institutional ownership unavailable")
}
