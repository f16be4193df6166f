package canslim

import (
	"fmt"

	"golang-canslim-screener/internal/entity"
)

// proximityCap gives full credit when the close is within 5% of the
// 52-week high (proximity / 1.05 saturates at 1).
const proximityCap = 1.05

// NewProductsScorer evaluates N: new products and price leadership,
// approximated by revenue growth and proximity to the 52-week high.
type NewProductsScorer struct {
	RevenueTarget   float64
	RevenueWeight   float64
	ProximityWeight float64
}

func (s *NewProductsScorer) Criterion() entity.Criterion {
	return entity.CriterionN
}

func (s *NewProductsScorer) Score(in *Input) entity.CanslimSubScore {
	proximityScore := scoreFromRatio(in.ProximityToHigh, proximityCap)
	detail := map[string]string{
		"proximity_to_high": fmt.Sprintf("%.1f%%", in.ProximityToHigh*100),
	}

	if in.Fundamentals == nil || !in.Fundamentals.RevenueGrowth.Valid {
		// The price-leadership half is still observable from technicals, so
		// score on proximity alone and flag the degradation.
		detail["reason"] = "revenue growth unavailable"
		return entity.CanslimSubScore{
			Criterion: entity.CriterionN,
			Value:     proximityScore,
			Detail:    detail,
			Degraded:  true,
		}
	}

	growth := in.Fundamentals.RevenueGrowth.Value
	revenueScore := scoreFromGrowth(growth, s.RevenueTarget)
	detail["revenue_growth"] = formatPct(growth)

	return entity.CanslimSubScore{
		Criterion: entity.CriterionN,
		Value:     s.RevenueWeight*revenueScore + s.ProximityWeight*proximityScore,
		Detail:    detail,
	}
}
