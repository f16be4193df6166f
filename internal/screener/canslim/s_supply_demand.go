package canslim

import (
	"fmt"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/pkg/common"
)

// SupplyDemandScorer evaluates S: supply and demand via the annualized
// share turnover ratio. High turnover signals demand; the cap keeps
// overtraded names from scoring ever higher.
type SupplyDemandScorer struct {
	TurnoverCap float64
}

func (s *SupplyDemandScorer) Criterion() entity.Criterion {
	return entity.CriterionS
}

func (s *SupplyDemandScorer) Score(in *Input) entity.CanslimSubScore {
	turnover, ok := annualizedTurnover(in.Fundamentals)
	if !ok {
		return degradedScore(entity.CriterionS, "volume or shares outstanding unavailable")
	}

	return entity.CanslimSubScore{
		Criterion: entity.CriterionS,
		Value:     scoreFromRatio(turnover, s.TurnoverCap),
		Detail: map[string]string{
			"annualized_turnover": fmt.Sprintf("%.2f", turnover),
		},
	}
}

// annualizedTurnover computes avg daily volume * 252 / shares outstanding.
func annualizedTurnover(f *entity.Fundamentals) (float64, bool) {
	if f == nil || !f.AvgVolume50D.Valid || !f.SharesOutstanding.Valid || f.SharesOutstanding.Value <= 0 {
		return 0, false
	}
	return f.AvgVolume50D.Value * common.TradingDaysPerYear / f.SharesOutstanding.Value, true
}
