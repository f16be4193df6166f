package canslim

import (
	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/internal/screener/config"
)

// Evaluator runs all seven sub-scorers and combines them with the
// configured weight vector. Weights are validated at startup; by the time
// an Evaluator exists they sum to 1.0.
type Evaluator struct {
	scorers []Scorer
	weights map[entity.Criterion]float64
}

// NewEvaluator builds the evaluator from the screener configuration.
func NewEvaluator(cfg *config.Config) *Evaluator {
	return &Evaluator{
		scorers: []Scorer{
			&CurrentEarningsScorer{GrowthTarget: cfg.Canslim.CGrowthTarget},
			&AnnualEarningsScorer{GrowthTarget: cfg.Canslim.AGrowthTarget},
			&NewProductsScorer{
				RevenueTarget:   cfg.Canslim.NRevenueTarget,
				RevenueWeight:   cfg.Canslim.NRevenueWeight,
				ProximityWeight: cfg.Canslim.NProximityWeight,
			},
			&SupplyDemandScorer{TurnoverCap: cfg.Canslim.STurnoverCap},
			&LeaderLaggardScorer{},
			&InstitutionalScorer{
				InstitutionalCap: cfg.Canslim.IInstitutionalCap,
				TurnoverCap:      cfg.Canslim.STurnoverCap,
			},
			&MarketDirectionScorer{},
		},
		weights: cfg.CriterionWeights(),
	}
}

// Evaluate produces the weighted composite for one symbol. A missing input
// degrades the affected sub-score to its fallback; it never fails the
// composite.
func (e *Evaluator) Evaluate(in *Input) *entity.CanslimComposite {
	composite := &entity.CanslimComposite{
		Symbol:    in.Symbol,
		SubScores: make(map[entity.Criterion]entity.CanslimSubScore, len(e.scorers)),
		Weights:   e.weights,
	}

	var total float64
	for _, scorer := range e.scorers {
		sub := scorer.Score(in)
		composite.SubScores[scorer.Criterion()] = sub
		total += e.weights[scorer.Criterion()] * sub.Value
	}
	composite.Total = clamp(total, 0, 100)
	return composite
}
