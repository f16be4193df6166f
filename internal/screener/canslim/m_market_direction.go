package canslim

import (
	"fmt"
	"time"

	"golang-canslim-screener/internal/entity"
)

// Market direction check weights. The four checks on the benchmark sum to a
// 0-1 trend score, scaled to 0-100.
const (
	mPriceAbove200Weight = 0.4
	mEMAAlignmentWeight  = 0.3
	mRising50Weight      = 0.2
	mPriceAbove21Weight  = 0.1
	mRising50Lookback    = 20

	// mDegradedScore is the cautious default when benchmark history is
	// unavailable: below neutral, but not outright bearish.
	mDegradedScore = 40.0
)

// EvaluateMarketTrend computes the shared MarketTrend from the benchmark's
// indicator set. It runs once per scan, before fan-out; every symbol's M
// evaluation reuses the result read-only.
func EvaluateMarketTrend(benchmark *entity.PriceSeries, ind *entity.IndicatorSet, bullishThreshold, bearishThreshold float64) entity.MarketTrend {
	trend := entity.MarketTrend{
		ReferenceSymbol: benchmark.Symbol,
		ComputedAt:      time.Now().UTC(),
	}

	last := ind.Last()
	close := benchmark.LastBar().Close

	var score float64
	if close > ind.EMA200[last] {
		score += mPriceAbove200Weight
	}
	if ind.EMA21[last] > ind.EMA50[last] && ind.EMA50[last] > ind.EMA200[last] {
		score += mEMAAlignmentWeight
	}
	if last >= mRising50Lookback && ind.EMA50[last] > ind.EMA50[last-mRising50Lookback] {
		score += mRising50Weight
	}
	if close > ind.EMA21[last] {
		score += mPriceAbove21Weight
	}

	trend.Score = clamp(score, 0, 1) * 100
	trend.Direction = directionFor(trend.Score, bullishThreshold, bearishThreshold)
	return trend
}

// DegradedMarketTrend is the fallback when the benchmark history could not
// be retrieved: conservative score, neutral direction, flagged as degraded.
func DegradedMarketTrend(referenceSymbol string) entity.MarketTrend {
	return entity.MarketTrend{
		Direction:       entity.MarketNeutral,
		Score:           mDegradedScore,
		ReferenceSymbol: referenceSymbol,
		ComputedAt:      time.Now().UTC(),
		Degraded:        true,
	}
}

func directionFor(score, bullishThreshold, bearishThreshold float64) entity.MarketDirection {
	switch {
	case score >= bullishThreshold:
		return entity.MarketBullish
	case score < bearishThreshold:
		return entity.MarketBearish
	default:
		return entity.MarketNeutral
	}
}

// MarketDirectionScorer evaluates M for one symbol by reading the shared
// scan-wide MarketTrend.
type MarketDirectionScorer struct{}

func (s *MarketDirectionScorer) Criterion() entity.Criterion {
	return entity.CriterionM
}

func (s *MarketDirectionScorer) Score(in *Input) entity.CanslimSubScore {
	return entity.CanslimSubScore{
		Criterion: entity.CriterionM,
		Value:     in.MarketTrend.Score,
		Detail: map[string]string{
			"direction": string(in.MarketTrend.Direction),
			"benchmark": in.MarketTrend.ReferenceSymbol,
			"score":     fmt.Sprintf("%.1f", in.MarketTrend.Score),
		},
		Degraded: in.MarketTrend.Degraded,
	}
}
