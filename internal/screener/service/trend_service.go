package service

import (
	"fmt"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/internal/screener/config"
	"golang-canslim-screener/pkg/common"
)

// TrendService walks a trailing window, measures EMA adherence and
// higher-high/higher-low structure and reduces them to a 0-100 trend score.
type TrendService struct {
	cfg *config.Trend
}

// NewTrendService creates a trend analyzer over the configured window.
func NewTrendService(cfg *config.Trend) *TrendService {
	return &TrendService{cfg: cfg}
}

// Analyze computes the TrendScore over the trailing window. The score is a
// deterministic function of the adherence percentages and the structural
// flags; no randomness, fully reproducible for the same series.
func (s *TrendService) Analyze(series *entity.PriceSeries, ind *entity.IndicatorSet) (*entity.TrendScore, error) {
	window := s.cfg.WindowDays
	if series.Len() < window {
		return nil, fmt.Errorf("%w: %s has %d bars, trend window is %d",
			common.ErrInsufficientHistory, series.Symbol, series.Len(), window)
	}

	start := series.Len() - window
	var above8, above21 int
	for i := start; i < series.Len(); i++ {
		if ind.Above8EMA[i] {
			above8++
		}
		if ind.Above21EMA[i] {
			above21++
		}
	}

	trend := &entity.TrendScore{
		EMA8AdherencePct:  float64(above8) / float64(window) * 100,
		EMA21AdherencePct: float64(above21) / float64(window) * 100,
	}

	// Structure: the second half of the window must print a strictly higher
	// extreme than the first half.
	half := start + window/2
	firstHigh, firstLow := extremes(series.Bars[start:half])
	secondHigh, secondLow := extremes(series.Bars[half:])
	trend.HigherHighs = secondHigh > firstHigh
	trend.HigherLows = secondLow > firstLow

	trend.Score = blendTrendScore(trend)
	return trend, nil
}

// blendTrendScore maps adherence and structure into banded scores:
// below 50 when neither adherence threshold is met, 50-60 for a qualifying
// trend without structure, 60-80 with one structural flag, 80-100 with both.
// Within each band the score grows linearly with mean adherence, so it is
// monotonically non-decreasing in adherence for fixed flags.
func blendTrendScore(t *entity.TrendScore) float64 {
	adh := (t.EMA8AdherencePct + t.EMA21AdherencePct) / 2

	if !t.Qualifying() {
		return adh / 2
	}
	switch {
	case t.HigherHighs && t.HigherLows:
		score := 80 + adh/5
		if score > 100 {
			score = 100
		}
		return score
	case t.HigherHighs || t.HigherLows:
		return 60 + adh/5
	default:
		return 50 + adh/10
	}
}

func extremes(bars []entity.PriceBar) (high, low float64) {
	high, low = bars[0].High, bars[0].Low
	for _, bar := range bars[1:] {
		if bar.High > high {
			high = bar.High
		}
		if bar.Low < low {
			low = bar.Low
		}
	}
	return high, low
}
