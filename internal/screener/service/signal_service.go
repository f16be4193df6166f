package service

import (
	"math"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/internal/screener/config"
)

// SignalService scans the trend-annotated series for pullback entry
// patterns. Signals are a recent-opportunity view: only bars inside the
// configured recency window are considered.
type SignalService struct {
	cfg *config.Signals
}

// NewSignalService creates an entry signal detector.
func NewSignalService(cfg *config.Signals) *SignalService {
	return &SignalService{cfg: cfg}
}

// Detect emits at most one signal per bar, ordered by date. When several
// patterns would fire on the same bar the reclaim wins over the retests and
// the 8EMA retest wins over the 21EMA retest.
func (s *SignalService) Detect(series *entity.PriceSeries, ind *entity.IndicatorSet) []entity.EntrySignal {
	n := series.Len()
	start := n - s.cfg.RecentWindow
	if start < s.cfg.LookbackBars {
		start = s.cfg.LookbackBars
	}

	var signals []entity.EntrySignal
	for i := start; i < n; i++ {
		signalType, ok := s.classify(series, ind, i)
		if !ok {
			continue
		}
		signals = append(signals, entity.EntrySignal{
			Date:       series.Bars[i].Date,
			Type:       signalType,
			ClosePrice: series.Bars[i].Close,
			RSI:        ind.RSI14[i],
		})
	}
	return signals
}

func (s *SignalService) classify(series *entity.PriceSeries, ind *entity.IndicatorSet, i int) (entity.SignalType, bool) {
	if s.isReclaim(ind, i) {
		return entity.SignalEMA8Reclaim, true
	}
	if s.isRetest8(series, ind, i) {
		return entity.SignalEMA8Retest, true
	}
	if s.isRetest21(series, ind, i) {
		return entity.SignalEMA21Retest, true
	}
	return "", false
}

// isRetest8: the prior bar sat above the 8EMA by more than the band, the
// current bar's distance has compressed to within the band (inclusive) and
// the close still holds the 21EMA, so the trend is intact.
func (s *SignalService) isRetest8(series *entity.PriceSeries, ind *entity.IndicatorSet, i int) bool {
	band := s.cfg.Retest8PctBand
	return ind.Distance8EMA[i-1] > band &&
		math.Abs(ind.Distance8EMA[i]) <= band &&
		series.Bars[i].Close >= ind.EMA21[i]
}

// isRetest21: the same compression pattern against the 21EMA with the wider
// band, for pullbacks that cut through the 8EMA without breaking the trend.
func (s *SignalService) isRetest21(series *entity.PriceSeries, ind *entity.IndicatorSet, i int) bool {
	band := s.cfg.Retest21PctBand
	return ind.Distance21EMA[i-1] > band &&
		math.Abs(ind.Distance21EMA[i]) <= band &&
		series.Bars[i].Close >= ind.EMA21[i]
}

// isReclaim: within the break lookback window the price closed below the
// 8EMA at least once while every bar held the 21EMA, and the current bar
// closes back above the 8EMA.
func (s *SignalService) isReclaim(ind *entity.IndicatorSet, i int) bool {
	if !ind.Above8EMA[i] || !ind.Above21EMA[i] {
		return false
	}

	brokeBelow8 := false
	for j := i - s.cfg.BreakLookback; j < i; j++ {
		if j < 0 {
			return false
		}
		if !ind.Above21EMA[j] {
			return false
		}
		if !ind.Above8EMA[j] {
			brokeBelow8 = true
		}
	}
	return brokeBelow8
}
