package service

import (
	"fmt"

	"golang-canslim-screener/internal/entity"
	"golang-canslim-screener/internal/screener/config"
	"golang-canslim-screener/pkg/common"
)

// IndicatorService computes the derived per-bar values every downstream
// stage consumes. Indicators are computed once per series per scan; no state
// is retained between scans.
type IndicatorService struct {
	cfg *config.Indicators
}

// NewIndicatorService creates an indicator engine with the configured periods.
func NewIndicatorService(cfg *config.Indicators) *IndicatorService {
	return &IndicatorService{cfg: cfg}
}

// Compute derives the full IndicatorSet for a normalized series. It fails
// closed: a series shorter than the longest EMA lookback yields
// ErrInsufficientHistory rather than a partially computed set.
func (s *IndicatorService) Compute(series *entity.PriceSeries) (*entity.IndicatorSet, error) {
	longest := s.cfg.EMATrend
	if series.Len() < longest {
		return nil, fmt.Errorf("%w: %s has %d bars, longest lookback is %d",
			common.ErrInsufficientHistory, series.Symbol, series.Len(), longest)
	}

	closes := series.Closes()
	set := &entity.IndicatorSet{
		EMA8:   EMA(closes, s.cfg.EMAShort),
		EMA21:  EMA(closes, s.cfg.EMALong),
		EMA50:  EMA(closes, s.cfg.EMAMedium),
		EMA200: EMA(closes, s.cfg.EMATrend),
		RSI14:  RSI(closes, s.cfg.RSIPeriod),
	}

	n := len(closes)
	set.High52Week = rollingHigh(series.Bars, common.TradingDaysPerYear)
	set.Above8EMA = make([]bool, n)
	set.Above21EMA = make([]bool, n)
	set.Distance8EMA = make([]float64, n)
	set.Distance21EMA = make([]float64, n)
	for i := 0; i < n; i++ {
		set.Above8EMA[i] = closes[i] > set.EMA8[i]
		set.Above21EMA[i] = closes[i] > set.EMA21[i]
		set.Distance8EMA[i] = distancePct(closes[i], set.EMA8[i])
		set.Distance21EMA[i] = distancePct(closes[i], set.EMA21[i])
	}

	return set, nil
}

// EMA computes an exponential moving average. The value at index period-1 is
// seeded with the simple average of the first period closes; later values
// follow the standard recurrence with smoothing factor 2/(period+1). Indexes
// before the seed repeat the seed value so every slice stays bar-aligned.
func EMA(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if len(closes) < period || period <= 0 {
		return out
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += closes[i]
	}
	seed := sum / float64(period)
	for i := 0; i < period; i++ {
		out[i] = seed
	}

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(closes); i++ {
		out[i] = (closes[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

// RSI computes the Relative Strength Index with Wilder's smoothing: the
// first average gain/loss is a simple mean over the first period changes,
// then each subsequent average is (prev*(period-1)+current)/period.
func RSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = 50 // neutral until enough history
	}
	if len(closes) <= period || period <= 0 {
		return out
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gainSum += change
		} else {
			lossSum -= change
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// rollingHigh returns the trailing maximum of highs over the last window
// bars (or all available bars when the history is shorter).
func rollingHigh(bars []entity.PriceBar, window int) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		high := bars[start].High
		for j := start + 1; j <= i; j++ {
			if bars[j].High > high {
				high = bars[j].High
			}
		}
		out[i] = high
	}
	return out
}

func distancePct(close, ema float64) float64 {
	if ema == 0 {
		return 0
	}
	return (close - ema) / ema * 100
}
