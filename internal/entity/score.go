package entity

import "time"

// RSScore is the relative-strength-vs-benchmark result for one symbol.
// Positive means sustained outperformance, weighted toward recent behavior.
type RSScore struct {
	Value           float64   `json:"value"`
	BenchmarkSymbol string    `json:"benchmark_symbol"`
	PeriodDays      int       `json:"period_days"`
	// QuarterContributions holds the weighted per-bucket outperformance
	// deltas, oldest bucket first, most recent bucket last.
	QuarterContributions []float64 `json:"quarter_contributions"`
}

// TrendScore summarizes EMA adherence and price structure over the trailing
// trend window.
type TrendScore struct {
	Score            float64 `json:"score"`
	EMA8AdherencePct float64 `json:"ema8_adherence_pct"`
	EMA21AdherencePct float64 `json:"ema21_adherence_pct"`
	HigherHighs      bool    `json:"higher_highs"`
	HigherLows       bool    `json:"higher_lows"`
}

// Qualifying reports whether the window meets either EMA adherence
// threshold that marks a trending series.
func (t TrendScore) Qualifying() bool {
	return t.EMA8AdherencePct >= 70 || t.EMA21AdherencePct >= 80
}

// SignalType identifies one of the pullback entry patterns.
type SignalType string

const (
	SignalEMA8Retest  SignalType = "EMA8_Retest"
	SignalEMA21Retest SignalType = "EMA21_Retest"
	SignalEMA8Reclaim SignalType = "EMA8_Reclaim"
)

// EntrySignal is one dated pullback entry record. A series may produce zero
// or many, ordered ascending by date.
type EntrySignal struct {
	Date       time.Time  `json:"date"`
	Type       SignalType `json:"signal_type"`
	ClosePrice float64    `json:"close_price"`
	RSI        float64    `json:"rsi"`
}
