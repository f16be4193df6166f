package entity

// IndicatorSet holds per-bar derived values for one PriceSeries. Slices are
// indexed 1:1 with the series bars. The set is recomputed fresh for every
// scan and never shared across symbols.
type IndicatorSet struct {
	EMA8   []float64
	EMA21  []float64
	EMA50  []float64
	EMA200 []float64
	RSI14  []float64

	// High52Week is the trailing rolling maximum of highs over the last 252
	// bars (or the whole history when shorter).
	High52Week []float64

	// Above8EMA and Above21EMA flag bars whose close is strictly above the
	// corresponding EMA.
	Above8EMA  []bool
	Above21EMA []bool

	// Distance8EMA and Distance21EMA are the close-to-EMA distances as a
	// percentage of the EMA.
	Distance8EMA  []float64
	Distance21EMA []float64
}

// Len returns the number of bars the set covers.
func (ind *IndicatorSet) Len() int {
	return len(ind.EMA8)
}

// Last returns the index of the most recent bar.
func (ind *IndicatorSet) Last() int {
	return len(ind.EMA8) - 1
}
