package entity

import "time"

// PriceBar is one day of OHLCV data. Bars are immutable once the series has
// been normalized.
type PriceBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose *float64  `json:"adj_close,omitempty"`
	Volume   *int64    `json:"volume,omitempty"`
}

// PriceSeries is an ordered (ascending by date, no duplicate dates) sequence
// of bars for one symbol.
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Closes returns the closing prices in bar order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// LastBar returns the most recent bar. It panics on an empty series; callers
// are expected to have validated the minimum bar count first.
func (s *PriceSeries) LastBar() PriceBar {
	return s.Bars[len(s.Bars)-1]
}
